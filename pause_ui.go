package main

import (
	"fmt"
	"image/color"

	"github.com/milk9111/heroknight/common"
	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/heroknight/progress"
)

// PauseUI is the pause menu plus a line of personal-best stats.
type PauseUI struct {
	ui    *ebitenui.UI
	stats *widget.Text
}

func (p *PauseUI) Update() { p.ui.Update() }

func (p *PauseUI) Draw(screen *ebiten.Image) { p.ui.Draw(screen) }

// Refresh rewrites the stats line from the current record.
func (p *PauseUI) Refresh(rec progress.Record) {
	p.stats.Label = statsLabel(rec)
}

func statsLabel(rec progress.Record) string {
	if rec.Episodes == 0 {
		return "No finished episodes yet"
	}
	goals := 0
	for _, n := range rec.Goals {
		goals += n
	}
	return fmt.Sprintf("Best %.3f (episode %d)  coins %d  goals %d", rec.BestReward, rec.BestEpisode, rec.BestCoins, goals)
}

// NewPauseUI builds the pause menu: resume, close the running episode, or
// draw a fresh coin wave.
func NewPauseUI(g *Game) *PauseUI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x4a, G: 0x4a, B: 0x5a, A: 255})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}

	title := widget.NewText(
		widget.TextOpts.Text("Paused", &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	stats := widget.NewText(
		widget.TextOpts.Text(statsLabel(g.progress.Record()), &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/2, common.BaseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(stats)
	panel.AddChild(button("Resume", func() {
		g.paused = false
	}))
	panel.AddChild(button("Reset episode", func() {
		g.sim.ResetEpisode()
		g.paused = false
	}))
	panel.AddChild(button("New wave", func() {
		g.sim.NewWave()
		g.paused = false
	}))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &PauseUI{ui: &ebitenui.UI{Container: root}, stats: stats}
}
