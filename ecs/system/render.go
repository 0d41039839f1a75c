package system

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/heroknight/common"
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
	"golang.org/x/image/colornames"
)

const facingMarkerSize = 0.15

type RenderSystem struct {
	camEntity ecs.Entity

	Background color.Color
	ShowHUD    bool
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{Background: colornames.Midnightblue, ShowHUD: true}
}

// Draw paints every visible sprite as a flat rectangle, lowest render layer
// first, then the HUD.
func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	if r.Background != nil {
		screen.Fill(r.Background)
	}

	if !r.camEntity.Valid() || !w.IsAlive(r.camEntity) {
		if camEntity, ok := w.First(component.CameraComponent.Kind()); ok {
			r.camEntity = camEntity
		}
	}

	camX, camY := 0.0, 0.0
	if cam, ok := ecs.Get(w, r.camEntity, component.CameraComponent.Kind()); ok {
		camX = cam.X
		camY = cam.Y
	}

	entities := w.Query(component.TransformComponent.Kind(), component.SpriteComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		li := 0
		if layer, ok := ecs.Get(w, entities[i], component.RenderLayerComponent.Kind()); ok {
			li = layer.Index
		}
		lj := 0
		if layer, ok := ecs.Get(w, entities[j], component.RenderLayerComponent.Kind()); ok {
			lj = layer.Index
		}
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		s, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
		if s.Hidden {
			continue
		}
		r.drawSprite(w, screen, e, t, s, camX, camY)
	}

	if r.ShowHUD {
		drawHUD(w, screen)
	}
}

func (r *RenderSystem) drawSprite(w *ecs.World, screen *ebiten.Image, e ecs.Entity, t *component.Transform, s *component.Sprite, camX, camY float64) {
	sx := t.ScaleX
	if sx == 0 {
		sx = 1
	}
	sy := t.ScaleY
	if sy == 0 {
		sy = 1
	}
	width := s.Width * abs(sx)
	height := s.Height * abs(sy)
	if width <= 0 || height <= 0 {
		return
	}

	x, y := common.WorldToScreen(t.X-width/2, t.Y+height/2, camX, camY)
	pw := width * common.PixelsPerUnit
	ph := height * common.PixelsPerUnit

	clr := spriteColor(w, e, s)
	if ttl, ok := ecs.Get(w, e, component.TTLComponent.Kind()); ok && ttl.Total > 0 {
		clr = fade(clr, float64(ttl.Frames)/float64(ttl.Total))
	}

	if s.Image != nil {
		b := s.Image.Bounds()
		op := &ebiten.DrawImageOptions{}
		flip := 1.0
		if s.FlipX {
			flip = -1
			op.GeoM.Translate(-float64(b.Dx()), 0)
		}
		op.GeoM.Scale(flip*pw/float64(b.Dx()), ph/float64(b.Dy()))
		op.GeoM.Translate(x, y)
		op.ColorScale.ScaleWithColor(clr)
		screen.DrawImage(s.Image, op)
	} else {
		vector.FillRect(screen, float32(x), float32(y), float32(pw), float32(ph), clr, false)
	}

	if ecs.Has(w, e, component.KnightComponent.Kind()) {
		drawFacingMarker(screen, s, x, y, pw, ph)
	}
}

func spriteColor(w *ecs.World, e ecs.Entity, s *component.Sprite) color.Color {
	if wf, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind()); ok && wf.Lit() {
		return color.White
	}
	if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
		if def, ok := anim.Defs[anim.Current]; ok && def.Color != nil {
			return def.Color
		}
	}
	if s.Color != nil {
		return s.Color
	}
	return colornames.Magenta
}

func drawFacingMarker(screen *ebiten.Image, s *component.Sprite, x, y, pw, ph float64) {
	size := facingMarkerSize * common.PixelsPerUnit
	mx := x + pw - size
	if s.FlipX {
		mx = x
	}
	my := y + ph/4
	vector.FillRect(screen, float32(mx), float32(my), float32(size), float32(size), colornames.White, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(pw), float32(ph), 1, colornames.Black, false)
}

func fade(c color.Color, alpha float64) color.Color {
	alpha = common.Clamp(alpha, 0, 1)
	r, g, b, a := c.RGBA()
	return color.RGBA64{
		R: uint16(float64(r) * alpha),
		G: uint16(float64(g) * alpha),
		B: uint16(float64(b) * alpha),
		A: uint16(float64(a) * alpha),
	}
}

func drawHUD(w *ecs.World, screen *ebiten.Image) {
	e, ok := w.First(component.KnightComponent.Kind(), component.AgentComponent.Kind())
	if p, isPlayer := w.First(component.PlayerTagComponent.Kind(), component.AgentComponent.Kind()); isPlayer {
		e, ok = p, true
	}
	if !ok {
		return
	}
	k, _ := ecs.Get(w, e, component.KnightComponent.Kind())
	agent, _ := ecs.Get(w, e, component.AgentComponent.Kind())

	line := fmt.Sprintf("Episode %d  Step %d/%d  Reward %.3f  Coins %d  Goals %d",
		agent.Episode, agent.StepCount, agent.MaxStep, agent.Cumulative, agent.Coins, agent.Goals)
	ebitenutil.DebugPrintAt(screen, line, 8, 8)

	if k.Resolver != nil {
		st := k.Resolver.State()
		line = fmt.Sprintf("Last: %s  Grounded: %t  Rolling: %t  Combo: %d  Block: %t",
			k.Last.Transition, st.Grounded, st.Rolling, st.CurrentAttack, st.BlockHold)
		ebitenutil.DebugPrintAt(screen, line, 8, 24)
	}

	if wave, ok := w.First(component.CoinWaveComponent.Kind()); ok {
		cw, _ := ecs.Get(w, wave, component.CoinWaveComponent.Kind())
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Wave %d  Live coins %d", cw.Wave, activeCoins(w)), 8, 40)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
