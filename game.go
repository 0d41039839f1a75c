package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/heroknight/common"
	"github.com/milk9111/heroknight/ecs/entity"
	"github.com/milk9111/heroknight/ecs/system"
	"github.com/milk9111/heroknight/policy"
	"github.com/milk9111/heroknight/prefabs"
	"github.com/milk9111/heroknight/progress"
	"github.com/milk9111/heroknight/sim"
)

const appName = "heroknight"

type GameOptions struct {
	Bot       string
	PolicyURL string
	Training  bool
	MaxStep   int
	Seed      uint64
	Watch     bool
}

type Game struct {
	sim    *sim.Sim
	render *system.RenderSystem
	ui     *PauseUI
	paused bool

	watcher  *prefabs.Watcher
	script   *policy.ScriptPolicy
	remote   *policy.RemotePolicy
	progress *progress.Tracker
	log      *log.Logger
}

func NewGame(ctx context.Context, opts GameOptions, logger *log.Logger) (*Game, error) {
	g := &Game{render: system.NewRenderSystem(), log: logger}

	var p policy.Policy
	switch {
	case opts.PolicyURL != "":
		remote, err := policy.DialRemote(ctx, opts.PolicyURL)
		if err != nil {
			return nil, fmt.Errorf("game: %w", err)
		}
		g.remote = remote
		p = remote
	case opts.Bot != "":
		script, err := policy.NewScriptPolicy(opts.Bot)
		if err != nil {
			return nil, fmt.Errorf("game: %w", err)
		}
		g.script = script
		p = script
	}

	s, err := sim.New(ctx, sim.Config{
		MaxStep:  opts.MaxStep,
		Training: opts.Training,
		Seed:     opts.Seed,
		Player:   p == nil,
	}, p, logger)
	if err != nil {
		g.Close()
		return nil, err
	}
	g.sim = s

	tracker, err := progress.Open(appName)
	if err != nil {
		// progress is a nicety; play on without it
		logger.Warn("progress unavailable", "err", err)
		tracker, _ = progress.NewTracker(nil)
	}
	g.progress = tracker
	s.Goals.OnGoal = func(name string) {
		g.progress.GoalReached(name)
	}
	s.Episodes.AddSink(g.episodeFinished)

	if opts.Watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			logger.Warn("hot reload disabled", "err", err)
		} else {
			g.watcher = w
		}
	}

	g.ui = NewPauseUI(g)
	return g, nil
}

func (g *Game) episodeFinished(rec system.EpisodeRecord) {
	g.log.Info("episode",
		"episode", rec.Episode,
		"steps", rec.Steps,
		"reward", fmt.Sprintf("%.3f", rec.Reward),
		"coins", rec.Coins,
		"reason", rec.Reason,
	)
	best, err := g.progress.EpisodeFinished(rec.Episode, rec.Reward, rec.Coins)
	if err != nil {
		g.log.Error("save progress", "err", err)
		return
	}
	if best {
		g.log.Info("new best", "reward", rec.Reward)
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
		if g.paused {
			g.ui.Refresh(g.progress.Record())
		}
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	g.hotReload()
	g.sim.Step()
	return nil
}

func (g *Game) hotReload() {
	if g.watcher == nil {
		return
	}
	for _, c := range g.watcher.Poll() {
		switch c.Kind {
		case prefabs.ChangeSpec:
			if c.Name != "knight.yaml" {
				g.log.Info("prefab changed, restart to apply", "file", c.Name)
				continue
			}
			spec, err := prefabs.LoadKnightSpec()
			if err != nil {
				g.log.Error("reload knight", "err", err)
				continue
			}
			n := entity.ApplyTuning(g.sim.World, spec)
			g.log.Info("reloaded knight tuning", "knights", n)
		case prefabs.ChangeScript:
			if g.script == nil {
				continue
			}
			if err := g.script.Reload(); err != nil {
				g.log.Error("reload script", "script", g.script.Name(), "err", err)
				continue
			}
			g.log.Info("reloaded script", "script", g.script.Name())
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.sim.World, screen)
	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close releases the watcher and trainer connection and flushes progress.
func (g *Game) Close() error {
	var errs []error
	if g.watcher != nil {
		errs = append(errs, g.watcher.Close())
	}
	if g.remote != nil {
		errs = append(errs, g.remote.Close())
	}
	if g.progress != nil {
		errs = append(errs, g.progress.Save())
	}
	return errors.Join(errs...)
}
