package main

import (
	"context"
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/heroknight/common"
)

func main() {
	bot := flag.String("bot", "", "let a tengo script in prefabs/scripts/ drive the knight (name, .tengo optional)")
	policyURL := flag.String("policy-url", "", "websocket URL of an external trainer driving the knight")
	training := flag.Bool("training", false, "end the episode on death")
	maxStep := flag.Int("max-step", 0, "steps per episode, 0 keeps the prefab value")
	seed := flag.Uint64("seed", 0, "coin wave seed, 0 keeps the prefab value")
	watch := flag.Bool("watch", true, "hot reload prefabs/ and prefabs/scripts/ from disk")
	debug := flag.Bool("debug", false, "enable debug logging")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "heroknight",
	})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth*2, common.BaseHeight*2)
	ebiten.SetWindowTitle("hero knight")
	ebiten.SetTPS(common.TPS)

	game, err := NewGame(context.Background(), GameOptions{
		Bot:       *bot,
		PolicyURL: *policyURL,
		Training:  *training,
		MaxStep:   *maxStep,
		Seed:      *seed,
		Watch:     *watch,
	}, logger)
	if err != nil {
		logger.Fatal("start game", "err", err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("run game", "err", err)
	}
}
