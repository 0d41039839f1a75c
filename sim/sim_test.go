package sim

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
	"github.com/milk9111/heroknight/ecs/system"
	"github.com/milk9111/heroknight/policy"
)

func quietLogger() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel)
	return l
}

func TestNewRequiresPolicy(t *testing.T) {
	if _, err := New(context.Background(), Config{}, nil, quietLogger()); err == nil {
		t.Fatalf("expected an error without a policy")
	}
}

func TestSimRunsEpisodesToMaxStep(t *testing.T) {
	s, err := New(context.Background(), Config{MaxStep: 30, Training: true, Seed: 7}, policy.Constant{0, 0, 0, 0, 0, 0}, quietLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var records []system.EpisodeRecord
	s.Episodes.AddSink(func(r system.EpisodeRecord) { records = append(records, r) })

	for i := 0; i < 95; i++ {
		s.Step()
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 finished episodes, got %d", len(records))
	}
	for i, r := range records {
		if r.Reason != system.EndReasonMaxStep || r.Steps != 30 || r.Episode != i {
			t.Fatalf("unexpected record %d: %+v", i, r)
		}
	}

	tr, _ := ecs.Get(s.World, s.Knight, component.TransformComponent.Kind())
	if tr.Y < -0.5 {
		t.Fatalf("expected the knight standing on the ground, got y=%v", tr.Y)
	}
}

func TestSimKnightLandsAndRuns(t *testing.T) {
	s, err := New(context.Background(), Config{Training: true}, policy.Constant{1, 0, 0, 0, 0, 0}, quietLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 30; i++ {
		s.Step()
	}
	k, _ := ecs.Get(s.World, s.Knight, component.KnightComponent.Kind())
	if !k.Resolver.State().Grounded {
		t.Fatalf("expected the knight grounded on the start platform")
	}
	tr, _ := ecs.Get(s.World, s.Knight, component.TransformComponent.Kind())
	if tr.X <= 0.5 {
		t.Fatalf("expected the knight to have run right, got x=%v", tr.X)
	}
}

func TestSimResetAndNewWave(t *testing.T) {
	s, err := New(context.Background(), Config{Training: true}, policy.Constant{0, 0, 0, 0, 0, 0}, quietLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cw, _ := ecs.Get(s.World, s.Coinage.Wave, component.CoinWaveComponent.Kind())
	before := cw.Wave

	s.NewWave()
	if cw.Wave != before+1 {
		t.Fatalf("expected a new wave, got %d", cw.Wave)
	}

	var records []system.EpisodeRecord
	s.Episodes.AddSink(func(r system.EpisodeRecord) { records = append(records, r) })
	s.ResetEpisode()
	s.Step()
	if len(records) != 1 || records[0].Reason != system.EndReasonReset {
		t.Fatalf("expected a reset episode, got %+v", records)
	}
}
