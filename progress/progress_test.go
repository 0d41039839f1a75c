package progress

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"
)

func TestTrackerWithoutManager(t *testing.T) {
	tr, err := NewTracker(nil)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}

	steps := []struct {
		reward float64
		coins  int
		best   bool
	}{
		{-4, 0, true},
		{1.5, 3, true},
		{0.5, 7, false},
	}
	for i, s := range steps {
		best, err := tr.EpisodeFinished(i+1, s.reward, s.coins)
		if err != nil {
			t.Fatalf("episode %d: %v", i+1, err)
		}
		if best != s.best {
			t.Fatalf("episode %d: expected best=%v", i+1, s.best)
		}
	}
	tr.GoalReached("goal-mid")

	rec := tr.Record()
	if rec.Episodes != 3 || rec.BestReward != 1.5 || rec.BestEpisode != 2 || rec.BestCoins != 7 {
		t.Fatalf("unexpected record %+v", rec)
	}
	rec.Goals["goal-mid"] = 99
	if tr.Record().Goals["goal-mid"] != 1 {
		t.Fatalf("Record must return a copy")
	}
}

func TestTrackerPersists(t *testing.T) {
	appName := fmt.Sprintf("heroknight_progress_test_%d", time.Now().UnixNano())
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Skipf("gdata unavailable: %v", err)
	}
	t.Cleanup(func() {
		if home, err := os.UserHomeDir(); err == nil {
			os.RemoveAll(filepath.Join(home, ".local", "share", appName))
		}
	})

	tr, err := NewTracker(m)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	tr.GoalReached("goal-long")
	if _, err := tr.EpisodeFinished(4, 2.5, 1); err != nil {
		t.Fatalf("episode finished: %v", err)
	}

	again, err := NewTracker(m)
	if err != nil {
		t.Fatalf("reload tracker: %v", err)
	}
	rec := again.Record()
	if rec.BestReward != 2.5 || rec.BestEpisode != 4 || rec.Goals["goal-long"] != 1 {
		t.Fatalf("record not restored: %+v", rec)
	}
}
