// Package progress keeps the interactive player's personal bests between
// sessions.
package progress

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	recordObject   = "progress"
	recordProperty = "best.yaml"
)

// Record is what survives between sessions.
type Record struct {
	Episodes    int            `yaml:"episodes"`
	BestReward  float64        `yaml:"best_reward"`
	BestEpisode int            `yaml:"best_episode"`
	BestCoins   int            `yaml:"best_coins"`
	Goals       map[string]int `yaml:"goals"`
}

// Tracker holds the record in memory and writes it through gdata. With a nil
// manager it still tracks the session but persists nothing.
type Tracker struct {
	manager *gdata.Manager
	record  Record
}

// Open loads the record for appName. A missing record is not an error.
func Open(appName string) (*Tracker, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("progress: open %s: %w", appName, err)
	}
	return NewTracker(m)
}

func NewTracker(m *gdata.Manager) (*Tracker, error) {
	t := &Tracker{manager: m, record: Record{Goals: map[string]int{}}}
	if m == nil || !m.ObjectPropExists(recordObject, recordProperty) {
		return t, nil
	}
	data, err := m.LoadObjectProp(recordObject, recordProperty)
	if err != nil {
		return t, fmt.Errorf("progress: load record: %w", err)
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return t, fmt.Errorf("progress: unmarshal record: %w", err)
	}
	if rec.Goals == nil {
		rec.Goals = map[string]int{}
	}
	t.record = rec
	return t, nil
}

func (t *Tracker) Record() Record {
	out := t.record
	out.Goals = make(map[string]int, len(t.record.Goals))
	for k, v := range t.record.Goals {
		out.Goals[k] = v
	}
	return out
}

// GoalReached counts a goal touch.
func (t *Tracker) GoalReached(name string) {
	t.record.Goals[name]++
}

// EpisodeFinished folds a finished episode in and reports whether it set a
// new best reward. The record is saved on every call.
func (t *Tracker) EpisodeFinished(episode int, reward float64, coins int) (bool, error) {
	t.record.Episodes++
	best := t.record.Episodes == 1 || reward > t.record.BestReward
	if best {
		t.record.BestReward = reward
		t.record.BestEpisode = episode
	}
	if coins > t.record.BestCoins {
		t.record.BestCoins = coins
	}
	return best, t.Save()
}

func (t *Tracker) Save() error {
	if t.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(t.record)
	if err != nil {
		return fmt.Errorf("progress: marshal record: %w", err)
	}
	if err := t.manager.SaveObjectProp(recordObject, recordProperty, data); err != nil {
		return fmt.Errorf("progress: save record: %w", err)
	}
	return nil
}
