package system

import (
	"testing"

	"github.com/milk9111/heroknight/common"
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
)

func TestTTLSystem(t *testing.T) {
	cases := []struct {
		name   string
		frames int
		steps  int
		alive  bool
	}{
		{"expires", 3, 3, false},
		{"still_alive", 3, 2, true},
		{"zero_expires_immediately", 0, 1, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := ecs.CreateEntity(w)
			mustAdd(t, ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: c.frames}))

			sys := NewTTLSystem()
			for i := 0; i < c.steps; i++ {
				sys.Update(w)
			}
			if w.IsAlive(e) != c.alive {
				t.Fatalf("expected alive=%v", c.alive)
			}
		})
	}
}

func TestSensorSystemCountsDownDisable(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	g := &component.GroundSensor{Contact: true}
	mustAdd(t, ecs.Add(w, e, component.GroundSensorComponent.Kind(), g))

	g.Disable(0.05)
	if g.State() {
		t.Fatalf("expected a disabled sensor to report no contact")
	}

	sys := NewSensorSystem()
	for i := 0; i < 4; i++ {
		sys.Update(w)
	}
	if !g.State() {
		t.Fatalf("expected contact back after %.3fs, timer %v", 4*common.FixedDelta, g.DisableTimer)
	}
}

func TestWhiteFlashSystem(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	wf := &component.WhiteFlash{Frames: 4, Interval: 2}
	mustAdd(t, ecs.Add(w, e, component.WhiteFlashComponent.Kind(), wf))

	if !wf.Lit() {
		t.Fatalf("expected the flash lit on its first frame")
	}
	sys := NewWhiteFlashSystem()
	sys.Update(w)
	sys.Update(w)
	if wf.Lit() {
		t.Fatalf("expected the flash dark after one interval")
	}
	sys.Update(w)
	sys.Update(w)
	if ecs.Has(w, e, component.WhiteFlashComponent.Kind()) {
		t.Fatalf("expected the flash removed once its frames ran out")
	}
}

func TestTTLSystemDriftsEffects(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	tr := &component.Transform{X: 1, Y: 2}
	mustAdd(t, ecs.Add(w, e, component.TransformComponent.Kind(), tr))
	mustAdd(t, ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: 5, RiseY: 0.5}))

	sys := NewTTLSystem()
	sys.Update(w)
	sys.Update(w)
	if tr.Y != 3 || tr.X != 1 {
		t.Fatalf("expected the effect to rise to (1, 3), got (%v, %v)", tr.X, tr.Y)
	}
}

func TestCameraFollowsKnight(t *testing.T) {
	w := ecs.NewWorld()
	e := newTestKnight(t, w, trainingTuning(100), 0, 0)
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	tr.X, tr.Y = 10, 4

	cam := ecs.CreateEntity(w)
	c := &component.Camera{Smoothness: 0.5}
	mustAdd(t, ecs.Add(w, cam, component.CameraComponent.Kind(), c))

	sys := NewCameraSystem()
	sys.Update(w)
	if c.X != 5 || c.Y != 2 {
		t.Fatalf("expected halfway to the knight, got %v,%v", c.X, c.Y)
	}
	for i := 0; i < 60; i++ {
		sys.Update(w)
	}
	if c.X < 9.99 || c.Y < 3.99 {
		t.Fatalf("expected the camera to settle on the knight, got %v,%v", c.X, c.Y)
	}
}
