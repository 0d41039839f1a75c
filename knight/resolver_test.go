package knight

import (
	"errors"
	"testing"
)

const frame = 1.0 / 60.0

type fakeBody struct {
	x, y   float64
	vx, vy float64
}

func (b *fakeBody) Position() (float64, float64) { return b.x, b.y }
func (b *fakeBody) Velocity() (float64, float64) { return b.vx, b.vy }
func (b *fakeBody) SetVelocity(x, y float64)     { b.vx, b.vy = x, y }

type fakeAnimator struct {
	triggers []string
	bools    map[string]bool
	ints     map[string]int
	floats   map[string]float64
}

func newFakeAnimator() *fakeAnimator {
	return &fakeAnimator{bools: map[string]bool{}, ints: map[string]int{}, floats: map[string]float64{}}
}

func (a *fakeAnimator) SetTrigger(name string)          { a.triggers = append(a.triggers, name) }
func (a *fakeAnimator) SetBool(name string, v bool)     { a.bools[name] = v }
func (a *fakeAnimator) SetInteger(name string, v int)   { a.ints[name] = v }
func (a *fakeAnimator) SetFloat(name string, v float64) { a.floats[name] = v }

func (a *fakeAnimator) lastTrigger() string {
	if len(a.triggers) == 0 {
		return ""
	}
	return a.triggers[len(a.triggers)-1]
}

type fakeSensor struct {
	on       bool
	disabled float64
}

func (s *fakeSensor) State() bool             { return s.on && s.disabled <= 0 }
func (s *fakeSensor) Disable(seconds float64) { s.disabled = seconds }

type fakeSprite struct{ flip bool }

func (s *fakeSprite) SetFlipX(flip bool) { s.flip = flip }

type rig struct {
	r      *Resolver
	body   *fakeBody
	anim   *fakeAnimator
	ground *fakeSensor
	walls  [4]*fakeSensor
	sprite *fakeSprite
}

func newRig(t *testing.T, tuning Tuning) *rig {
	t.Helper()
	rg := &rig{
		body:   &fakeBody{},
		anim:   newFakeAnimator(),
		ground: &fakeSensor{on: true},
		sprite: &fakeSprite{},
	}
	for i := range rg.walls {
		rg.walls[i] = &fakeSensor{}
	}
	r, err := NewResolver(tuning, Capabilities{
		Body:     rg.body,
		Animator: rg.anim,
		Ground:   rg.ground,
		WallR1:   rg.walls[0],
		WallR2:   rg.walls[1],
		WallL1:   rg.walls[2],
		WallL2:   rg.walls[3],
		Sprite:   rg.sprite,
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	rg.r = r
	return rg
}

func TestNewResolverMissingCapability(t *testing.T) {
	_, err := NewResolver(DefaultTuning(), Capabilities{Body: &fakeBody{}})
	if !errors.Is(err, ErrMissingCapability) {
		t.Fatalf("expected ErrMissingCapability, got %v", err)
	}
}

func TestRuleOrder(t *testing.T) {
	rg := newRig(t, DefaultTuning())
	want := []Transition{
		TransitionDeath, TransitionHurt, TransitionAttack, TransitionBlock,
		TransitionBlockRelease, TransitionRoll, TransitionJump, TransitionRun, TransitionIdle,
	}
	got := rg.r.Rules()
	if len(got) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rule %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestPriority(t *testing.T) {
	cases := []struct {
		name   string
		action Action
		want   Transition
	}{
		{"death_beats_attack", Action{Death: 1, Attack: 1}, TransitionDeath},
		{"hurt_beats_block", Action{Hurt: 1, Block: 1}, TransitionHurt},
		{"attack_beats_block", Action{Attack: 1, Block: 1}, TransitionAttack},
		{"block_beats_roll", Action{Block: 1, Roll: 1}, TransitionBlock},
		{"release_beats_jump", Action{BlockRelease: 1, Jump: 1}, TransitionBlockRelease},
		{"roll_beats_jump", Action{Roll: 1, Jump: 1}, TransitionRoll},
		{"jump_beats_run", Action{Jump: 1, Move: 1}, TransitionJump},
		{"run", Action{Move: -0.3}, TransitionRun},
		{"idle", Action{}, TransitionIdle},
		{"below_threshold_is_idle", Action{Attack: 0.5, Block: 0.4}, TransitionIdle},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rg := newRig(t, DefaultTuning())
			// let the attack cooldown elapse and latch grounded
			rg.r.Step(Action{}, 0.3)
			res := rg.r.Step(c.action, frame)
			if res.Transition != c.want {
				t.Fatalf("expected %s, got %s", c.want, res.Transition)
			}
		})
	}
}

func TestDeathOnlyTransition(t *testing.T) {
	tuning := DefaultTuning()
	tuning.TrainingMode = true
	rg := newRig(t, tuning)
	rg.r.Step(Action{}, 0.3)
	rg.anim.triggers = nil

	res := rg.r.Step(Action{Death: 1, Attack: 1}, frame)
	if res.Transition != TransitionDeath {
		t.Fatalf("expected death, got %s", res.Transition)
	}
	if !res.Done {
		t.Fatalf("expected episode end in training mode")
	}
	if res.Reward != RewardDeath {
		t.Fatalf("expected reward %v, got %v", RewardDeath, res.Reward)
	}
	if len(rg.anim.triggers) != 1 || rg.anim.triggers[0] != TriggerDeath {
		t.Fatalf("expected only the death trigger, got %v", rg.anim.triggers)
	}
	if rg.r.State().CurrentAttack != 0 {
		t.Fatalf("attack must not advance on a death step")
	}
}

func TestDeathOutsideTrainingDoesNotEnd(t *testing.T) {
	rg := newRig(t, DefaultTuning())
	res := rg.r.Step(Action{Death: 1}, frame)
	if res.Done {
		t.Fatalf("death should only end the episode in training mode")
	}
	if !rg.r.State().Dead {
		t.Fatalf("expected dead flag")
	}
}

func TestAttackCombo(t *testing.T) {
	rg := newRig(t, DefaultTuning())
	rg.r.Step(Action{}, 0.3)

	var got []int
	for i := 0; i < 5; i++ {
		res := rg.r.Step(Action{Attack: 1}, 0.3)
		if res.Transition != TransitionAttack {
			t.Fatalf("step %d: expected attack, got %s", i, res.Transition)
		}
		got = append(got, res.AttackIndex)
	}
	want := []int{1, 2, 3, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("combo sequence: expected %v, got %v", want, got)
		}
	}
	if rg.anim.lastTrigger() != "Attack2" {
		t.Fatalf("expected Attack2 trigger, got %s", rg.anim.lastTrigger())
	}
}

func TestAttackComboResetsAfterGap(t *testing.T) {
	rg := newRig(t, DefaultTuning())
	rg.r.Step(Action{}, 0.3)
	rg.r.Step(Action{Attack: 1}, 0.3)
	rg.r.Step(Action{Attack: 1}, 0.3)

	res := rg.r.Step(Action{Attack: 1}, 1.2)
	if res.AttackIndex != 1 {
		t.Fatalf("expected combo reset to 1 after a long gap, got %d", res.AttackIndex)
	}
}

func TestAttackCooldown(t *testing.T) {
	rg := newRig(t, DefaultTuning())
	rg.r.Step(Action{}, 0.3)
	if res := rg.r.Step(Action{Attack: 1}, frame); res.Transition != TransitionAttack {
		t.Fatalf("expected first attack, got %s", res.Transition)
	}
	res := rg.r.Step(Action{Attack: 1, Move: 1}, frame)
	if res.Transition != TransitionRun {
		t.Fatalf("attack inside cooldown should fall through to run, got %s", res.Transition)
	}
}

func TestComboAlwaysInRange(t *testing.T) {
	rg := newRig(t, DefaultTuning())
	gaps := []float64{0.3, 0.26, 2.0, 0.5, 0.9, 1.01, 0.3, 0.3, 0.3, 0.3}
	for i, gap := range gaps {
		res := rg.r.Step(Action{Attack: 1}, gap)
		if res.Transition != TransitionAttack {
			continue
		}
		if res.AttackIndex < 1 || res.AttackIndex > 3 {
			t.Fatalf("step %d: combo index %d out of range", i, res.AttackIndex)
		}
	}
}

func TestRollNotRetriggeredWhileRolling(t *testing.T) {
	rg := newRig(t, DefaultTuning())
	res := rg.r.Step(Action{Roll: 1}, frame)
	if res.Transition != TransitionRoll {
		t.Fatalf("expected roll, got %s", res.Transition)
	}
	if rg.body.vx != DefaultTuning().RollForce {
		t.Fatalf("expected roll impulse %v, got %v", DefaultTuning().RollForce, rg.body.vx)
	}

	for i := 0; i < 10; i++ {
		res = rg.r.Step(Action{Roll: 1}, frame)
		if res.Transition == TransitionRoll {
			t.Fatalf("step %d: roll re-triggered while rolling", i)
		}
	}

	rg.r.CompleteRoll()
	if res = rg.r.Step(Action{Roll: 1}, frame); res.Transition != TransitionRoll {
		t.Fatalf("expected roll after completion, got %s", res.Transition)
	}
}

func TestRollUsesFacing(t *testing.T) {
	rg := newRig(t, DefaultTuning())
	rg.r.Step(Action{Move: -1}, frame)
	rg.r.Step(Action{Roll: 1}, frame)
	if rg.body.vx != -DefaultTuning().RollForce {
		t.Fatalf("expected leftward roll, got vx=%v", rg.body.vx)
	}
	if !rg.sprite.flip {
		t.Fatalf("expected sprite flipped when facing left")
	}
}

func TestJumpRequiresGround(t *testing.T) {
	rg := newRig(t, DefaultTuning())
	res := rg.r.Step(Action{Jump: 1}, frame)
	if res.Transition != TransitionJump {
		t.Fatalf("expected jump while grounded, got %s", res.Transition)
	}
	if rg.body.vy != DefaultTuning().JumpForce {
		t.Fatalf("expected jump impulse, got vy=%v", rg.body.vy)
	}
	if rg.ground.disabled != DefaultTuning().GroundSensorDisable {
		t.Fatalf("expected ground sensor disabled for %v, got %v", DefaultTuning().GroundSensorDisable, rg.ground.disabled)
	}
	if rg.r.State().Grounded {
		t.Fatalf("expected grounded cleared after jump")
	}

	res = rg.r.Step(Action{Jump: 1, Move: 1}, frame)
	if res.Transition != TransitionRun {
		t.Fatalf("airborne jump should fall through to run, got %s", res.Transition)
	}
	res = rg.r.Step(Action{Jump: 1}, frame)
	if res.Transition != TransitionIdle {
		t.Fatalf("airborne jump should fall through to idle, got %s", res.Transition)
	}
}

func TestGroundedEdges(t *testing.T) {
	rg := newRig(t, DefaultTuning())
	rg.ground.on = false
	rg.r.Step(Action{}, frame)
	if rg.r.State().Grounded {
		t.Fatalf("expected airborne")
	}
	rg.ground.on = true
	rg.r.Step(Action{}, frame)
	if !rg.r.State().Grounded || !rg.anim.bools[ParamGrounded] {
		t.Fatalf("expected landing to set grounded")
	}
	rg.ground.on = false
	rg.r.Step(Action{}, frame)
	if rg.r.State().Grounded || rg.anim.bools[ParamGrounded] {
		t.Fatalf("expected falling edge to clear grounded")
	}
}

func TestNoIdleFlicker(t *testing.T) {
	rg := newRig(t, DefaultTuning())
	rg.r.Step(Action{Move: 1}, frame)
	if rg.anim.ints[ParamAnimState] != int(AnimRun) {
		t.Fatalf("expected run anim state")
	}
	res := rg.r.Step(Action{}, frame)
	if res.Transition != TransitionIdle {
		t.Fatalf("expected idle branch, got %s", res.Transition)
	}
	if rg.anim.ints[ParamAnimState] != int(AnimRun) {
		t.Fatalf("single zero-input frame must not switch to idle")
	}
	rg.r.Step(Action{Move: 1}, frame)
	if rg.r.State().AnimState != AnimRun {
		t.Fatalf("expected run to continue")
	}

	for i := 0; i < 4; i++ {
		rg.r.Step(Action{}, frame)
	}
	if rg.anim.ints[ParamAnimState] != int(AnimIdle) {
		t.Fatalf("expected idle once the delay ran out")
	}
}

func TestBlockAndRelease(t *testing.T) {
	rg := newRig(t, DefaultTuning())
	rg.r.Step(Action{Block: 1}, frame)
	if !rg.r.State().BlockHold || !rg.anim.bools[ParamIdleBlock] {
		t.Fatalf("expected block hold")
	}
	res := rg.r.Step(Action{BlockRelease: 1}, frame)
	if res.Transition != TransitionBlockRelease {
		t.Fatalf("expected block release, got %s", res.Transition)
	}
	if rg.r.State().BlockHold || rg.anim.bools[ParamIdleBlock] {
		t.Fatalf("expected block hold cleared")
	}
}

func TestRewardShaping(t *testing.T) {
	tuning := DefaultTuning()
	tuning.MaxStep = 100
	rg := newRig(t, tuning)

	res := rg.r.Step(Action{Move: 1}, frame)
	// facing + run
	if want := 2 * RewardStep / 100; !near(res.Reward, want) {
		t.Fatalf("expected %v, got %v", want, res.Reward)
	}
	res = rg.r.Step(Action{Jump: 1}, frame)
	if want := RewardJumpStep / 100; !near(res.Reward, want) {
		t.Fatalf("expected %v, got %v", want, res.Reward)
	}
	res = rg.r.Step(Action{Hurt: 1}, frame)
	if !near(res.Reward, RewardHurt) {
		t.Fatalf("expected %v, got %v", RewardHurt, res.Reward)
	}
}

func TestFrozen(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Frozen = true
	rg := newRig(t, tuning)
	res := rg.r.Step(Action{Move: 1, Jump: 1}, frame)
	if res.Transition != TransitionNone || rg.body.vx != 0 {
		t.Fatalf("frozen knight must not act, got %s", res.Transition)
	}
}

func TestWallSlide(t *testing.T) {
	rg := newRig(t, DefaultTuning())
	rg.walls[0].on = true
	rg.r.Step(Action{}, frame)
	if rg.anim.bools[ParamWallSlide] {
		t.Fatalf("one right sensor is not a wall slide")
	}
	rg.walls[1].on = true
	rg.r.Step(Action{}, frame)
	if !rg.anim.bools[ParamWallSlide] {
		t.Fatalf("expected wall slide with both right sensors")
	}
}

func TestObserve(t *testing.T) {
	rg := newRig(t, DefaultTuning())
	rg.body.x, rg.body.y = 3, 4
	rg.r.Step(Action{}, frame)
	obs := rg.r.Observe()
	if len(obs) != ObservationSize {
		t.Fatalf("expected %d values, got %d", ObservationSize, len(obs))
	}
	if !near(obs[1], 0.6) || !near(obs[2], 0.8) {
		t.Fatalf("expected normalized position (0.6, 0.8), got (%v, %v)", obs[1], obs[2])
	}
	if obs[3] != 1 {
		t.Fatalf("expected grounded observation")
	}
}

func TestActionFromVector(t *testing.T) {
	if _, err := ActionFromVector([]float64{1, 0, 0}); !errors.Is(err, ErrActionVectorSize) {
		t.Fatalf("expected ErrActionVectorSize, got %v", err)
	}
	a, err := ActionFromVector([]float64{-1, 1, 0, 0, 1, 0})
	if err != nil {
		t.Fatalf("ActionFromVector: %v", err)
	}
	if a.Move != -1 || a.Attack != 1 || a.Jump != 1 || a.Death != 0 {
		t.Fatalf("unexpected decode: %+v", a)
	}
	a, err = ActionFromVector(Action{Death: 1, Hurt: 1}.Vector())
	if err != nil {
		t.Fatalf("ActionFromVector: %v", err)
	}
	if a.Death != 1 || a.Hurt != 1 {
		t.Fatalf("expected extended slots decoded, got %+v", a)
	}
}

func TestGoalReward(t *testing.T) {
	cases := []struct {
		name string
		want float64
		ok   bool
	}{
		{"goal-short", 1, true},
		{"goal-short-high", 2, true},
		{"goal-mid", 3, true},
		{"goal-long", 4, true},
		{"goal-long-high", 5, true},
		{"goal-unknown", 0, false},
	}
	for _, c := range cases {
		got, ok := GoalReward(c.name)
		if ok != c.ok || got != c.want {
			t.Fatalf("%s: expected (%v, %v), got (%v, %v)", c.name, c.want, c.ok, got, ok)
		}
	}
}

func near(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
