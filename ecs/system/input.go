package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
	"github.com/milk9111/heroknight/knight"
)

const stickDeadzone = 0.2

// InputSystem maps keyboard, mouse and gamepad to the player knight's action
// vector.
type InputSystem struct{}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	a := readHumanAction()
	for _, e := range w.Query(component.PlayerTagComponent.Kind(), component.ActionInputComponent.Kind()) {
		in, ok := ecs.Get(w, e, component.ActionInputComponent.Kind())
		if !ok {
			continue
		}
		in.Vector = a.Vector()
		in.Source = "human"
	}
}

func readHumanAction() knight.Action {
	var a knight.Action

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		a.Move -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		a.Move += 1
	}

	a.Attack = pressed(inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft))
	a.Block = pressed(inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight))
	a.BlockRelease = pressed(inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight))
	a.Jump = pressed(inpututil.IsKeyJustPressed(ebiten.KeySpace))
	a.Roll = pressed(inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft))
	a.Death = pressed(inpututil.IsKeyJustPressed(ebiten.KeyE))
	a.Hurt = pressed(inpututil.IsKeyJustPressed(ebiten.KeyQ))

	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if x > stickDeadzone || x < -stickDeadzone {
			a.Move = x
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			a.Jump = 1
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft) {
			a.Attack = 1
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontTopLeft) {
			a.Block = 1
		}
		if inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonFrontTopLeft) {
			a.BlockRelease = 1
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight) {
			a.Roll = 1
		}
		break
	}

	return a
}

func pressed(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
