package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/heroknight/common"
	"github.com/milk9111/heroknight/ecs"
	"github.com/milk9111/heroknight/ecs/component"
)

const (
	collisionTypeKnight cp.CollisionType = iota + 1
	collisionTypeGroundSensor
	collisionTypeWallSensor
	collisionTypeSolid
	collisionTypeGoal
	collisionTypeCoin
)

type wallSlot int

const (
	wallR1 wallSlot = iota
	wallR2
	wallL1
	wallL2
)

// PhysicsSystem steps a Chipmunk space in world units (+Y up). Knights get a
// dynamic body with a ground sensor and four wall sensors; goals and coins
// are static sensors that report overlaps as collision events.
type PhysicsSystem struct {
	space         *cp.Space
	dt            float64
	handlersReady bool

	// set for the duration of Update so collision callbacks can reach
	// sensor components
	world *ecs.World

	entities   map[ecs.Entity]*bodyInfo
	groundOf   map[*cp.Shape]ecs.Entity
	wallOf     map[*cp.Shape]wallProbe
	overlaps   map[overlap]struct{}
	overlapSeq []overlap
}

type bodyInfo struct {
	body   *cp.Body
	shapes []*cp.Shape
	static bool
}

type wallProbe struct {
	entity ecs.Entity
	slot   wallSlot
}

type overlap struct {
	knight ecs.Entity
	other  ecs.Entity
	kind   ecs.CollisionEventKind
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:    newSpace(),
		dt:       common.FixedDelta,
		entities: make(map[ecs.Entity]*bodyInfo),
		groundOf: make(map[*cp.Shape]ecs.Entity),
		wallOf:   make(map[*cp.Shape]wallProbe),
		overlaps: make(map[overlap]struct{}),
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	// the default slop is tuned for pixel units
	space.SetCollisionSlop(0.01)
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.resetContacts(w)

	ps.space.Step(ps.dt)

	ps.syncTransforms(w)
	ps.flushOverlaps(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	ground := ps.space.NewCollisionHandler(collisionTypeGroundSensor, collisionTypeSolid)
	ground.UserData = ps
	ground.PreSolveFunc = func(arb *cp.Arbiter, _ *cp.Space, userData interface{}) bool {
		sys := userData.(*PhysicsSystem)
		a, _ := arb.Shapes()
		if e, ok := sys.groundOf[a]; ok {
			sys.markGround(e)
		}
		return true
	}

	wall := ps.space.NewCollisionHandler(collisionTypeWallSensor, collisionTypeSolid)
	wall.UserData = ps
	wall.PreSolveFunc = func(arb *cp.Arbiter, _ *cp.Space, userData interface{}) bool {
		sys := userData.(*PhysicsSystem)
		a, _ := arb.Shapes()
		if probe, ok := sys.wallOf[a]; ok {
			sys.markWall(probe)
		}
		return true
	}

	for _, t := range []struct {
		typ  cp.CollisionType
		kind ecs.CollisionEventKind
	}{
		{collisionTypeGoal, ecs.CollisionEventGoal},
		{collisionTypeCoin, ecs.CollisionEventCoin},
	} {
		kind := t.kind
		h := ps.space.NewCollisionHandler(collisionTypeKnight, t.typ)
		h.UserData = ps
		h.PreSolveFunc = func(arb *cp.Arbiter, _ *cp.Space, userData interface{}) bool {
			sys := userData.(*PhysicsSystem)
			a, b := arb.Shapes()
			ke, ok := a.UserData.(ecs.Entity)
			if !ok {
				return true
			}
			oe, ok := b.UserData.(ecs.Entity)
			if !ok {
				return true
			}
			sys.recordOverlap(overlap{knight: ke, other: oe, kind: kind})
			return true
		}
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) markGround(e ecs.Entity) {
	if g, ok := ecs.Get(ps.world, e, component.GroundSensorComponent.Kind()); ok {
		g.Contact = true
	}
}

func (ps *PhysicsSystem) markWall(p wallProbe) {
	ws, ok := ecs.Get(ps.world, p.entity, component.WallSensorsComponent.Kind())
	if !ok {
		return
	}
	switch p.slot {
	case wallR1:
		ws.R1.Contact = true
	case wallR2:
		ws.R2.Contact = true
	case wallL1:
		ws.L1.Contact = true
	case wallL2:
		ws.L2.Contact = true
	}
}

func (ps *PhysicsSystem) recordOverlap(o overlap) {
	if _, seen := ps.overlaps[o]; seen {
		return
	}
	ps.overlaps[o] = struct{}{}
	ps.overlapSeq = append(ps.overlapSeq, o)
}

func (ps *PhysicsSystem) resetContacts(w *ecs.World) {
	ps.world = w
	ecs.ForEach(w, component.GroundSensorComponent.Kind(), func(_ ecs.Entity, g *component.GroundSensor) {
		g.Contact = false
	})
	ecs.ForEach(w, component.WallSensorsComponent.Kind(), func(_ ecs.Entity, ws *component.WallSensors) {
		ws.Clear()
	})
	clear(ps.overlaps)
	ps.overlapSeq = ps.overlapSeq[:0]
}

func (ps *PhysicsSystem) flushOverlaps(w *ecs.World) {
	for _, o := range ps.overlapSeq {
		if !w.IsAlive(o.knight) || !w.IsAlive(o.other) {
			continue
		}
		w.Events().Push(ecs.Event{
			Type: ecs.EventCollision,
			Data: ecs.CollisionEvent{Entity: o.knight, Other: o.other, Kind: o.kind},
		})
	}
	ps.world = nil
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		if _, ok := ps.entities[e]; ok {
			continue
		}
		bodyComp, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		transform, _ := ecs.Get(w, e, component.TransformComponent.Kind())

		var info *bodyInfo
		switch {
		case ecs.Has(w, e, component.KnightComponent.Kind()):
			info = ps.createKnight(w, e, transform, bodyComp)
		case ecs.Has(w, e, component.GoalComponent.Kind()):
			info = ps.createStatic(e, transform, bodyComp, collisionTypeGoal, true)
		case ecs.Has(w, e, component.CoinComponent.Kind()):
			info = ps.createStatic(e, transform, bodyComp, collisionTypeCoin, true)
		default:
			info = ps.createStatic(e, transform, bodyComp, collisionTypeSolid, bodyComp.Sensor)
		}
		if info == nil {
			continue
		}
		ps.entities[e] = info
	}
}

func (ps *PhysicsSystem) createStatic(e ecs.Entity, t *component.Transform, bodyComp *component.PhysicsBody, typ cp.CollisionType, sensor bool) *bodyInfo {
	static := ps.space.StaticBody
	var shape *cp.Shape
	if bodyComp.Radius > 0 {
		shape = cp.NewCircle(static, bodyComp.Radius, cp.Vector{X: t.X, Y: t.Y})
	} else {
		w, h := bodyComp.Width, bodyComp.Height
		if w <= 0 || h <= 0 {
			return nil
		}
		bb := cp.BB{L: t.X - w/2, B: t.Y - h/2, R: t.X + w/2, T: t.Y + h/2}
		shape = cp.NewBox2(static, bb, 0)
	}
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(typ)
	shape.SetSensor(sensor)
	shape.UserData = e
	ps.space.AddShape(shape)

	bodyComp.Body = nil
	bodyComp.Shape = shape
	return &bodyInfo{body: static, shapes: []*cp.Shape{shape}, static: true}
}

func (ps *PhysicsSystem) createKnight(w *ecs.World, e ecs.Entity, t *component.Transform, bodyComp *component.PhysicsBody) *bodyInfo {
	width, height := bodyComp.Width, bodyComp.Height
	if width <= 0 || height <= 0 {
		return nil
	}
	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	vx, vy := bodyComp.Velocity()
	body := cp.NewBody(mass, cp.INFINITY)
	body.SetPosition(cp.Vector{X: t.X, Y: t.Y})
	body.SetVelocity(vx, vy)
	ps.space.AddBody(body)

	main := cp.NewBox(body, width, height, 0)
	main.SetFriction(bodyComp.Friction)
	main.SetElasticity(bodyComp.Elasticity)
	main.SetCollisionType(collisionTypeKnight)
	main.UserData = e
	ps.space.AddShape(main)

	info := &bodyInfo{body: body, shapes: []*cp.Shape{main}}

	if g, ok := ecs.Get(w, e, component.GroundSensorComponent.Kind()); ok {
		gw, gh := g.Width, g.Height
		if gw <= 0 {
			gw = width * 0.8
		}
		if gh <= 0 {
			gh = 0.1
		}
		bb := cp.BB{L: -gw / 2, B: -height/2 - gh, R: gw / 2, T: -height/2 + gh/2}
		shape := ps.addSensor(body, bb, collisionTypeGroundSensor, e)
		ps.groundOf[shape] = e
		info.shapes = append(info.shapes, shape)
	}

	if ws, ok := ecs.Get(w, e, component.WallSensorsComponent.Kind()); ok {
		sw, sh := ws.Width, ws.Height
		if sw <= 0 {
			sw = 0.1
		}
		if sh <= 0 {
			sh = height / 4
		}
		upper := height / 4
		lower := -height / 4
		probes := []struct {
			slot wallSlot
			x, y float64
		}{
			{wallR1, width/2 + sw/2, upper},
			{wallR2, width/2 + sw/2, lower},
			{wallL1, -width/2 - sw/2, upper},
			{wallL2, -width/2 - sw/2, lower},
		}
		for _, p := range probes {
			bb := cp.BB{L: p.x - sw/2, B: p.y - sh/2, R: p.x + sw/2, T: p.y + sh/2}
			shape := ps.addSensor(body, bb, collisionTypeWallSensor, e)
			ps.wallOf[shape] = wallProbe{entity: e, slot: p.slot}
			info.shapes = append(info.shapes, shape)
		}
	}

	bodyComp.Body = body
	bodyComp.Shape = main
	return info
}

func (ps *PhysicsSystem) addSensor(body *cp.Body, bb cp.BB, typ cp.CollisionType, e ecs.Entity) *cp.Shape {
	shape := cp.NewBox2(body, bb, 0)
	shape.SetSensor(true)
	shape.SetCollisionType(typ)
	shape.UserData = e
	ps.space.AddShape(shape)
	return shape
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		if info.static {
			continue
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		pos := info.body.Position()
		t.X = pos.X
		t.Y = pos.Y
	}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		for _, shape := range info.shapes {
			delete(ps.groundOf, shape)
			delete(ps.wallOf, shape)
			ps.space.RemoveShape(shape)
		}
		if !info.static && info.body != nil {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}
