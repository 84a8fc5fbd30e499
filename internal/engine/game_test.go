package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/Garsondee/Tile-Engine/internal/collision"
	"github.com/Garsondee/Tile-Engine/internal/coroutine"
	"github.com/Garsondee/Tile-Engine/internal/geom"
	"github.com/Garsondee/Tile-Engine/internal/input"
)

func newSim(t *testing.T, opts ...SimOption) *Sim {
	t.Helper()
	s, err := NewSim(opts...)
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	return s
}

// forever is a coroutine that never finishes.
func forever() coroutine.Task[*State] {
	return coroutine.Repeat[*State](func(*State) coroutine.Yield { return coroutine.Next() })
}

func TestTick_MovesUpToStaticWall(t *testing.T) {
	s := newSim(t,
		WithStatic(collision.StaticRects{geom.R(13, 0, 10, 10)}),
		WithEntity(EntityConfig{Name: "mover", Width: 10, Height: 10, Collidable: true}),
	)
	mover := s.Entity("mover")
	mover.SetVelocity(geom.Vec(5, 0))

	s.RunTicks(1)

	if mover.Position.X != 3 {
		t.Fatalf("expected x=3, got %v", mover.Position.X)
	}
	h := mover.HitInfo()
	if !h.Hit || !h.Right || h.Left {
		t.Fatalf("expected a right hit, got %+v", h)
	}
}

func TestTick_EntityWallBlocks(t *testing.T) {
	s := newSim(t,
		WithEntity(EntityConfig{Name: "mover", Width: 10, Height: 10, Collidable: true}),
		WithEntity(EntityConfig{Name: "crate", Position: geom.Vec(12, 0), Width: 10, Height: 10, Collidable: true}),
	)
	mover := s.Entity("mover")
	mover.SetVelocity(geom.Vec(4, 0))
	s.RunTicks(1)

	if mover.Position.X != 2 {
		t.Fatalf("expected x=2, got %v", mover.Position.X)
	}
	if c := mover.HitInfo().Collisions; len(c) == 0 || c[0].Other != collision.Body(s.Entity("crate")) {
		t.Fatalf("expected the crate in collisions, got %+v", c)
	}
}

func TestTick_InteractablesOnlyInteract(t *testing.T) {
	s := newSim(t,
		WithEntity(EntityConfig{Name: "a", Width: 10, Height: 10, Interactable: true}),
		WithEntity(EntityConfig{Name: "b", Position: geom.Vec(12, 0), Width: 10, Height: 10, Interactable: true}),
	)
	a := s.Entity("a")
	a.SetVelocity(geom.Vec(5, 0))
	s.RunTicks(1)

	h := a.HitInfo()
	if len(h.Collisions) != 0 || h.Hit {
		t.Fatalf("interactables must not collide, got %+v", h.Collisions)
	}
	if len(h.Interactions) != 1 {
		t.Fatalf("expected 1 interaction, got %d", len(h.Interactions))
	}
	if a.Position.X != 5 {
		t.Fatalf("interactions never block, expected x=5, got %v", a.Position.X)
	}
}

func TestTick_ZeroVelocityKeepsHitInfo(t *testing.T) {
	s := newSim(t,
		WithStatic(collision.StaticRects{geom.R(13, 0, 10, 10)}),
		WithEntity(EntityConfig{Name: "mover", Width: 10, Height: 10, Collidable: true}),
	)
	mover := s.Entity("mover")
	mover.SetVelocity(geom.Vec(5, 0))
	s.RunTicks(1)
	mover.SetVelocity(geom.Zero)
	s.RunTicks(3)

	if mover.Position.X != 3 || !mover.HitInfo().Right {
		t.Fatalf("resting entity should keep position and last hit info, got x=%v %+v", mover.Position.X, mover.HitInfo())
	}
}

func TestEntity_CollidableAndInteractablePanics(t *testing.T) {
	s := newSim(t)
	defer func() {
		err, ok := recover().(error)
		if !ok || !errors.Is(err, ErrCollidableInteractable) {
			t.Fatalf("expected ErrCollidableInteractable panic, got %v", err)
		}
	}()
	s.Game.NewEntity(EntityConfig{Name: "both", Collidable: true, Interactable: true})
}

func TestDestroy_StopsOwnedCoroutinesAndUnregisters(t *testing.T) {
	s := newSim(t, WithEntity(EntityConfig{Name: "doomed"}))
	doomed := s.Entity("doomed")
	doomed.StartCoroutine("walk", forever())
	doomed.StartCoroutine("talk", forever())
	s.Game.StartCoroutine("music", forever())

	doomed.Destroy()
	doomed.Destroy()
	if !s.Game.Registered(doomed) {
		t.Fatal("destruction is deferred to the sweep")
	}
	s.RunTicks(1)

	if s.Game.Registered(doomed) {
		t.Fatal("destroyed entity should leave the live set")
	}
	if doomed.Parent() != nil {
		t.Fatal("destroyed entity should be detached from the stage")
	}
	if n := len(s.Game.CoroutinesOwnedBy(doomed)); n != 0 {
		t.Fatalf("expected owned coroutines stopped, %d remain", n)
	}
	if n := len(s.Game.Coroutines()); n != 1 {
		t.Fatalf("expected the game's coroutine to survive, got %d active", n)
	}
	if s.Log().Count(CatEntity, KeyDestroyed) != 1 {
		t.Fatalf("expected one destroyed event, log:\n%s", s.Log().Format())
	}
	if s.Log().Count(CatCoroutine, KeyStop) != 2 {
		t.Fatalf("expected two coroutine stops, log:\n%s", s.Log().Format())
	}
}

func TestStartCoroutine_RefusedAfterDestroy(t *testing.T) {
	s := newSim(t, WithEntity(EntityConfig{Name: "npc"}))
	npc := s.Entity("npc")
	npc.Destroy()
	s.RunTicks(1)

	runs := 0
	id := npc.StartCoroutine("ghost", coroutine.Repeat[*State](func(*State) coroutine.Yield {
		runs++
		return coroutine.Next()
	}))
	s.RunTicks(10)

	if id != coroutine.InvalidID {
		t.Fatalf("expected InvalidID, got %d", id)
	}
	if runs != 0 {
		t.Fatalf("expected the coroutine never to run, ran %d times", runs)
	}
	if n := len(s.Game.Coroutines()); n != 0 {
		t.Fatalf("expected no active coroutines, got %d", n)
	}
}

func TestTick_StartingOverlapGoesNowhere(t *testing.T) {
	s := newSim(t,
		WithStatic(collision.StaticRects{geom.R(8, 0, 10, 10)}),
		WithEntity(EntityConfig{Name: "mover", Width: 10, Height: 10, Collidable: true}),
	)
	mover := s.Entity("mover")
	mover.SetVelocity(geom.Vec(5, 0))

	s.RunTicks(1)

	if mover.Position.X != 0 {
		t.Fatalf("expected x=0, got %v", mover.Position.X)
	}
	if h := mover.HitInfo(); !h.Hit || !h.Right {
		t.Fatalf("expected a right hit, got %+v", h)
	}
}

type countingBehavior struct {
	first   int
	updates int
	order   []string
}

func (b *countingBehavior) FirstUpdate(*Entity, *State) {
	b.first++
	b.order = append(b.order, "first")
}

func (b *countingBehavior) Update(*Entity, *State) {
	b.updates++
	b.order = append(b.order, "update")
}

func TestUpdate_FirstUpdateOnceWhenEligible(t *testing.T) {
	b := &countingBehavior{}
	s := newSim(t, WithEntity(EntityConfig{Name: "dialog-box", Modes: []Mode{ModeDialog}, Behavior: b}))

	s.RunTicks(3)
	if b.first != 0 || b.updates != 0 {
		t.Fatal("entity should not update outside its modes")
	}
	s.Game.SetMode(ModeDialog)
	s.RunTicks(2)

	if b.first != 1 || b.updates != 2 {
		t.Fatalf("expected 1 first update and 2 updates, got %d and %d", b.first, b.updates)
	}
	if b.order[0] != "first" || b.order[1] != "update" {
		t.Fatalf("first update should precede update, got %v", b.order)
	}
	if !s.Log().Has(CatMode, KeyChange, "Normal -> Dialog") {
		t.Fatalf("expected a mode change event, log:\n%s", s.Log().Format())
	}
}

func TestUpdate_SpawnedEntityWaitsForNextTick(t *testing.T) {
	child := &countingBehavior{}
	spawned := false
	s := newSim(t, WithEntity(EntityConfig{Name: "spawner", Behavior: BehaviorFunc(func(e *Entity, st *State) {
		if !spawned {
			spawned = true
			st.Game().NewEntity(EntityConfig{Name: "spawn", Behavior: child})
		}
	})}))

	s.RunTicks(1)
	if child.updates != 0 {
		t.Fatal("entity created mid-pass should not update in the same pass")
	}
	s.RunTicks(1)
	if child.updates != 1 {
		t.Fatalf("expected 1 update, got %d", child.updates)
	}
}

func TestMode_InactiveEntitiesLeaveCollisionPass(t *testing.T) {
	s := newSim(t,
		WithEntity(EntityConfig{Name: "mover", Width: 10, Height: 10, Collidable: true, Modes: []Mode{ModeNormal, ModeDialog}}),
		WithEntity(EntityConfig{Name: "door", Position: geom.Vec(12, 0), Width: 10, Height: 10, Collidable: true}),
	)
	s.Game.SetMode(ModeDialog)
	mover := s.Entity("mover")
	mover.SetVelocity(geom.Vec(5, 0))
	s.RunTicks(1)

	if mover.Position.X != 5 {
		t.Fatalf("door is inactive in Dialog and should not block, got x=%v", mover.Position.X)
	}
	if s.Game.LastGrid().Count() != 1 {
		t.Fatalf("expected only the mover in the grid, got %d colliders", s.Game.LastGrid().Count())
	}
}

func TestCoroutine_WaitKeyThroughGame(t *testing.T) {
	var log []int
	s := newSim(t, WithScript("intro", coroutine.Sequence[*State](
		func(st *State) coroutine.Yield { log = append(log, st.Tick); return coroutine.WaitKey(input.KeyEnter) },
		func(st *State) coroutine.Yield { log = append(log, st.Tick); return coroutine.Done() },
	)))

	s.RunTicks(5)
	s.Tap(input.KeyEnter)
	s.RunTicks(1)

	if len(log) != 2 || log[0] != 1 || log[1] != 6 {
		t.Fatalf("expected resumes on ticks [1 6], got %v", log)
	}
	if len(s.Game.Coroutines()) != 0 {
		t.Fatal("finished coroutine should be unregistered")
	}
}

func TestCoroutine_WaitFramesThroughGame(t *testing.T) {
	var ticks []int
	s := newSim(t, WithScript("blink", coroutine.Repeat[*State](func(st *State) coroutine.Yield {
		ticks = append(ticks, st.Tick)
		return coroutine.WaitFrames(3)
	})))
	s.RunTicks(9)
	if len(ticks) != 3 || ticks[0] != 1 || ticks[1] != 5 || ticks[2] != 9 {
		t.Fatalf("expected resumes on [1 5 9], got %v", ticks)
	}
}

func TestCoroutine_DuplicateNameInProductionIsIgnored(t *testing.T) {
	s := newSim(t, WithOptions(WithProduction(true)))
	first := s.Game.StartCoroutine("x", forever())
	second := s.Game.StartCoroutine("x", forever())
	if first == coroutine.InvalidID || second != coroutine.InvalidID {
		t.Fatalf("expected (valid, invalid), got (%d, %d)", first, second)
	}
}

func TestEntity_AbsolutePositionSkipsStage(t *testing.T) {
	s := newSim(t)
	parent := s.Game.NewEntity(EntityConfig{Name: "parent", Position: geom.Vec(100, 50)})
	child := s.Game.NewEntity(EntityConfig{Name: "child", Position: geom.Vec(5, 5), Parent: parent})

	s.Game.Camera().CenterOn(geom.Vec(900, 900), true)
	s.RunTicks(1)

	if got := child.AbsolutePosition(); !got.Equals(geom.Vec(105, 55)) {
		t.Fatalf("expected (105, 55), got %v", got)
	}
	if s.Game.Stage.Position.IsZero() {
		t.Fatal("camera should have offset the stage")
	}
	if got := child.Bounds(); got.X != 105 || got.Y != 55 {
		t.Fatalf("bounds should be absolute, got %v", got)
	}
}

func TestEntity_ClickQueuedForNextUpdate(t *testing.T) {
	clicks := 0
	s := newSim(t, WithEntity(EntityConfig{Name: "sign", Width: 16, Height: 16}))
	sign := s.Entity("sign")
	sign.OnClick(func(*State) { clicks++ })

	sign.Click()
	if clicks != 0 {
		t.Fatal("click listeners run inside the entity's update")
	}
	s.RunTicks(2)
	if clicks != 1 {
		t.Fatalf("expected 1 click, got %d", clicks)
	}

	s.Game.SetMode(ModeMenu)
	sign.Click()
	s.RunTicks(1)
	s.Game.SetMode(ModeNormal)
	s.RunTicks(1)
	if clicks != 1 {
		t.Fatalf("clicks queued while inactive should be dropped, got %d", clicks)
	}
}

func TestEntitiesAt_TopmostFirst(t *testing.T) {
	s := newSim(t)
	s.Game.Camera().Freeze(true)
	floor := s.Game.NewEntity(EntityConfig{Name: "floor", Width: 100, Height: 100})
	rug := s.Game.NewEntity(EntityConfig{Name: "rug", Position: geom.Vec(10, 10), Width: 20, Height: 20})
	s.Game.NewEntity(EntityConfig{Name: "ghost", Width: 100, Height: 100, Hidden: true})

	got := s.Game.EntitiesAt(geom.Vec(15, 15))
	if len(got) != 2 || got[0] != rug || got[1] != floor {
		t.Fatalf("expected [rug floor], got %v", got)
	}
}

func TestHierarchyReport(t *testing.T) {
	s := newSim(t, WithEntity(EntityConfig{Name: "player", Width: 16, Height: 16, Collidable: true}))
	player := s.Entity("player")
	s.Game.NewEntity(EntityConfig{Name: "hat", Parent: player})
	player.StartCoroutine("bob", forever())
	s.Game.StartCoroutine("weather", forever())

	report := s.Game.HierarchyReport()
	for _, want := range []string{"Stage", "#1 player", "    #2 hat", "collidable", "bob", "game coroutines", "weather"} {
		if !strings.Contains(report, want) {
			t.Fatalf("expected %q in report:\n%s", want, report)
		}
	}
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New(DefaultConfig(), WithTileSize(16, 8))
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestRunUntil(t *testing.T) {
	s := newSim(t, WithEntity(EntityConfig{Name: "walker", Width: 4, Height: 4}))
	s.Entity("walker").SetVelocity(geom.Vec(1, 0))
	tick := s.RunUntil(func(s *Sim) bool { return s.Entity("walker").Position.X >= 10 }, 100)
	if tick != 10 {
		t.Fatalf("expected tick 10, got %d", tick)
	}
	if s.RunUntil(func(*Sim) bool { return false }, 5) != -1 {
		t.Fatal("unsatisfied predicate should return -1")
	}
}
