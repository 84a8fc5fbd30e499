package coroutine

import (
	"errors"
	"fmt"
	"io"
	"log"
	"slices"

	"github.com/Garsondee/Tile-Engine/internal/input"
)

// ErrDuplicateName is raised when a name is already taken by an active
// coroutine.
var ErrDuplicateName = errors.New("coroutine: duplicate name")

// ID identifies a started coroutine. IDs start at 1.
type ID int

// InvalidID is returned when a coroutine could not be started.
const InvalidID ID = 0

// StopReason says why a coroutine left the scheduler.
type StopReason uint8

const (
	StopCompleted StopReason = iota
	StopExplicit
	StopOwnerGone
)

func (r StopReason) String() string {
	switch r {
	case StopCompleted:
		return "completed"
	case StopExplicit:
		return "stopped"
	case StopOwnerGone:
		return "owner destroyed"
	}
	return "unknown"
}

// Info describes one active coroutine.
type Info struct {
	ID     ID
	Name   string
	Owner  any
	Status string
}

type suspendKind uint8

const (
	running suspendKind = iota
	waitingFrames
	waitingKey
)

type active[S any] struct {
	id     ID
	name   string
	task   Task[S]
	owner  any
	kind   suspendKind
	frames int
	key    input.Key
}

func (a *active[S]) status() string {
	switch a.kind {
	case waitingFrames:
		return fmt.Sprintf("waiting %d frames", a.frames)
	case waitingKey:
		return "waiting for " + a.key.String()
	}
	return "running"
}

// Options configures a Manager.
type Options struct {
	// Production turns duplicate names into a logged no-op instead of a panic.
	Production bool
	Logger     *log.Logger
	// OnStart and OnStop observe the registry; either may be nil.
	OnStart func(Info)
	OnStop  func(Info, StopReason)
}

// Manager owns the active coroutines. It is not safe for concurrent use;
// the frame loop is its only caller.
type Manager[S FrameState] struct {
	opts   Options
	lastID ID
	byID   map[ID]*active[S]
	order  []ID
}

// NewManager returns an empty scheduler.
func NewManager[S FrameState](opts Options) *Manager[S] {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Manager[S]{
		opts: opts,
		byID: make(map[ID]*active[S]),
	}
}

// Start registers task under name. Owners are compared with ==, so pass a
// pointer. A name already in use panics outside production and returns
// InvalidID in production.
func (m *Manager[S]) Start(name string, task Task[S], owner any) ID {
	for _, id := range m.order {
		if m.byID[id].name == name {
			err := fmt.Errorf("%w: %q", ErrDuplicateName, name)
			if !m.opts.Production {
				panic(err)
			}
			m.opts.Logger.Printf("warning: %v; not started", err)
			return InvalidID
		}
	}

	m.lastID++
	co := &active[S]{id: m.lastID, name: name, task: task, owner: owner}
	m.byID[co.id] = co
	m.order = append(m.order, co.id)
	if m.opts.OnStart != nil {
		m.opts.OnStart(co.info())
	}
	return co.id
}

func (a *active[S]) info() Info {
	return Info{ID: a.id, Name: a.name, Owner: a.owner, Status: a.status()}
}

// Stop unregisters id whatever it is waiting on. Unknown ids are ignored.
func (m *Manager[S]) Stop(id ID) {
	m.remove(id, StopExplicit)
}

func (m *Manager[S]) remove(id ID, reason StopReason) {
	co, ok := m.byID[id]
	if !ok {
		return
	}
	delete(m.byID, id)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	if m.opts.OnStop != nil {
		m.opts.OnStop(co.info(), reason)
	}
}

// StopOwnedBy stops every coroutine whose owner equals owner.
func (m *Manager[S]) StopOwnedBy(owner any) int {
	var ids []ID
	for _, id := range m.order {
		if m.byID[id].owner == owner {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		m.remove(id, StopOwnerGone)
	}
	return len(ids)
}

// Active reports whether id is still registered.
func (m *Manager[S]) Active(id ID) bool {
	_, ok := m.byID[id]
	return ok
}

// Len is the number of active coroutines.
func (m *Manager[S]) Len() int { return len(m.order) }

// List describes the active coroutines in registration order.
func (m *Manager[S]) List() []Info {
	out := make([]Info, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id].info())
	}
	return out
}

// OwnedBy lists the active coroutines of one owner.
func (m *Manager[S]) OwnedBy(owner any) []Info {
	var out []Info
	for _, id := range m.order {
		if co := m.byID[id]; co.owner == owner {
			out = append(out, co.info())
		}
	}
	return out
}

// Update resumes every due coroutine once, in registration order.
// Coroutines started during the pass wait for the next Update; coroutines
// stopped during the pass are not resumed.
func (m *Manager[S]) Update(state S) {
	ids := slices.Clone(m.order)
	for _, id := range ids {
		co, ok := m.byID[id]
		if !ok {
			continue
		}

		switch co.kind {
		case waitingFrames:
			if co.frames > 0 {
				co.frames--
				continue
			}
			co.kind = running
		case waitingKey:
			if !state.JustPressed(co.key) {
				continue
			}
			co.kind = running
		}

		y := co.task.Resume(state)
		if _, ok := m.byID[id]; !ok {
			continue
		}

		switch y.kind {
		case yieldDone:
			m.remove(id, StopCompleted)
		case yieldFrames:
			co.kind, co.frames = waitingFrames, y.frames
		case yieldKey:
			co.kind, co.key = waitingKey, y.key
		default:
			co.kind = running
		}
	}
}
