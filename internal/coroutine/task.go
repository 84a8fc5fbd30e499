// Package coroutine is a cooperative, single-threaded scheduler. A task is
// resumed at most once per tick and hands back a Yield saying when it wants
// to run again.
package coroutine

import (
	"fmt"

	"github.com/Garsondee/Tile-Engine/internal/input"
)

// FrameState is what a task sees when resumed. The scheduler itself only
// needs the key edges.
type FrameState interface {
	JustPressed(k input.Key) bool
}

type yieldKind uint8

const (
	yieldNext yieldKind = iota
	yieldFrames
	yieldKey
	yieldDone
)

// Yield is a task's answer to one resume.
type Yield struct {
	kind   yieldKind
	frames int
	key    input.Key
}

// Next resumes the task again on the following tick.
func Next() Yield { return Yield{kind: yieldNext} }

// WaitFrames skips the next n ticks and resumes on the one after.
func WaitFrames(n int) Yield {
	if n < 0 {
		n = 0
	}
	return Yield{kind: yieldFrames, frames: n}
}

// WaitKey resumes on the first tick where k was just pressed.
func WaitKey(k input.Key) Yield { return Yield{kind: yieldKey, key: k} }

// Done ends the task; it is unregistered immediately.
func Done() Yield { return Yield{kind: yieldDone} }

func (y Yield) IsDone() bool { return y.kind == yieldDone }

func (y Yield) String() string {
	switch y.kind {
	case yieldNext:
		return "next"
	case yieldFrames:
		return fmt.Sprintf("wait %d frames", y.frames)
	case yieldKey:
		return "wait for " + y.key.String()
	case yieldDone:
		return "done"
	}
	return "unknown"
}

// Task is a resumable computation.
type Task[S any] interface {
	Resume(state S) Yield
}

// TaskFunc adapts a function to Task.
type TaskFunc[S any] func(state S) Yield

func (f TaskFunc[S]) Resume(state S) Yield { return f(state) }

type sequence[S any] struct {
	steps []TaskFunc[S]
	next  int
}

// Sequence runs one step per resume, in order. A step yielding Done ends
// the whole sequence; after the last step the following resume is Done.
func Sequence[S any](steps ...TaskFunc[S]) Task[S] {
	return &sequence[S]{steps: steps}
}

func (s *sequence[S]) Resume(state S) Yield {
	if s.next >= len(s.steps) {
		return Done()
	}
	y := s.steps[s.next](state)
	s.next++
	if y.IsDone() {
		s.next = len(s.steps)
	}
	return y
}

// Repeat runs step on every resume until it yields Done.
func Repeat[S any](step TaskFunc[S]) Task[S] {
	return step
}

// Wait is a step that only suspends for n frames.
func Wait[S any](n int) TaskFunc[S] {
	return func(S) Yield { return WaitFrames(n) }
}

// WaitFor is a step that only suspends until k is pressed.
func WaitFor[S any](k input.Key) TaskFunc[S] {
	return func(S) Yield { return WaitKey(k) }
}

// Do is a step that runs fn and continues next tick.
func Do[S any](fn func(S)) TaskFunc[S] {
	return func(state S) Yield {
		fn(state)
		return Next()
	}
}
