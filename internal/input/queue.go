package input

import "github.com/go-gl/glfw/v3.3/glfw"

// EventKind identifies the payload of an Event
type EventKind int

const (
	EventResize EventKind = iota
	EventMouseMove
	EventScroll
	EventKey
	EventFocus
)

// Event is one window callback, recorded for processing at the input step of the next frame
type Event struct {
	Kind EventKind

	// EventResize: framebuffer size
	Width, Height int

	// EventMouseMove: cursor position. EventScroll: scroll offsets.
	X, Y float64

	// EventKey
	Key    glfw.Key
	Action glfw.Action

	// EventFocus
	Focused bool
}

// Queue buffers window events between PollEvents and the next input step.
// GLFW delivers callbacks synchronously on the main thread, so no locking is needed.
type Queue struct {
	events []Event
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{events: make([]Event, 0, 64)}
}

// Push appends an event
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// Len returns the number of pending events
func (q *Queue) Len() int {
	return len(q.events)
}

// Drain calls fn for every pending event in arrival order and empties the queue.
// Events pushed by fn are delivered in the same call.
func (q *Queue) Drain(fn func(Event)) {
	for i := 0; i < len(q.events); i++ {
		fn(q.events[i])
	}
	q.events = q.events[:0]
}

// Resize records a framebuffer resize
func (q *Queue) Resize(width, height int) {
	q.Push(Event{Kind: EventResize, Width: width, Height: height})
}

// MouseMove records a cursor position
func (q *Queue) MouseMove(x, y float64) {
	q.Push(Event{Kind: EventMouseMove, X: x, Y: y})
}

// Scroll records a scroll offset
func (q *Queue) Scroll(x, y float64) {
	q.Push(Event{Kind: EventScroll, X: x, Y: y})
}

// KeyEvent records a key transition
func (q *Queue) KeyEvent(key glfw.Key, action glfw.Action) {
	q.Push(Event{Kind: EventKey, Key: key, Action: action})
}

// Focus records the window gaining or losing input focus
func (q *Queue) Focus(focused bool) {
	q.Push(Event{Kind: EventFocus, Focused: focused})
}
