package main

import "sync"

// shutdown turns an interrupt into a close request for the render loop. The signal
// goroutine never touches GLFW teardown; it asks the window to close and waits until
// main has finished cleaning up on the main thread.
type shutdown struct {
	mu        sync.Mutex
	closeFn   func()
	requested bool
	done      chan struct{}
}

func newShutdown() *shutdown {
	return &shutdown{done: make(chan struct{})}
}

// Attach sets the close function. A request that arrived earlier is applied at once.
func (s *shutdown) Attach(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeFn = fn
	if s.requested {
		fn()
	}
}

// Detach clears the close function before the window it targets is destroyed
func (s *shutdown) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeFn = nil
}

// Requested reports whether an interrupt has been received
func (s *shutdown) Requested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requested
}

// Request asks the attached window to close and blocks until Finish
func (s *shutdown) Request() {
	s.mu.Lock()
	s.requested = true
	if s.closeFn != nil {
		s.closeFn()
	}
	s.mu.Unlock()
	<-s.done
}

// Finish releases Request once teardown is complete
func (s *shutdown) Finish() {
	close(s.done)
}
