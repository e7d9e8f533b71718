package input

import (
	"slices"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical control, not a physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionFast
	ActionClose
	ActionToggleDebug
	ActionReloadShaders
	ActionCount // Sentinel value for array sizing
)

// Manager maps physical keys to logical actions and tracks their state.
// Key state only changes through HandleKeyEvent, which the renderer calls while draining the event queue.
// An action stays active while any key bound to it is held.
type Manager struct {
	keyToActions map[glfw.Key][]Action
	keyDown      map[glfw.Key]bool

	currentState [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

// NewManager creates a Manager with the default bindings
func NewManager() *Manager {
	m := &Manager{
		keyToActions: make(map[glfw.Key][]Action),
		keyDown:      make(map[glfw.Key]bool),
	}

	m.BindKey(glfw.KeyW, ActionMoveForward)
	m.BindKey(glfw.KeyS, ActionMoveBackward)
	m.BindKey(glfw.KeyA, ActionMoveLeft)
	m.BindKey(glfw.KeyD, ActionMoveRight)
	m.BindKey(glfw.KeyUp, ActionMoveForward)
	m.BindKey(glfw.KeyDown, ActionMoveBackward)
	m.BindKey(glfw.KeyLeft, ActionMoveLeft)
	m.BindKey(glfw.KeyRight, ActionMoveRight)
	m.BindKey(glfw.KeyLeftShift, ActionFast)
	m.BindKey(glfw.KeyEscape, ActionClose)
	m.BindKey(glfw.KeyN, ActionToggleDebug)
	m.BindKey(glfw.KeyR, ActionReloadShaders)

	return m
}

// BindKey binds a physical key to a logical action.
// Multiple keys can be bound to the same action (e.g., WASD and arrow keys)
func (m *Manager) BindKey(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key. Actions that were only held
// through it are released.
func (m *Manager) UnbindKey(key glfw.Key) {
	actions := m.keyToActions[key]
	delete(m.keyToActions, key)
	delete(m.keyDown, key)
	m.refresh(actions)
}

// HandleKeyEvent updates action state for a key transition
func (m *Manager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	actions, ok := m.keyToActions[key]
	if !ok {
		return
	}

	if action == glfw.Press || action == glfw.Repeat {
		m.keyDown[key] = true
	} else {
		delete(m.keyDown, key)
	}
	m.refresh(actions)
}

// refresh recomputes the state of actions from the keys currently held
func (m *Manager) refresh(actions []Action) {
	for _, act := range actions {
		held := m.held(act)
		if held && !m.currentState[act] {
			m.justPressed[act] = true
		}
		if !held && m.currentState[act] {
			m.justReleased[act] = true
		}
		m.currentState[act] = held
	}
}

func (m *Manager) held(act Action) bool {
	for key := range m.keyDown {
		if slices.Contains(m.keyToActions[key], act) {
			return true
		}
	}
	return false
}

// PostUpdate clears the edge flags. Call once at the end of each frame.
func (m *Manager) PostUpdate() {
	for i := range ActionCount {
		m.justPressed[i] = false
		m.justReleased[i] = false
	}
}

// IsActive returns true while the action is held down
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	return m.currentState[action]
}

// JustPressed returns true only in the frame the action was pressed
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	return m.justPressed[action]
}

// JustReleased returns true only in the frame the action was released
func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	return m.justReleased[action]
}
