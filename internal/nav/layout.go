package nav

import "sync"

// DesktopMinWidth is the viewport width, in logical pixels, at which the desktop layout starts.
const DesktopMinWidth = 1024

// Mode is the rendering layout derived from the viewport width.
type Mode int

const (
	Mobile Mode = iota
	Desktop
)

func (m Mode) String() string {
	switch m {
	case Desktop:
		return "desktop"
	default:
		return "mobile"
	}
}

// Dropdown identifies the open dropdown menu, if any.
type Dropdown int

const (
	DropdownNone Dropdown = iota
	DropdownUserMenu
)

// LayoutMode returns the layout for a viewport width using [DesktopMinWidth].
func LayoutMode(width int) Mode {
	return layoutMode(width, DesktopMinWidth)
}

func layoutMode(width, threshold int) Mode {
	if width >= threshold {
		return Desktop
	}
	return Mobile
}

// LayoutState is a snapshot of a [Layout].
type LayoutState struct {
	Width       int
	Mode        Mode
	SidebarOpen bool
	Dropdown    Dropdown
}

// Layout is the navigation bar state machine. The zero value is not usable; call [NewLayout].
type Layout struct {
	mu        sync.Mutex
	threshold int
	state     LayoutState
}

// NewLayout creates a mobile layout with the given desktop threshold.
//
// A non-positive threshold selects [DesktopMinWidth].
func NewLayout(threshold int) *Layout {
	if threshold <= 0 {
		threshold = DesktopMinWidth
	}
	return &Layout{threshold: threshold, state: LayoutState{Mode: Mobile}}
}

// Threshold returns the desktop threshold in logical pixels.
func (l *Layout) Threshold() int {
	return l.threshold
}

// Resize re-evaluates the layout mode for a new viewport width.
func (l *Layout) Resize(width int) LayoutState {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.state.Mode
	l.state.Width = width
	l.state.Mode = layoutMode(width, l.threshold)
	if l.state.Mode == Desktop && prev != Desktop {
		l.state.SidebarOpen = false
		l.state.Dropdown = DropdownNone
	}
	return l.state
}

// ToggleSidebar opens or closes the mobile sidebar. It is a no-op on desktop.
func (l *Layout) ToggleSidebar() LayoutState {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Mode == Desktop {
		return l.state
	}
	l.state.SidebarOpen = !l.state.SidebarOpen
	if !l.state.SidebarOpen {
		l.state.Dropdown = DropdownNone
	}
	return l.state
}

// ToggleUserMenu opens or closes the user dropdown.
func (l *Layout) ToggleUserMenu() LayoutState {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Dropdown == DropdownUserMenu {
		l.state.Dropdown = DropdownNone
	} else {
		l.state.Dropdown = DropdownUserMenu
	}
	return l.state
}

// CloseMenus closes the sidebar and any dropdown.
func (l *Layout) CloseMenus() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.SidebarOpen = false
	l.state.Dropdown = DropdownNone
}

// PointerDown handles a pointer press. A press outside the open sidebar closes it and any dropdown.
func (l *Layout) PointerDown(insideSidebar bool) LayoutState {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.SidebarOpen && !insideSidebar {
		l.state.SidebarOpen = false
		l.state.Dropdown = DropdownNone
	}
	return l.state
}

// State returns a snapshot of the layout.
func (l *Layout) State() LayoutState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}
