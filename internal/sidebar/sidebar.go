// Package sidebar tracks the console's navigation drawer: whether it is
// open on small screens and whether it is collapsed to icons on wide ones.
package sidebar

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// MobileBreakpoint is the viewport width, in CSS pixels, below which the
// drawer behaves as a mobile overlay.
const MobileBreakpoint = 768

// Link is one navigation entry.
type Link struct {
	Path  string `json:"path"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// DefaultLinks are the console's routes.
var DefaultLinks = []Link{
	{Path: "/", Label: "Accounts", Icon: "users"},
	{Path: "/logs", Label: "Logs", Icon: "list"},
}

// State is shared by every consumer that renders the drawer. Create one per
// console and pass it explicitly.
type State struct {
	mu          sync.RWMutex
	isOpen      bool
	isCollapsed bool
	isMobile    bool
	observed    bool
	title       string
	footer      string
	links       []Link
}

// New returns a closed, expanded, desktop-mode sidebar.
func New(title, footer string) *State {
	return &State{
		title:  title,
		footer: footer,
		links:  DefaultLinks,
	}
}

// ToggleOpen flips drawer visibility.
func (s *State) ToggleOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = !s.isOpen
}

// ToggleCollapse flips the narrow desktop mode.
func (s *State) ToggleCollapse() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isCollapsed = !s.isCollapsed
}

// ObserveViewport records a viewport width. Crossing into mobile closes the
// drawer; crossing back to desktop shows it again. After the first
// observation, widths that stay on the same side of the breakpoint change
// nothing.
func (s *State) ObserveViewport(width int) {
	mobile := width < MobileBreakpoint

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.observed && mobile == s.isMobile {
		return
	}
	s.observed = true
	s.isMobile = mobile
	s.isOpen = !mobile
}

// Snapshot is the render model of the drawer.
type Snapshot struct {
	IsOpen      bool   `json:"isOpen"`
	IsCollapsed bool   `json:"isCollapsed"`
	IsMobile    bool   `json:"isMobile"`
	ShowOverlay bool   `json:"showOverlay"`
	Header      string `json:"header"`
	Footer      string `json:"footer"`
	Links       []Link `json:"links"`
}

// Snapshot returns the current render model.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		IsOpen:      s.isOpen,
		IsCollapsed: s.isCollapsed,
		IsMobile:    s.isMobile,
		ShowOverlay: s.isMobile && s.isOpen,
		Header:      s.title,
		Footer:      s.footer,
		Links:       append([]Link(nil), s.links...),
	}
	if s.isCollapsed {
		snap.Header = CollapsedHeader(s.title)
		snap.Footer = "©"
	}
	return snap
}

// CollapsedHeader is the single uppercase letter shown in place of the
// title when collapsed.
func CollapsedHeader(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "D"
	}
	r, _ := utf8.DecodeRuneInString(title)
	return strings.ToUpper(string(r))
}
