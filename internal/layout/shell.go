// Package layout composes the navigation frame: sidebar entries gated by the
// permission evaluator and the notification overlay. It owns no business
// logic of its own.
package layout

import (
	"console-backend/internal/authz"
	"console-backend/internal/notify"
	"console-backend/internal/session"
)

// NavItem is one sidebar entry. An empty Requires means the entry is visible
// to every authenticated operator.
type NavItem struct {
	Label    string           `json:"label"`
	Path     string           `json:"path"`
	Requires authz.Capability `json:"requires,omitempty"`
}

// Shell ties the session store, nav table and notification queue together
// for the UI surface.
type Shell struct {
	sessions      *session.Store
	nav           []NavItem
	notifications *notify.Queue
}

// NewShell creates a shell over the given collaborators.
func NewShell(sessions *session.Store, nav []NavItem, notifications *notify.Queue) *Shell {
	return &Shell{sessions: sessions, nav: nav, notifications: notifications}
}

// VisibleNav filters the nav table against the current identity. Visibility
// is a pure function of (identity, required capability), recomputed on every
// call so identity changes take effect immediately.
func (s *Shell) VisibleNav() []NavItem {
	identity := s.sessions.Identity()
	out := make([]NavItem, 0, len(s.nav))
	for _, item := range s.nav {
		if item.Requires == "" && identity != nil {
			out = append(out, item)
			continue
		}
		if authz.HasPermission(identity, item.Requires) {
			out = append(out, item)
		}
	}
	return out
}

// Notifications returns the queue snapshot for the topbar overlay.
func (s *Shell) Notifications() []notify.Notification {
	return s.notifications.Items()
}

// DefaultNav is the nav table for the back-office console screens.
func DefaultNav() []NavItem {
	return []NavItem{
		{Label: "Dashboard", Path: "/"},
		{Label: "Products", Path: "/products", Requires: authz.CapProductsView},
		{Label: "Orders", Path: "/orders", Requires: authz.CapOrdersView},
		{Label: "Users", Path: "/users", Requires: authz.CapUsersView},
		{Label: "Regions", Path: "/regions", Requires: authz.CapRegionsView},
		{Label: "Deals", Path: "/deals", Requires: authz.CapDealsView},
		{Label: "Finance", Path: "/finance", Requires: authz.CapFinanceView},
		{Label: "Payroll", Path: "/payroll", Requires: authz.CapPayrollView},
		{Label: "Messages", Path: "/messages", Requires: authz.CapMessagesSend},
		{Label: "Settings", Path: "/settings", Requires: authz.CapSettingsManage},
	}
}
