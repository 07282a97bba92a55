package authz

import (
	"fmt"
	"strings"
)

// Capability is a label gating a specific console action or view. The
// vocabulary is closed: anything arriving over the API boundary goes through
// ParseCapability first.
type Capability string

const (
	CapProductsView   Capability = "products.view"
	CapProductsManage Capability = "products.manage"
	CapOrdersView     Capability = "orders.view"
	CapOrdersManage   Capability = "orders.manage"
	CapUsersView      Capability = "users.view"
	CapUsersManage    Capability = "users.manage"
	CapRegionsView    Capability = "regions.view"
	CapRegionsManage  Capability = "regions.manage"
	CapDealsView      Capability = "deals.view"
	CapDealsManage    Capability = "deals.manage"
	CapPayrollView    Capability = "payroll.view"
	CapPayrollManage  Capability = "payroll.manage"
	CapFinanceView    Capability = "finance.view"
	CapMessagesSend   Capability = "messages.send"
	CapSettingsManage Capability = "settings.manage"
)

var known = map[Capability]bool{
	CapProductsView:   true,
	CapProductsManage: true,
	CapOrdersView:     true,
	CapOrdersManage:   true,
	CapUsersView:      true,
	CapUsersManage:    true,
	CapRegionsView:    true,
	CapRegionsManage:  true,
	CapDealsView:      true,
	CapDealsManage:    true,
	CapPayrollView:    true,
	CapPayrollManage:  true,
	CapFinanceView:    true,
	CapMessagesSend:   true,
	CapSettingsManage: true,
}

// ParseCapability validates a raw string against the known vocabulary.
func ParseCapability(s string) (Capability, error) {
	c := Capability(strings.ToLower(strings.TrimSpace(s)))
	if !known[c] {
		return "", fmt.Errorf("unknown capability: %q", s)
	}
	return c, nil
}
