package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"console-backend/internal/api"
	"console-backend/internal/authz"
	"console-backend/internal/listview"
	"console-backend/internal/session"
	"console-backend/pkg/utils"
)

// resourceSpec describes one console list screen: where the collection lives
// upstream, which field paths are searchable, and who may see it.
type resourceSpec struct {
	path     string
	keys     []string
	requires authz.Capability
}

var resourceTable = map[string]resourceSpec{
	"products": {path: "products", keys: []string{"name", "sku", "category.name"}, requires: authz.CapProductsView},
	"orders":   {path: "orders", keys: []string{"id", "status", "customer.name", "customer.email"}, requires: authz.CapOrdersView},
	"users":    {path: "users", keys: []string{"name", "email", "role", "region.name"}, requires: authz.CapUsersView},
	"regions":  {path: "regions", keys: []string{"name", "code"}, requires: authz.CapRegionsView},
	"deals":    {path: "deals", keys: []string{"title", "product.name"}, requires: authz.CapDealsView},
	"payroll":  {path: "payroll", keys: []string{"employee.name", "period", "status"}, requires: authz.CapPayrollView},
	// Messages have no stable field set; search the whole record.
	"messages": {path: "messages", requires: authz.CapMessagesSend},
}

type listResponse struct {
	Data       []map[string]interface{} `json:"data"`
	Total      int                      `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
	Query      string                   `json:"query"`
}

// ListResource fetches a raw collection from the upstream API and runs it
// through a list-view controller: ?q= filters, ?page= and ?page_size= page.
func ListResource(sessions *session.Store, client *api.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "resource")
		spec, ok := resourceTable[name]
		if !ok {
			utils.RespondError(w, http.StatusNotFound, "Unknown resource")
			return
		}

		if !authz.HasPermission(sessions.Identity(), spec.requires) {
			log.Printf("❌ Missing capability %s for resource %s", spec.requires, name)
			utils.RespondError(w, http.StatusForbidden, "Forbidden")
			return
		}

		items, err := client.ListResource(r.Context(), sessions.Token(), spec.path)
		if err != nil {
			log.Printf("❌ Failed to fetch %s: %v", name, err)
			utils.RespondError(w, http.StatusBadGateway, "Failed to fetch "+name)
			return
		}

		ctrl := listview.NewController[map[string]interface{}](spec.keys, pageSizeParam(r))
		ctrl.SetSource(items)
		ctrl.SetQuery(r.URL.Query().Get("q"))
		if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
			ctrl.SetPage(page)
		}

		view := ctrl.View()
		utils.Success(w, listResponse{
			Data:       view.Items,
			Total:      view.Total,
			Page:       view.EffectivePage,
			PageSize:   view.PageSize,
			TotalPages: view.TotalPages,
			Query:      view.Query,
		})
	}
}

func pageSizeParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page_size"))
	if err != nil {
		return listview.DefaultPageSize
	}
	return n
}
