package admin

import (
	"net/http"
	"sort"

	"shiftboard/internal/models"
	"shiftboard/internal/shift"
)

type Handler struct {
	d Dependencies
	t pageTemplates
}

func (h *Handler) redirect(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusFound)
	}
}

func (h *Handler) render(w http.ResponseWriter, page string, data any) {
	t, ok := h.t[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ---------- Pages ----------

type orderView struct {
	models.WorkOrder
	Containers int
	Pieces     int
	Pay        string
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	building := r.URL.Query().Get("building")
	shiftName := r.URL.Query().Get("shift")

	orders, err := h.d.Orders.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	containers, err := h.d.Containers.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	res := shift.Aggregate(orders, containers, building, shiftName)
	rows := make([]orderView, 0, len(res.WorkOrders))
	for _, wo := range res.WorkOrders {
		f := shift.OrderFigures(wo, containers)
		rows = append(rows, orderView{WorkOrder: wo, Containers: f.Containers, Pieces: f.Pieces, Pay: shift.FormatPay(f.Pay)})
	}

	h.render(w, "dashboard.tmpl", map[string]any{
		"Title":     "Shift Dashboard",
		"Building":  building,
		"Shift":     shiftName,
		"Buildings": distinctBuildings(orders),
		"Shifts":    distinctShifts(orders),
		"Rows":      rows,
		"Summary": map[string]any{
			"Containers": res.Summary.TotalContainers,
			"Pieces":     res.Summary.TotalPieces,
			"Pay":        shift.FormatPay(res.Summary.TotalPay),
		},
	})
}

func (h *Handler) WorkOrdersList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.d.Orders.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	containers, err := h.d.Containers.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rows := make([]orderView, 0, len(orders))
	for _, wo := range orders {
		f := shift.OrderFigures(wo, containers)
		rows = append(rows, orderView{WorkOrder: wo, Containers: f.Containers, Pieces: f.Pieces, Pay: shift.FormatPay(f.Pay)})
	}
	h.render(w, "workorders_list.tmpl", map[string]any{
		"Title": "Work Orders",
		"Rows":  rows,
	})
}

type containerView struct {
	models.Container
	Pay         string
	WorkerCount int
}

func (h *Handler) ContainersList(w http.ResponseWriter, r *http.Request) {
	containers, err := h.d.Containers.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rows := make([]containerView, 0, len(containers))
	for _, c := range containers {
		rows = append(rows, containerView{Container: c, Pay: shift.FormatPay(c.ContainerPay), WorkerCount: len(c.Workers)})
	}
	h.render(w, "containers_list.tmpl", map[string]any{
		"Title": "Containers",
		"Rows":  rows,
	})
}

func distinctBuildings(orders []models.WorkOrder) []string {
	return distinct(orders, func(wo models.WorkOrder) string { return wo.Building })
}

func distinctShifts(orders []models.WorkOrder) []string {
	return distinct(orders, func(wo models.WorkOrder) string { return wo.Shift })
}

func distinct(orders []models.WorkOrder, key func(models.WorkOrder) string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, wo := range orders {
		k := key(wo)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
