package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"shiftboard/internal/identity"
	"shiftboard/internal/models"
	"shiftboard/internal/profile"
	"shiftboard/internal/repo"
	"shiftboard/internal/shift"
)

type Handler struct {
	orders     WorkOrderStore
	containers ContainerStore
	resolver   *profile.Resolver
	events     *identity.Events
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func storeErr(w http.ResponseWriter, err error) {
	if errors.Is(err, repo.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	writeErr(w, http.StatusInternalServerError, err.Error())
}

// ---------- Session ----------

// Session runs the profile resolution for the current session and returns
// the canonical user. 401 answers carry the sign-in location so the client
// can redirect.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	cu, err := h.resolver.Resolve(r.Context())
	if err != nil {
		if errors.Is(err, profile.ErrNotAuthenticated) {
			models.WriteProblem(w, http.StatusUnauthorized,
				"Not Authenticated", "sign in required", map[string]any{
					"signin": "/signin",
				})
			return
		}
		// context torn down mid-resolution; the result was discarded
		writeErr(w, http.StatusServiceUnavailable, "resolution cancelled")
		return
	}
	writeJSON(w, http.StatusOK, cu)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if key := identity.SessionKeyFromContext(r.Context()); key != "" && h.events != nil {
		h.events.Emit(identity.EventSignedOut, key)
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- Work orders ----------

func (h *Handler) ListWorkOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := h.orders.List(r.Context())
	if err != nil {
		storeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) CreateWorkOrder(w http.ResponseWriter, r *http.Request) {
	var wo models.WorkOrder
	if err := json.NewDecoder(r.Body).Decode(&wo); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(wo.WorkOrderNo) == "" || wo.Building == "" || wo.Shift == "" {
		writeErr(w, http.StatusBadRequest, "work_order_no, building and shift are required")
		return
	}
	wo.ID = ""
	if err := h.orders.Create(r.Context(), &wo); err != nil {
		storeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wo)
}

func (h *Handler) GetWorkOrder(w http.ResponseWriter, r *http.Request) {
	wo, err := h.orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		storeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wo)
}

func (h *Handler) UpdateWorkOrder(w http.ResponseWriter, r *http.Request) {
	var wo models.WorkOrder
	if err := json.NewDecoder(r.Body).Decode(&wo); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	wo.ID = mux.Vars(r)["id"]
	if err := h.orders.Update(r.Context(), &wo); err != nil {
		storeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wo)
}

func (h *Handler) DeleteWorkOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		storeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- Containers ----------

func (h *Handler) ListContainers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.containers.List(r.Context())
	if err != nil {
		storeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) CreateContainer(w http.ResponseWriter, r *http.Request) {
	var c models.Container
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(c.ContainerNo) == "" {
		writeErr(w, http.StatusBadRequest, "container_no is required")
		return
	}
	c.ID = ""
	if err := h.containers.Create(r.Context(), &c); err != nil {
		storeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) GetContainer(w http.ResponseWriter, r *http.Request) {
	c, err := h.containers.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		storeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateContainer(w http.ResponseWriter, r *http.Request) {
	var c models.Container
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	c.ID = mux.Vars(r)["id"]
	if err := h.containers.Update(r.Context(), &c); err != nil {
		storeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteContainer(w http.ResponseWriter, r *http.Request) {
	if err := h.containers.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		storeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- Shift summary ----------

type orderRow struct {
	models.WorkOrder
	Containers int    `json:"containers"`
	Pieces     int    `json:"pieces"`
	Pay        string `json:"pay"`
}

type summaryDTO struct {
	TotalContainers int    `json:"total_containers"`
	TotalPieces     int    `json:"total_pieces"`
	TotalPay        string `json:"total_pay"`
}

type summaryResponse struct {
	Building   string             `json:"building"`
	Shift      string             `json:"shift"`
	WorkOrders []orderRow         `json:"work_orders"`
	Containers []models.Container `json:"containers"`
	Summary    summaryDTO         `json:"summary"`
}

// ShiftSummary aggregates the dashboard view for one (building, shift)
// pair. Per-order figures are re-derived against the full container
// collection; the summary comes from the filtered one.
func (h *Handler) ShiftSummary(w http.ResponseWriter, r *http.Request) {
	building := r.URL.Query().Get("building")
	shiftName := r.URL.Query().Get("shift")
	if building == "" || shiftName == "" {
		writeErr(w, http.StatusBadRequest, "building and shift are required")
		return
	}

	orders, err := h.orders.List(r.Context())
	if err != nil {
		storeErr(w, err)
		return
	}
	containers, err := h.containers.List(r.Context())
	if err != nil {
		storeErr(w, err)
		return
	}

	res := shift.Aggregate(orders, containers, building, shiftName)

	rows := make([]orderRow, 0, len(res.WorkOrders))
	for _, wo := range res.WorkOrders {
		f := shift.OrderFigures(wo, containers)
		rows = append(rows, orderRow{
			WorkOrder:  wo,
			Containers: f.Containers,
			Pieces:     f.Pieces,
			Pay:        shift.FormatPay(f.Pay),
		})
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Building:   building,
		Shift:      shiftName,
		WorkOrders: rows,
		Containers: res.Containers,
		Summary: summaryDTO{
			TotalContainers: res.Summary.TotalContainers,
			TotalPieces:     res.Summary.TotalPieces,
			TotalPay:        shift.FormatPay(res.Summary.TotalPay),
		},
	})
}
