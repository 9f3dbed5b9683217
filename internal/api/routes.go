package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"shiftboard/internal/identity"
	"shiftboard/internal/models"
	"shiftboard/internal/profile"
)

// Store contracts the API needs. Both the gorm and the in-memory sets in
// internal/repo satisfy them.
type WorkOrderStore interface {
	List(ctx context.Context) ([]models.WorkOrder, error)
	Get(ctx context.Context, id string) (*models.WorkOrder, error)
	Create(ctx context.Context, wo *models.WorkOrder) error
	Update(ctx context.Context, wo *models.WorkOrder) error
	Delete(ctx context.Context, id string) error
}

type ContainerStore interface {
	List(ctx context.Context) ([]models.Container, error)
	Get(ctx context.Context, id string) (*models.Container, error)
	Create(ctx context.Context, c *models.Container) error
	Update(ctx context.Context, c *models.Container) error
	Delete(ctx context.Context, id string) error
}

func NewHandler(orders WorkOrderStore, containers ContainerStore, resolver *profile.Resolver, events *identity.Events) *Handler {
	return &Handler{orders: orders, containers: containers, resolver: resolver, events: events}
}

// RegisterRoutes wires the bearer-authenticated JSON API.
func RegisterRoutes(r *mux.Router, h *Handler, v *identity.TokenVerifier) {
	sub := r.PathPrefix("/api/v1").Subrouter()
	sub.Use(identity.Middleware(v))

	sub.HandleFunc("/session", h.Session).Methods(http.MethodGet)
	sub.HandleFunc("/session/signout", h.SignOut).Methods(http.MethodPost)

	sub.HandleFunc("/workorders", h.ListWorkOrders).Methods(http.MethodGet)
	sub.HandleFunc("/workorders", h.CreateWorkOrder).Methods(http.MethodPost)
	sub.HandleFunc("/workorders/{id}", h.GetWorkOrder).Methods(http.MethodGet)
	sub.HandleFunc("/workorders/{id}", h.UpdateWorkOrder).Methods(http.MethodPut)
	sub.HandleFunc("/workorders/{id}", h.DeleteWorkOrder).Methods(http.MethodDelete)

	sub.HandleFunc("/containers", h.ListContainers).Methods(http.MethodGet)
	sub.HandleFunc("/containers", h.CreateContainer).Methods(http.MethodPost)
	sub.HandleFunc("/containers/{id}", h.GetContainer).Methods(http.MethodGet)
	sub.HandleFunc("/containers/{id}", h.UpdateContainer).Methods(http.MethodPut)
	sub.HandleFunc("/containers/{id}", h.DeleteContainer).Methods(http.MethodDelete)

	sub.HandleFunc("/shift/summary", h.ShiftSummary).Methods(http.MethodGet)
}
