package admin

import (
	"context"

	"github.com/gorilla/mux"

	"shiftboard/internal/models"
)

type OrderStore interface {
	List(ctx context.Context) ([]models.WorkOrder, error)
}

type ContainerStore interface {
	List(ctx context.Context) ([]models.Container, error)
}

type Dependencies struct {
	Orders     OrderStore
	Containers ContainerStore
}

func Attach(r *mux.Router, d Dependencies) {
	h := &Handler{d: d, t: parseTemplates()}
	sub := r.PathPrefix("/admin").Subrouter()

	// pages
	sub.HandleFunc("", h.redirect("/admin/dashboard")).Methods("GET")
	sub.HandleFunc("/", h.redirect("/admin/dashboard")).Methods("GET")
	sub.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
	sub.HandleFunc("/workorders", h.WorkOrdersList).Methods("GET")
	sub.HandleFunc("/containers", h.ContainersList).Methods("GET")

	// assets
	sub.HandleFunc("/assets/app.css", serveCSS).Methods("GET")
	sub.HandleFunc("/assets/app.js", serveJS).Methods("GET")
}
