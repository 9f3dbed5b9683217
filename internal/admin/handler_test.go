package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"shiftboard/internal/models"
)

type fakeOrderStore struct {
	orders []models.WorkOrder
	err    error
}

func (f *fakeOrderStore) List(context.Context) ([]models.WorkOrder, error) {
	return f.orders, f.err
}

type fakeContainerStore struct {
	containers []models.Container
	err        error
}

func (f *fakeContainerStore) List(context.Context) ([]models.Container, error) {
	return f.containers, f.err
}

func pagesRouter(orders OrderStore, containers ContainerStore) *mux.Router {
	r := mux.NewRouter()
	Attach(r, Dependencies{Orders: orders, Containers: containers})
	return r
}

func get(t *testing.T, r *mux.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPages_Render(t *testing.T) {
	orders := &fakeOrderStore{orders: []models.WorkOrder{{
		ID:           "wo-1",
		WorkOrderNo:  "WO-100",
		Building:     "B1",
		Shift:        "Night",
		ContainerIDs: datatypes.NewJSONSlice([]string{"c-1"}),
	}}}
	containers := &fakeContainerStore{containers: []models.Container{{
		ID:           "c-1",
		ContainerNo:  "CT-100",
		PiecesTotal:  30,
		ContainerPay: 12.5,
	}}}
	r := pagesRouter(orders, containers)

	rec := get(t, r, "/admin/workorders")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "WO-100")
	assert.Contains(t, rec.Body.String(), "12.50")

	rec = get(t, r, "/admin/dashboard?building=B1&shift=Night")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "12.50")

	rec = get(t, r, "/admin/containers")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CT-100")
}

// A broken container store must fail the page, never render rows with
// zeroed pay figures.
func TestPages_ContainerStoreFailure(t *testing.T) {
	orders := &fakeOrderStore{orders: []models.WorkOrder{{
		ID:           "wo-1",
		WorkOrderNo:  "WO-100",
		Building:     "B1",
		Shift:        "Night",
		ContainerIDs: datatypes.NewJSONSlice([]string{"c-1"}),
	}}}
	containers := &fakeContainerStore{err: errors.New("store down")}
	r := pagesRouter(orders, containers)

	for _, path := range []string{"/admin/workorders", "/admin/dashboard", "/admin/containers"} {
		rec := get(t, r, path)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.NotContains(t, rec.Body.String(), "WO-100", path)
	}
}

func TestPages_OrderStoreFailure(t *testing.T) {
	orders := &fakeOrderStore{err: errors.New("store down")}
	containers := &fakeContainerStore{}
	r := pagesRouter(orders, containers)

	for _, path := range []string{"/admin/workorders", "/admin/dashboard"} {
		rec := get(t, r, path)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
	}
}
