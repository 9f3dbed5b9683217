package server

import (
	"gorm.io/gorm"

	"shiftboard/internal/api"
	"shiftboard/internal/profile"
	"shiftboard/internal/repo"
)

// stores bundles the persistence set the handlers need. With a DB it is
// gorm-backed; without one the in-memory set from repo serves dev/demo
// runs.
type stores struct {
	profiles   profile.Store
	orders     api.WorkOrderStore
	containers api.ContainerStore
}

func newStores(db *gorm.DB) stores {
	if db == nil {
		return stores{
			profiles:   repo.NewMemProfileStore(),
			orders:     repo.NewMemWorkOrderStore(),
			containers: repo.NewMemContainerStore(),
		}
	}
	return stores{
		profiles:   repo.NewProfileStore(db),
		orders:     repo.NewWorkOrderStore(db),
		containers: repo.NewContainerStore(db),
	}
}
