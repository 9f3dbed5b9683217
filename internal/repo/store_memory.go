package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"shiftboard/internal/models"
)

// In-memory store set for running without a database (demo/dev mode).
// Same contracts as the gorm stores; data lives for the process lifetime.

type MemProfileStore struct {
	mu       sync.RWMutex
	accounts []models.UserAccount // slice keeps insertion order = store-return-order
}

func NewMemProfileStore() *MemProfileStore { return &MemProfileStore{} }

func (s *MemProfileStore) FindByEmail(_ context.Context, email string) (*models.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.accounts {
		if s.accounts[i].Email == email {
			acc := s.accounts[i]
			return &acc, nil
		}
	}
	return nil, nil
}

func (s *MemProfileStore) Insert(_ context.Context, acc *models.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	s.accounts = append(s.accounts, *acc)
	return nil
}

func (s *MemProfileStore) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID != id {
			continue
		}
		if v, ok := fields["name"].(string); ok {
			s.accounts[i].Name = &v
		}
		if v, ok := fields["building"].(string); ok {
			s.accounts[i].Building = &v
		}
		if v, ok := fields["access_role"].(string); ok {
			s.accounts[i].AccessRole = &v
		}
		if v, ok := fields["active"].(bool); ok {
			s.accounts[i].Active = &v
		}
		s.accounts[i].UpdatedAt = time.Now().UTC()
		return nil
	}
	return ErrNotFound
}

type MemWorkOrderStore struct {
	mu     sync.RWMutex
	orders map[string]models.WorkOrder
}

func NewMemWorkOrderStore() *MemWorkOrderStore {
	return &MemWorkOrderStore{orders: make(map[string]models.WorkOrder)}
}

func (s *MemWorkOrderStore) List(_ context.Context) ([]models.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]models.WorkOrder, 0, len(s.orders))
	for _, wo := range s.orders {
		rows = append(rows, wo)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID < rows[j].ID
	})
	return rows, nil
}

func (s *MemWorkOrderStore) Get(_ context.Context, id string) (*models.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wo, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &wo, nil
}

func (s *MemWorkOrderStore) Create(_ context.Context, wo *models.WorkOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wo.ID == "" {
		wo.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	wo.CreatedAt = now
	wo.UpdatedAt = now
	s.orders[wo.ID] = *wo
	return nil
}

func (s *MemWorkOrderStore) Update(_ context.Context, wo *models.WorkOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.orders[wo.ID]
	if !ok {
		return ErrNotFound
	}
	wo.CreatedAt = cur.CreatedAt
	wo.UpdatedAt = time.Now().UTC()
	s.orders[wo.ID] = *wo
	return nil
}

func (s *MemWorkOrderStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

type MemContainerStore struct {
	mu         sync.RWMutex
	containers map[string]models.Container
}

func NewMemContainerStore() *MemContainerStore {
	return &MemContainerStore{containers: make(map[string]models.Container)}
}

func (s *MemContainerStore) List(_ context.Context) ([]models.Container, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]models.Container, 0, len(s.containers))
	for _, c := range s.containers {
		rows = append(rows, c)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID < rows[j].ID
	})
	return rows, nil
}

func (s *MemContainerStore) Get(_ context.Context, id string) (*models.Container, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.containers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemContainerStore) Create(_ context.Context, c *models.Container) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.containers[c.ID] = *c
	return nil
}

func (s *MemContainerStore) Update(_ context.Context, c *models.Container) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.containers[c.ID]
	if !ok {
		return ErrNotFound
	}
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	s.containers[c.ID] = *c
	return nil
}

func (s *MemContainerStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.containers[id]; !ok {
		return ErrNotFound
	}
	delete(s.containers, id)
	return nil
}
