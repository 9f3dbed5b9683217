package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shiftboard/internal/models"
)

type WorkOrderStore struct{ db *gorm.DB }

func NewWorkOrderStore(db *gorm.DB) *WorkOrderStore { return &WorkOrderStore{db: db} }

// List returns all work orders, newest first. Filtering by building/shift
// happens in memory in the shift package; the collections stay small.
func (s *WorkOrderStore) List(ctx context.Context) ([]models.WorkOrder, error) {
	var rows []models.WorkOrder
	if err := s.db.WithContext(ctx).
		Order("created_at desc, id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *WorkOrderStore) Get(ctx context.Context, id string) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&wo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

func (s *WorkOrderStore) Create(ctx context.Context, wo *models.WorkOrder) error {
	if wo.ID == "" {
		wo.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	wo.CreatedAt = now
	wo.UpdatedAt = now
	return s.db.WithContext(ctx).Create(wo).Error
}

func (s *WorkOrderStore) Update(ctx context.Context, wo *models.WorkOrder) error {
	wo.UpdatedAt = time.Now().UTC()
	tx := s.db.WithContext(ctx).Model(&models.WorkOrder{}).Where("id = ?", wo.ID).Updates(map[string]any{
		"work_order_no": wo.WorkOrderNo,
		"building":      wo.Building,
		"shift":         wo.Shift,
		"container_ids": wo.ContainerIDs,
		"updated_at":    wo.UpdatedAt,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *WorkOrderStore) Delete(ctx context.Context, id string) error {
	tx := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.WorkOrder{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
