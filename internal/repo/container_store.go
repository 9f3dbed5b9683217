package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shiftboard/internal/models"
)

type ContainerStore struct{ db *gorm.DB }

func NewContainerStore(db *gorm.DB) *ContainerStore { return &ContainerStore{db: db} }

func (s *ContainerStore) List(ctx context.Context) ([]models.Container, error) {
	var rows []models.Container
	if err := s.db.WithContext(ctx).
		Order("created_at desc, id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ContainerStore) Get(ctx context.Context, id string) (*models.Container, error) {
	var c models.Container
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContainerStore) Create(ctx context.Context, c *models.Container) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *ContainerStore) Update(ctx context.Context, c *models.Container) error {
	c.UpdatedAt = time.Now().UTC()
	tx := s.db.WithContext(ctx).Model(&models.Container{}).Where("id = ?", c.ID).Updates(map[string]any{
		"container_no":  c.ContainerNo,
		"pieces_total":  c.PiecesTotal,
		"skus_total":    c.SKUsTotal,
		"container_pay": c.ContainerPay,
		"workers":       c.Workers,
		"updated_at":    c.UpdatedAt,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ContainerStore) Delete(ctx context.Context, id string) error {
	tx := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Container{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
