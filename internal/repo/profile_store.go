package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shiftboard/internal/models"
)

var ErrNotFound = errors.New("record not found")

type ProfileStore struct{ db *gorm.DB }

func NewProfileStore(db *gorm.DB) *ProfileStore { return &ProfileStore{db: db} }

// FindByEmail returns at most one account for the (already lowercased)
// email, or nil when none exists. If several rows share the email only the
// first returned is used; there is no defined tie-break beyond
// store-return-order.
func (s *ProfileStore) FindByEmail(ctx context.Context, email string) (*models.UserAccount, error) {
	var accs []models.UserAccount
	if err := s.db.WithContext(ctx).
		Where("email = ?", email).
		Limit(1).
		Find(&accs).Error; err != nil {
		return nil, err
	}
	if len(accs) == 0 {
		return nil, nil
	}
	return &accs[0], nil
}

func (s *ProfileStore) Insert(ctx context.Context, acc *models.UserAccount) error {
	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(acc).Error
}

// UpdateFields applies a partial patch by id. Callers control the field
// set; the resolver never includes access_role here.
func (s *ProfileStore) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return s.db.WithContext(ctx).
		Model(&models.UserAccount{}).
		Where("id = ?", id).
		Updates(fields).Error
}
