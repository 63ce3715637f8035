package links

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/models"
)

// gormStore implements Store on top of the links table.
type gormStore struct {
	db *gorm.DB
}

// NewStore creates a gorm-backed allocator store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CodeInUse(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Link{}).
		Where("short_code = ?", code).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *gormStore) Insert(ctx context.Context, link *models.Link) error {
	err := s.db.WithContext(ctx).Create(link).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCodeTaken
	}
	return err
}
