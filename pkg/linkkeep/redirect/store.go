package redirect

import (
	"context"

	"gorm.io/gorm"

	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/models"
)

// Store is the lookup and click-accounting contract for the resolver.
type Store interface {
	FindByCode(ctx context.Context, code string) (*models.Link, error)
	CountClick(ctx context.Context, id uint) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a gorm-backed resolver store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindByCode(ctx context.Context, code string) (*models.Link, error) {
	var link models.Link
	err := s.db.WithContext(ctx).Where("short_code = ?", code).First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// CountClick increments clicks in a single UPDATE statement so
// concurrent visits never lose an increment.
func (s *gormStore) CountClick(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Model(&models.Link{}).
		Where("id = ?", id).
		Update("clicks", gorm.Expr("clicks + 1")).Error
}
