package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookly/internal/domain"
	"github.com/Skotchmaster/bookly/internal/models"
)

func (r *GormRepo) GetTags(ctx context.Context) ([]models.Tag, error) {
	var items []models.Tag
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetTag(ctx context.Context, uid uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).First(&tag).Error; err != nil {
		return nil, notFound(err, domain.ErrTagNotFound)
	}
	return &tag, nil
}

func (r *GormRepo) GetTagByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, notFound(err, domain.ErrTagNotFound)
	}
	return &tag, nil
}

func (r *GormRepo) CreateTag(ctx context.Context, t *models.Tag) error {
	if _, err := r.GetTagByName(ctx, t.Name); err == nil {
		return domain.ErrTagAlreadyExists
	} else if !errors.Is(err, domain.ErrTagNotFound) {
		return err
	}

	if err := r.DB.WithContext(ctx).Create(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrTagAlreadyExists
		}
		return err
	}
	return nil
}

// RenameTag fails with ErrTagAlreadyExists when another tag owns the name.
func (r *GormRepo) RenameTag(ctx context.Context, t *models.Tag, name string) error {
	if other, err := r.GetTagByName(ctx, name); err == nil && other.UID != t.UID {
		return domain.ErrTagAlreadyExists
	} else if err != nil && !errors.Is(err, domain.ErrTagNotFound) {
		return err
	}

	if err := r.DB.WithContext(ctx).Model(t).Update("name", name).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrTagAlreadyExists
		}
		return err
	}
	return nil
}

func (r *GormRepo) DeleteTag(ctx context.Context, uid uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM book_tags WHERE tag_uid = ?", uid).Error; err != nil {
			return err
		}
		res := tx.Where("uid = ?", uid).Delete(&models.Tag{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrTagNotFound
		}
		return nil
	})
}

// AttachTags links tags to a book, creating tags that do not exist yet.
func (r *GormRepo) AttachTags(ctx context.Context, book *models.Book, names []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags := make([]models.Tag, 0, len(names))
		for _, name := range names {
			var tag models.Tag
			if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			tags = append(tags, tag)
		}
		return tx.Model(book).Omit("Tags.*").Association("Tags").Append(tags)
	})
}
