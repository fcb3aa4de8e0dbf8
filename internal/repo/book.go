package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookly/internal/domain"
	"github.com/Skotchmaster/bookly/internal/models"
)

func (r *GormRepo) GetBooks(ctx context.Context, offset, limit int) (int64, []models.Book, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Book, 0, limit)
	if err := r.DB.WithContext(ctx).
		Preload("Tags").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetUserBooks(ctx context.Context, userUID uuid.UUID) ([]models.Book, error) {
	var items []models.Book
	if err := r.DB.WithContext(ctx).
		Preload("Tags").
		Where("user_uid = ?", userUID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetBook loads a book with its reviews and tags.
func (r *GormRepo) GetBook(ctx context.Context, uid uuid.UUID) (*models.Book, error) {
	var book models.Book
	err := r.DB.WithContext(ctx).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Tags").
		Where("uid = ?", uid).
		First(&book).Error
	if err != nil {
		return nil, notFound(err, domain.ErrBookNotFound)
	}
	return &book, nil
}

func (r *GormRepo) CreateBook(ctx context.Context, b *models.Book) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *GormRepo) SaveBook(ctx context.Context, b *models.Book) error {
	return r.DB.WithContext(ctx).Omit("Reviews", "Tags").Save(b).Error
}

// DeleteBook removes the book along with its reviews and tag links.
func (r *GormRepo) DeleteBook(ctx context.Context, uid uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM book_tags WHERE book_uid = ?", uid).Error; err != nil {
			return err
		}
		if err := tx.Where("book_uid = ?", uid).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		res := tx.Where("uid = ?", uid).Delete(&models.Book{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrBookNotFound
		}
		return nil
	})
}

// SearchBooks is a case-insensitive substring match over title, author and
// publisher, used when no search index is configured.
func (r *GormRepo) SearchBooks(ctx context.Context, q string, offset, limit int) (int64, []models.Book, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	where := "LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(publisher) LIKE ?"

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Book{}).Where(where, pattern, pattern, pattern).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Book, 0, limit)
	if err := r.DB.WithContext(ctx).
		Preload("Tags").
		Where(where, pattern, pattern, pattern).
		Order("title ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
