package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/domain"
	"github.com/Skotchmaster/bookly/internal/models"
)

func (r *GormRepo) GetReviews(ctx context.Context) ([]models.Review, error) {
	var items []models.Review
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetReview(ctx context.Context, uid uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).First(&review).Error; err != nil {
		return nil, notFound(err, domain.ErrReviewNotFound)
	}
	return &review, nil
}

func (r *GormRepo) CreateReview(ctx context.Context, rv *models.Review) error {
	return r.DB.WithContext(ctx).Create(rv).Error
}

func (r *GormRepo) DeleteReview(ctx context.Context, uid uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("uid = ?", uid).Delete(&models.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}
