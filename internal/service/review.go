package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/domain"
	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type ReviewRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetBook(ctx context.Context, uid uuid.UUID) (*models.Book, error)
	GetReviews(ctx context.Context) ([]models.Review, error)
	GetReview(ctx context.Context, uid uuid.UUID) (*models.Review, error)
	CreateReview(ctx context.Context, r *models.Review) error
	DeleteReview(ctx context.Context, uid uuid.UUID) error
}

type ReviewService struct {
	Repo ReviewRepo
}

func (s *ReviewService) ListReviews(ctx context.Context) ([]models.Review, error) {
	return s.Repo.GetReviews(ctx)
}

func (s *ReviewService) GetReview(ctx context.Context, uid uuid.UUID) (*models.Review, error) {
	return s.Repo.GetReview(ctx, uid)
}

// AddReview reports a missing book or user as such; anything else is
// logged and surfaced as ErrInternal.
func (s *ReviewService) AddReview(ctx context.Context, email string, bookUID uuid.UUID, req transport.CreateReviewRequest) (*models.Review, error) {
	l := logging.FromContext(ctx).With("svc", "review.add", "book_uid", bookUID)

	book, err := s.Repo.GetBook(ctx, bookUID)
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return nil, err
		}
		l.Error("add_review_failed", "status", 500, "reason", "cannot load book", "error", err)
		return nil, domain.ErrInternal
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		l.Error("add_review_failed", "status", 500, "reason", "cannot load user", "error", err)
		return nil, domain.ErrInternal
	}

	review := &models.Review{
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
		UserUID:    &user.UID,
		BookUID:    &book.UID,
	}
	if err := s.Repo.CreateReview(ctx, review); err != nil {
		l.Error("add_review_failed", "status", 500, "reason", "cannot save review", "error", err)
		return nil, domain.ErrInternal
	}

	l.Info("add_review_success", "review_uid", review.UID)
	return review, nil
}

// DeleteReview only lets the author remove a review. A missing review is
// reported the same way as someone else's.
func (s *ReviewService) DeleteReview(ctx context.Context, uid uuid.UUID, email string) error {
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	review, err := s.Repo.GetReview(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			return domain.ErrReviewForbidden
		}
		return err
	}
	if review.UserUID == nil || *review.UserUID != user.UID {
		logging.FromContext(ctx).Warn("delete_review_forbidden", "review_uid", uid, "user_uid", user.UID)
		return domain.ErrReviewForbidden
	}

	if err := s.Repo.DeleteReview(ctx, uid); err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			return domain.ErrReviewForbidden
		}
		return err
	}
	return nil
}
