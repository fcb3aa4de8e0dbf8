package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/domain"
	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type TagRepo interface {
	GetTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, uid uuid.UUID) (*models.Tag, error)
	CreateTag(ctx context.Context, t *models.Tag) error
	RenameTag(ctx context.Context, t *models.Tag, name string) error
	DeleteTag(ctx context.Context, uid uuid.UUID) error
	AttachTags(ctx context.Context, book *models.Book, names []string) error
	GetBook(ctx context.Context, uid uuid.UUID) (*models.Book, error)
}

type TagService struct {
	Repo TagRepo
	// Index, when set, is refreshed after a book's tags change.
	Index Indexer
}

func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.Repo.GetTags(ctx)
}

var errBlankTagName = &domain.Error{
	Code:       domain.CodeValidation,
	Message:    domain.ErrValidation.Message,
	Resolution: "tag name must not be blank",
}

func tagName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", errBlankTagName
	}
	return name, nil
}

func (s *TagService) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	name, err := tagName(name)
	if err != nil {
		return nil, err
	}
	tag := &models.Tag{Name: name}
	if err := s.Repo.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// AddTagsToBook attaches the named tags, creating missing ones, and returns
// the reloaded book.
func (s *TagService) AddTagsToBook(ctx context.Context, bookUID uuid.UUID, req transport.AddTagsRequest) (*models.Book, error) {
	book, err := s.Repo.GetBook(ctx, bookUID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(req.Tags))
	names := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		n := strings.TrimSpace(t.Name)
		if _, dup := seen[n]; dup || n == "" {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}

	if len(names) == 0 {
		return nil, errBlankTagName
	}

	if err := s.Repo.AttachTags(ctx, book, names); err != nil {
		return nil, err
	}

	book, err = s.Repo.GetBook(ctx, bookUID)
	if err != nil {
		return nil, err
	}
	if s.Index != nil {
		if err := s.Index.IndexBook(ctx, book); err != nil {
			logging.FromContext(ctx).Error("index_book_failed", "book_uid", book.UID, "error", err)
		}
	}
	return book, nil
}

func (s *TagService) UpdateTag(ctx context.Context, uid uuid.UUID, name string) (*models.Tag, error) {
	name, err := tagName(name)
	if err != nil {
		return nil, err
	}
	tag, err := s.Repo.GetTag(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RenameTag(ctx, tag, name); err != nil {
		return nil, err
	}
	tag.Name = name
	return tag, nil
}

func (s *TagService) DeleteTag(ctx context.Context, uid uuid.UUID) error {
	return s.Repo.DeleteTag(ctx, uid)
}
