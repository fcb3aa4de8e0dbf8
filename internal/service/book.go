package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/domain"
	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/service/search"
	"github.com/Skotchmaster/bookly/internal/transport"
)

const dateLayout = "2006-01-02"

type BookRepo interface {
	GetBooks(ctx context.Context, offset, limit int) (int64, []models.Book, error)
	GetUserBooks(ctx context.Context, userUID uuid.UUID) ([]models.Book, error)
	GetBook(ctx context.Context, uid uuid.UUID) (*models.Book, error)
	CreateBook(ctx context.Context, b *models.Book) error
	SaveBook(ctx context.Context, b *models.Book) error
	DeleteBook(ctx context.Context, uid uuid.UUID) error
	SearchBooks(ctx context.Context, q string, offset, limit int) (int64, []models.Book, error)
}

// Indexer mirrors books into a full-text index.
type Indexer interface {
	IndexBook(ctx context.Context, b *models.Book) error
	DeleteBook(ctx context.Context, uid uuid.UUID) error
	Search(ctx context.Context, q string, from, size int) (int64, []search.BookDoc, error)
}

type BookService struct {
	Repo BookRepo
	// Index is optional; without it search falls back to the database.
	Index Indexer
}

func (s *BookService) ListBooks(ctx context.Context, offset, limit int) (int64, []models.Book, error) {
	return s.Repo.GetBooks(ctx, offset, limit)
}

func (s *BookService) UserBooks(ctx context.Context, userUID uuid.UUID) ([]models.Book, error) {
	return s.Repo.GetUserBooks(ctx, userUID)
}

func (s *BookService) GetBook(ctx context.Context, uid uuid.UUID) (*models.Book, error) {
	return s.Repo.GetBook(ctx, uid)
}

func (s *BookService) CreateBook(ctx context.Context, userUID uuid.UUID, req transport.CreateBookRequest) (*models.Book, error) {
	published, err := time.Parse(dateLayout, req.PublishedDate)
	if err != nil {
		return nil, fmt.Errorf("%w: published_date: %v", domain.ErrValidation, err)
	}

	book := &models.Book{
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedDate: &published,
		PageCount:     req.PageCount,
		Language:      req.Language,
		UserUID:       &userUID,
	}
	if err := s.Repo.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	s.index(ctx, book)
	return book, nil
}

func (s *BookService) UpdateBook(ctx context.Context, uid uuid.UUID, req transport.PatchBookRequest) (*models.Book, error) {
	book, err := s.Repo.GetBook(ctx, uid)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.PageCount != nil {
		book.PageCount = *req.PageCount
	}
	if req.Language != nil {
		book.Language = *req.Language
	}

	if err := s.Repo.SaveBook(ctx, book); err != nil {
		return nil, err
	}

	s.index(ctx, book)
	return book, nil
}

func (s *BookService) DeleteBook(ctx context.Context, uid uuid.UUID) error {
	if err := s.Repo.DeleteBook(ctx, uid); err != nil {
		return err
	}
	if s.Index != nil {
		if err := s.Index.DeleteBook(ctx, uid); err != nil {
			logging.FromContext(ctx).Error("unindex_book_failed", "book_uid", uid, "error", err)
		}
	}
	return nil
}

func (s *BookService) SearchBooks(ctx context.Context, q string, offset, limit int) (int64, []search.BookDoc, error) {
	if s.Index != nil {
		return s.Index.Search(ctx, q, offset, limit)
	}

	total, books, err := s.Repo.SearchBooks(ctx, q, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	docs := make([]search.BookDoc, len(books))
	for i := range books {
		docs[i] = search.DocFromBook(&books[i])
	}
	return total, docs, nil
}

func (s *BookService) index(ctx context.Context, b *models.Book) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexBook(ctx, b); err != nil {
		logging.FromContext(ctx).Error("index_book_failed", "book_uid", b.UID, "error", err)
	}
}
