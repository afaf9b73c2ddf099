package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"silentlibrary/internal/cache"
	"silentlibrary/internal/errors"
	"silentlibrary/internal/model"
	"silentlibrary/internal/repository"
)

const bookCacheTTL = 5 * time.Minute

// BookInput carries validated book form fields for create and edit.
type BookInput struct {
	Title           string
	ISBN            string
	TotalCopies     uint
	AvailableCopies uint
	AuthorIDs       []uint
	GenreIDs        []uint
}

// BookService handles catalog operations.
type BookService interface {
	GetBook(ctx context.Context, id uint) (*model.Book, error)
	ListBooks(ctx context.Context, page, perPage int) ([]model.Book, int64, error)
	SearchBooks(ctx context.Context, query string, page, perPage int) ([]model.Book, int64, error)
	CreateBook(ctx context.Context, in BookInput) (*model.Book, error)
	UpdateBook(ctx context.Context, id uint, in BookInput) (*model.Book, error)
	DeleteBook(ctx context.Context, id uint) error
	ListAuthors(ctx context.Context) ([]model.Author, error)
	ListGenres(ctx context.Context) ([]model.Genre, error)
}

type bookService struct {
	bookRepo   repository.BookRepository
	authorRepo repository.AuthorRepository
	genreRepo  repository.GenreRepository
	cache      *cache.Client
}

// NewBookService creates a new book service.
func NewBookService(
	bookRepo repository.BookRepository,
	authorRepo repository.AuthorRepository,
	genreRepo repository.GenreRepository,
	cache *cache.Client,
) BookService {
	return &bookService{
		bookRepo:   bookRepo,
		authorRepo: authorRepo,
		genreRepo:  genreRepo,
		cache:      cache,
	}
}

func (s *bookService) cacheKey(id uint) string {
	return fmt.Sprintf("book:%d", id)
}

// GetBook retrieves a book by ID with caching.
func (s *bookService) GetBook(ctx context.Context, id uint) (*model.Book, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Book
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBookNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(book); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, bookCacheTTL)
	}

	return book, nil
}

func (s *bookService) ListBooks(ctx context.Context, page, perPage int) ([]model.Book, int64, error) {
	offset, limit := pageBounds(page, perPage)
	return s.bookRepo.List(ctx, offset, limit)
}

// SearchBooks filters the catalog by a substring over title, ISBN, author
// names, and genre names. An empty query lists everything.
func (s *bookService) SearchBooks(ctx context.Context, query string, page, perPage int) ([]model.Book, int64, error) {
	offset, limit := pageBounds(page, perPage)
	if query == "" {
		return s.bookRepo.List(ctx, offset, limit)
	}
	return s.bookRepo.Search(ctx, query, offset, limit)
}

// CreateBook adds a catalog entry with its author and genre links.
func (s *bookService) CreateBook(ctx context.Context, in BookInput) (*model.Book, error) {
	if existing, err := s.bookRepo.FindByISBN(ctx, in.ISBN); err == nil && existing != nil {
		return nil, errors.ErrDuplicateISBN
	} else if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check isbn: %w", err)
	}

	authors, genres, err := s.resolveLinks(ctx, in)
	if err != nil {
		return nil, err
	}

	book := &model.Book{
		Title:           in.Title,
		ISBN:            in.ISBN,
		TotalCopies:     in.TotalCopies,
		AvailableCopies: in.AvailableCopies,
		Authors:         authors,
		Genres:          genres,
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// UpdateBook edits a catalog entry and replaces its author and genre links.
func (s *bookService) UpdateBook(ctx context.Context, id uint, in BookInput) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBookNotFound
		}
		return nil, err
	}

	if in.ISBN != book.ISBN {
		if existing, err := s.bookRepo.FindByISBN(ctx, in.ISBN); err == nil && existing != nil {
			return nil, errors.ErrDuplicateISBN
		} else if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check isbn: %w", err)
		}
	}

	authors, genres, err := s.resolveLinks(ctx, in)
	if err != nil {
		return nil, err
	}

	book.Title = in.Title
	book.ISBN = in.ISBN
	book.TotalCopies = in.TotalCopies
	book.AvailableCopies = in.AvailableCopies
	book.Authors = nil
	book.Genres = nil
	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	if err := s.bookRepo.ReplaceAuthors(ctx, book, authors); err != nil {
		return nil, fmt.Errorf("replace authors: %w", err)
	}
	if err := s.bookRepo.ReplaceGenres(ctx, book, genres); err != nil {
		return nil, fmt.Errorf("replace genres: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	book.Authors = authors
	book.Genres = genres
	return book, nil
}

// DeleteBook removes a book unless loans or reviews still reference it.
func (s *bookService) DeleteBook(ctx context.Context, id uint) error {
	if _, err := s.bookRepo.FindByID(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrBookNotFound
		}
		return err
	}

	loans, err := s.bookRepo.CountLoans(ctx, id)
	if err != nil {
		return fmt.Errorf("count loans: %w", err)
	}
	reviews, err := s.bookRepo.CountReviews(ctx, id)
	if err != nil {
		return fmt.Errorf("count reviews: %w", err)
	}
	if loans > 0 || reviews > 0 {
		return errors.ErrBookInUse
	}

	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// ListAuthors returns every author, for the book form's picker.
func (s *bookService) ListAuthors(ctx context.Context) ([]model.Author, error) {
	return s.authorRepo.List(ctx)
}

// ListGenres returns every genre, for the book form's picker.
func (s *bookService) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return s.genreRepo.List(ctx)
}

func (s *bookService) resolveLinks(ctx context.Context, in BookInput) ([]model.Author, []model.Genre, error) {
	authors, err := s.authorRepo.FindByIDs(ctx, in.AuthorIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load authors: %w", err)
	}
	genres, err := s.genreRepo.FindByIDs(ctx, in.GenreIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load genres: %w", err)
	}
	return authors, genres, nil
}

func pageBounds(page, perPage int) (offset, limit int) {
	if perPage <= 0 {
		return 0, 0
	}
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage, perPage
}
