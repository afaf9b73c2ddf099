package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"silentlibrary/internal/model"
)

// BookRepository defines book persistence operations.
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Book, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*model.Book, error)
	UpdateAvailableCopies(ctx context.Context, id uint, available uint) error
	List(ctx context.Context, offset, limit int) ([]model.Book, int64, error)
	Search(ctx context.Context, query string, offset, limit int) ([]model.Book, int64, error)
	ReplaceAuthors(ctx context.Context, book *model.Book, authors []model.Author) error
	ReplaceGenres(ctx context.Context, book *model.Book, genres []model.Genre) error
	CountLoans(ctx context.Context, id uint) (int64, error)
	CountReviews(ctx context.Context, id uint) (int64, error)
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository.
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) Update(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&model.BookAuthor{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&model.BookGenre{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Book{}, id).Error
	})
}

// FindByID loads a book with its authors and genres preloaded.
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).
		Preload("Authors").Preload("Genres").
		First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindByIDForUpdate finds a book by ID with a row-level lock for update.
func (r *bookRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) UpdateAvailableCopies(ctx context.Context, id uint, available uint) error {
	return r.db.WithContext(ctx).Model(&model.Book{}).
		Where("id = ?", id).
		Update("available_copies", available).Error
}

func (r *bookRepository) List(ctx context.Context, offset, limit int) ([]model.Book, int64, error) {
	var books []model.Book
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Book{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q := r.db.WithContext(ctx).Preload("Authors").Preload("Genres").Order("title")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// Search filters books by a case-insensitive substring over title, ISBN,
// author first/last name, and genre name.
func (r *bookRepository) Search(ctx context.Context, query string, offset, limit int) ([]model.Book, int64, error) {
	pattern := "%" + query + "%"
	base := r.db.WithContext(ctx).Model(&model.Book{}).
		Joins("LEFT JOIN books_authors ON books_authors.book_id = books.id").
		Joins("LEFT JOIN authors ON authors.id = books_authors.author_id").
		Joins("LEFT JOIN books_genres ON books_genres.book_id = books.id").
		Joins("LEFT JOIN genres ON genres.id = books_genres.genre_id").
		Where(
			"books.title LIKE ? OR books.isbn LIKE ? OR authors.first_name LIKE ? OR authors.last_name LIKE ? OR genres.genre LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		).
		Group("books.id")

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("books.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []model.Book
	q := base.Session(&gorm.Session{}).Preload("Authors").Preload("Genres").Order("books.title")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *bookRepository) ReplaceAuthors(ctx context.Context, book *model.Book, authors []model.Author) error {
	return r.db.WithContext(ctx).Model(book).Association("Authors").Replace(authors)
}

func (r *bookRepository) ReplaceGenres(ctx context.Context, book *model.Book, genres []model.Genre) error {
	return r.db.WithContext(ctx).Model(book).Association("Genres").Replace(genres)
}

func (r *bookRepository) CountLoans(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Loan{}).Where("book_id = ?", id).Count(&n).Error
	return n, err
}

func (r *bookRepository) CountReviews(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).Where("book_id = ?", id).Count(&n).Error
	return n, err
}
