package model

// Book represents a title in the library catalog. Copy accounting lives on the
// book itself: AvailableCopies may never exceed TotalCopies.
type Book struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Title           string `json:"title" gorm:"size:200;not null;index"`
	ISBN            string `json:"isbn" gorm:"column:isbn;size:17;uniqueIndex;not null"`
	TotalCopies     uint   `json:"total_copies" gorm:"default:1;index"`
	AvailableCopies uint   `json:"available_copies" gorm:"default:1;index;check:available_copies <= total_copies"`

	Authors []Author `json:"authors,omitempty" gorm:"many2many:books_authors"`
	Genres  []Genre  `json:"genres,omitempty" gorm:"many2many:books_genres"`
}

// TableName overrides the default table name.
func (Book) TableName() string { return "books" }

// BookAuthor is the explicit junction row linking books and authors.
type BookAuthor struct {
	BookID   uint `gorm:"primaryKey"`
	AuthorID uint `gorm:"primaryKey"`
}

// TableName overrides the default table name.
func (BookAuthor) TableName() string { return "books_authors" }

// BookGenre is the explicit junction row linking books and genres.
type BookGenre struct {
	BookID  uint `gorm:"primaryKey"`
	GenreID uint `gorm:"primaryKey"`
}

// TableName overrides the default table name.
func (BookGenre) TableName() string { return "books_genres" }
