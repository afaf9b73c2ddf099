package model

// Author represents an author of a book.
type Author struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	FirstName string `json:"first_name" gorm:"size:50;not null;index"`
	LastName  string `json:"last_name" gorm:"size:50;not null;index"`

	Books []Book `json:"-" gorm:"many2many:books_authors"`
}

// TableName overrides the default table name.
func (Author) TableName() string { return "authors" }

// FullName returns the author's display name.
func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}
