package model

// Genre represents a genre for books.
type Genre struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"column:genre;size:50;uniqueIndex;not null"`

	Books []Book `json:"-" gorm:"many2many:books_genres"`
}

// TableName overrides the default table name.
func (Genre) TableName() string { return "genres" }
