package models

import (
	"time"
)

// Model is a record kept in the local history database.
type Model interface {
	ID() string
	Sequence() int
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
}

// Repository stores one kind of [Model]. Delete is a soft delete; List hides
// deleted rows and understands repository-specific criteria keys such as
// "status", "source" and "limit".
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
