package shared

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot provides common fields for aggregate roots.
// Version backs optimistic locking: writers update with an
// "id = ? AND version = ?" predicate and treat zero affected rows
// as a concurrency conflict.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}
