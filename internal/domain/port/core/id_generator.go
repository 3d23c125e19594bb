package core

// IDGenerator assigns opaque identifiers to new entities
type IDGenerator interface {
	NewID() string
}
