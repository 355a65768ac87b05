package core

// EntityKey identifies one observed entity: an experiment arm, variant,
// or cohort. Typed so observation plumbing cannot silently swap an entity
// name for an arbitrary string.
type EntityKey string

// String returns the string representation
func (k EntityKey) String() string { return string(k) }

// IsEmpty checks if the key is empty
func (k EntityKey) IsEmpty() bool { return k == "" }
