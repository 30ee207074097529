package idgen

import "github.com/google/uuid"

// NewFunc generates identifiers; tests replace it for deterministic ids.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier.
func New() string { return NewFunc() }
