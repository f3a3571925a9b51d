package idgen

import "github.com/google/uuid"

// NewFunc returns a new unique run id. Tests may replace it for stable ids.
var NewFunc = func() string { return uuid.New().String() }

func New() string { return NewFunc() }
