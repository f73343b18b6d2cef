package errors

import (
	"fmt"
)

var (
	// ErrNotFound is returned by repository lookups when no entity matches.
	// Absence is an expected result, not a storage failure.
	ErrNotFound = fmt.Errorf("not found")
)
