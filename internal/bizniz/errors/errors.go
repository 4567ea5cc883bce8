// Package errors defines the sentinel errors shared by the store, service and
// transport layers. Callers wrap them with fmt.Errorf("%w: ...") to add detail.
package errors

import (
	"fmt"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrConflict     = fmt.Errorf("conflict")
)
