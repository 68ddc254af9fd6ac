package catalog

import "errors"

// ErrCardNotFound is returned when the catalog has no card for the given
// id or name.
var ErrCardNotFound = errors.New("catalog: card not found")
