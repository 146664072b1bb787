package library

import (
	"errors"
	"fmt"
)

// ValidationError reports a rejected save selection: wrong count or missing
// marker attribute. Surfaced immediately; nothing was written.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// StructuralError reports a malformed saved asset: the expected root node was
// not found after import. Fatal to the load; the scene is left partially
// imported.
type StructuralError struct {
	ItemPath string
	Missing  string
}

func (e StructuralError) Error() string {
	return fmt.Sprintf("could not find the %s in %s", e.Missing, e.ItemPath)
}

// UnknownItemError reports a library path whose extension matches no
// registered item type.
type UnknownItemError struct {
	Path string
}

func (e UnknownItemError) Error() string {
	return fmt.Sprintf("no registered item type for path %q", e.Path)
}

// ItemNotFoundError reports a library path with no catalog record.
type ItemNotFoundError struct {
	Path string
}

func (e ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %q is not in the library catalog", e.Path)
}
