package scenegraph

import (
	"errors"
	"fmt"
)

// ErrReadOnly is returned when renaming a reference-embedded node.
var ErrReadOnly = errors.New("scenegraph: node is read-only")

// ErrLocked is returned when mutating a locked node.
var ErrLocked = errors.New("scenegraph: node is locked")

// NotFoundError reports a missing node, namespace, or attribute.
type NotFoundError struct {
	Kind string // "node", "namespace", "attribute", "reference"
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// IsNotFound reports whether err is a NotFoundError of any kind.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// AlreadyExistsError reports a name collision on node or namespace creation.
type AlreadyExistsError struct {
	Kind string
	Name string
}

func (e AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Name)
}
