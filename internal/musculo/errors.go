package musculo

import "errors"

var (
	// ErrNotFound indicates a name that does not resolve in the host.
	ErrNotFound = errors.New("musculo: not found")

	// ErrWrongKind indicates a name that resolves to an entity without the
	// required capability, e.g. a force subsystem that is not made of muscles.
	ErrWrongKind = errors.New("musculo: wrong entity kind")

	// ErrEmptyName indicates a required name was not configured.
	ErrEmptyName = errors.New("musculo: empty name")

	// ErrDuplicate indicates an entity name registered twice.
	ErrDuplicate = errors.New("musculo: duplicate name")
)
