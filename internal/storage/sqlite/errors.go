package sqlite

import "fmt"

// ReferentialIntegrityError indicates an insert referenced a parent row that
// does not exist. Nothing is written when it is returned.
type ReferentialIntegrityError struct {
	Entity string
	ID     int64
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Entity, e.ID)
}

// StorageAccessError indicates the underlying store could not be opened, read
// or written. It is fatal for the attempted operation.
type StorageAccessError struct {
	Op  string
	Err error
}

func (e *StorageAccessError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageAccessError) Unwrap() error { return e.Err }

func accessErr(op string, err error) error {
	return &StorageAccessError{Op: op, Err: err}
}
