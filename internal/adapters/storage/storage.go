// Package storage writes supporting documents under their logical names.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for names that could escape the store root
var ErrInvalidName = errors.New("invalid storage name")

// FileStore persists uploaded documents keyed by logical name
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) error
	Delete(ctx context.Context, name string) error
}

// checkName rejects anything that is not a single path element
func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return ErrInvalidName
	}
	return nil
}
