package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Record writes an audit entry for the acting owner. Failures are the
	// caller's to ignore; auditing never blocks the mutation it describes.
	Record(ctx context.Context, action, targetType, targetID string, metadata map[string]any) error
}

var (
	ErrInvalidOwner  = errors.New("invalid_owner")
	ErrInvalidAction = errors.New("invalid_action")
)
