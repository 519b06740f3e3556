package repository

import (
	"context"
	"errors"

	"hyperstream/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrStreamNotFound is returned when a stream is not found.
var ErrStreamNotFound = errors.New("stream not found")

// StreamRepository defines the operations for stream metadata persistence.
type StreamRepository interface {
	// FindByUserID retrieves the stream owned by the given user.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Stream, error)

	// Update modifies an existing stream record.
	Update(ctx context.Context, stream *entity.Stream) error
}
