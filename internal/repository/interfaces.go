package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/strive/internal/domain"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

// CredentialsRepo stores the bearer token used against the generation
// backend. The Token method satisfies backend.TokenSource.
type CredentialsRepo interface {
	SaveToken(ctx context.Context, token string) error
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// TranscriptRepo keeps the local mirror of the wizard conversation.
type TranscriptRepo interface {
	Append(ctx context.Context, m *domain.Message) error
	List(ctx context.Context) ([]*domain.Message, error)
	Clear(ctx context.Context) error
}
