package listener

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/pixil98/go-aeternus/internal/player"
)

// SessionHandler runs one connected player until the connection ends.
type SessionHandler interface {
	Handle(ctx context.Context, rw io.ReadWriter) error
}

type ConnectionManager struct {
	sh SessionHandler
}

func NewConnectionManager(sh SessionHandler) *ConnectionManager {
	return &ConnectionManager{
		sh: sh,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	err := m.sh.Handle(ctx, conn)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, player.ErrAlreadyPlaying), errors.Is(err, player.ErrTooManyTries), errors.Is(err, player.ErrShuttingDown):
		slog.InfoContext(ctx, "player session refused", "error", err)
	default:
		slog.WarnContext(ctx, "player session", "error", err)
	}
}
