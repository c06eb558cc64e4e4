package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/messaging"
	"github.com/pixil98/go-aeternus/internal/storage"
	"github.com/pixil98/go-aeternus/internal/vnum"
)

var (
	// ErrAlreadyPlaying is returned when a character is already connected.
	ErrAlreadyPlaying = errors.New("character is already playing")
	// ErrShuttingDown is returned for connections that arrive after Start
	// has begun draining sessions.
	ErrShuttingDown = errors.New("player manager is shutting down")
)

// Processor runs one line of player input.
type Processor interface {
	Process(ctx context.Context, actorID, text string) string
}

// Subscriber delivers published messages to a handler.
type Subscriber interface {
	Subscribe(subject string, handler func(subject string, data []byte)) (func(), error)
}

type ManagerOpt func(*Manager)

// WithStartRoom sets where new characters begin.
func WithStartRoom(v vnum.VNum) ManagerOpt {
	return func(m *Manager) {
		m.login.startRoom = v
	}
}

// WithSubscriber lets sessions receive room messages.
func WithSubscriber(s Subscriber) ManagerOpt {
	return func(m *Manager) {
		m.sub = s
	}
}

// WithGreeting sets the banner shown on connect.
func WithGreeting(s string) ManagerOpt {
	return func(m *Manager) {
		m.greeting = s
	}
}

// Manager logs connections in and runs their sessions.
type Manager struct {
	world    *game.World
	cmds     Processor
	records  storage.Storer[*game.CharacterRecord]
	sub      Subscriber
	login    *loginFlow
	greeting string

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
	wg       sync.WaitGroup
}

func NewManager(world *game.World, cmds Processor, records storage.Storer[*game.CharacterRecord], opts ...ManagerOpt) *Manager {
	m := &Manager{
		world:    world,
		cmds:     cmds,
		records:  records,
		login:    &loginFlow{records: records, startRoom: world.FallbackRoom()},
		greeting: "Welcome to Aeternus!",
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start waits for ctx to end and then for every session to save and leave.
func (m *Manager) Start(ctx context.Context) error {
	<-ctx.Done()

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.wg.Wait()
	return nil
}

// Handle runs a connection from login to disconnect.
func (m *Manager) Handle(ctx context.Context, rw io.ReadWriter) error {
	c := NewConn(rw)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		_ = c.WriteLine("The world is closing. Come back soon.")
		return ErrShuttingDown
	}
	m.wg.Add(1)
	m.mu.Unlock()
	defer m.wg.Done()

	if err := c.WriteLine(m.greeting); err != nil {
		return err
	}

	id, rec, err := m.login.Run(c)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	s, err := m.join(ctx, id, rec, c)
	if err != nil {
		if errors.Is(err, ErrAlreadyPlaying) {
			_ = c.WriteLine("You are already playing.")
		}
		return err
	}
	defer m.leave(ctx, s)

	slog.InfoContext(ctx, "player connected", "player", id)
	return s.Play(ctx)
}

func (m *Manager) join(ctx context.Context, id string, rec *game.CharacterRecord, c *Conn) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; ok {
		return nil, fmt.Errorf("joining %q: %w", id, ErrAlreadyPlaying)
	}

	ch := m.world.Catalog().NewCharacter(id, rec)
	if err := m.world.AddPlayer(ctx, ch); err != nil {
		return nil, fmt.Errorf("adding %q to world: %w", id, err)
	}

	s := newSession(id, c, m.world, m.cmds)
	if m.sub != nil {
		unsub, err := m.sub.Subscribe(messaging.RoomSubjects, s.deliver)
		if err != nil {
			slog.WarnContext(ctx, "subscribing to room messages", "player", id, "error", err)
		} else {
			s.unsub = unsub
		}
	}
	m.sessions[id] = s
	return s, nil
}

func (m *Manager) leave(ctx context.Context, s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.id)
	m.mu.Unlock()

	if s.unsub != nil {
		s.unsub()
	}

	rec := m.world.RemovePlayer(ctx, s.id)
	if rec == nil {
		return
	}
	if err := m.records.Save(s.id, rec); err != nil {
		slog.ErrorContext(ctx, "saving character", "player", s.id, "error", err)
	}
	slog.InfoContext(ctx, "player disconnected", "player", s.id)
}

// Online returns the number of connected sessions.
func (m *Manager) Online() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
