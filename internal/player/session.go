package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/messaging"
)

const messageBuffer = 32

// Session is one connected character.
type Session struct {
	id    string
	conn  *Conn
	world *game.World
	cmds  Processor
	unsub func()

	msgs chan string
}

func newSession(id string, conn *Conn, world *game.World, cmds Processor) *Session {
	return &Session{
		id:    id,
		conn:  conn,
		world: world,
		cmds:  cmds,
		msgs:  make(chan string, messageBuffer),
	}
}

// ID returns the character id (lowercase character name).
func (s *Session) ID() string {
	return s.id
}

// Play reads commands until the connection closes, the player quits or ctx
// ends.
func (s *Session) Play(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		for {
			line, err := s.conn.ReadLine()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Show the player their current room on login
	if err := s.respond(s.cmds.Process(ctx, s.id, "look")); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = s.conn.WriteLine("\nThe world fades away.")
			return nil

		case msg := <-s.msgs:
			if err := s.respond("\n" + msg); err != nil {
				return err
			}

		case line, ok := <-lines:
			if !ok {
				// Connection lost
				select {
				case err := <-readErr:
					return ignoreEOF(err)
				default:
					return nil
				}
			}

			line = strings.TrimSpace(line)
			if strings.EqualFold(line, "quit") {
				return s.conn.WriteLine("Goodbye!")
			}
			if err := s.respond(s.cmds.Process(ctx, s.id, line)); err != nil {
				return err
			}
		}
	}
}

// deliver queues a room message if the character is in that room. Messages
// are dropped when the player is not keeping up.
func (s *Session) deliver(_ string, data []byte) {
	m, err := messaging.DecodeRoomMessage(data)
	if err != nil {
		return
	}
	c := s.world.Player(s.id)
	if c == nil || c.Location() != m.Room {
		return
	}
	select {
	case s.msgs <- m.Text:
	default:
	}
}

func (s *Session) respond(out string) error {
	if out != "" {
		if err := s.conn.WriteLine(out); err != nil {
			return err
		}
	}
	return s.conn.Write(s.prompt())
}

func (s *Session) prompt() string {
	c := s.world.Player(s.id)
	if c == nil {
		return "> "
	}
	hp, maxHP := c.Health()
	return fmt.Sprintf("[%d/%dHP] > ", hp, maxHP)
}
