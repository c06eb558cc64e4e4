package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/iammegalith/telnet"
)

// fullMessage is sent to telnet clients turned away at capacity.
const fullMessage = "Aeternus is full right now. Please try again later.\r\n"

type TelnetOpt func(*TelnetListener)

// WithTelnetHost binds the listener to one interface instead of all of them.
func WithTelnetHost(host string) TelnetOpt {
	return func(l *TelnetListener) {
		l.host = host
	}
}

// WithTelnetCapacity caps concurrent telnet sessions. Zero means no cap.
func WithTelnetCapacity(n int) TelnetOpt {
	return func(l *TelnetListener) {
		l.capacity = n
	}
}

// TelnetListener accepts plain telnet players.
type TelnetListener struct {
	host     string
	port     uint16
	capacity int
	cm       *ConnectionManager
}

func NewTelnetListener(port uint16, cm *ConnectionManager, opts ...TelnetOpt) *TelnetListener {
	l := &TelnetListener{
		port: port,
		cm:   cm,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *TelnetListener) addr() string {
	return net.JoinHostPort(l.host, strconv.Itoa(int(l.port)))
}

func (l *TelnetListener) Start(ctx context.Context) error {
	sessions := newTelnetSessions(ctx, l.cm.AcceptConnection, l.capacity)
	svr := telnet.NewServer(l.addr(), sessions)

	stop := context.AfterFunc(ctx, func() {
		svr.Stop()
		sessions.drain()
	})
	defer stop()

	slog.InfoContext(ctx, "listening for telnet", "addr", l.addr(), "capacity", l.capacity)

	err := svr.ListenAndServe()
	if errors.Is(err, syscall.EADDRINUSE) {
		return fmt.Errorf("telnet address %s is taken by another process", l.addr())
	}
	if err != nil {
		return fmt.Errorf("serving telnet on %s: %w", l.addr(), err)
	}
	return nil
}

// telnetSessions runs every accepted telnet connection under one context so
// shutdown can end them together.
type telnetSessions struct {
	accept   func(context.Context, io.ReadWriter)
	capacity int
	active   atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newTelnetSessions(ctx context.Context, accept func(context.Context, io.ReadWriter), capacity int) *telnetSessions {
	sessCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	return &telnetSessions{
		accept:   accept,
		capacity: capacity,
		ctx:      sessCtx,
		cancel:   cancel,
	}
}

func (s *telnetSessions) HandleTelnet(conn *telnet.Connection) {
	s.serve(conn)
}

func (s *telnetSessions) serve(conn io.ReadWriteCloser) {
	s.wg.Add(1)
	defer s.wg.Done()
	defer func() {
		if err := conn.Close(); err != nil {
			slog.ErrorContext(s.ctx, "closing telnet connection", "error", err)
		}
	}()

	active := s.active.Add(1)
	defer s.active.Add(-1)
	if s.capacity > 0 && int(active) > s.capacity {
		slog.WarnContext(s.ctx, "telnet connection refused at capacity", "capacity", s.capacity)
		_, _ = io.WriteString(conn, fullMessage)
		return
	}

	s.accept(s.ctx, conn)
}

// drain cancels running sessions and waits for them to finish.
func (s *telnetSessions) drain() {
	s.cancel()
	s.wg.Wait()
}
