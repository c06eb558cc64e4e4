package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Processor runs one line of input for an actor already in the world.
type Processor interface {
	Process(ctx context.Context, actorID, text string) string
}

type commandRequest struct {
	Actor string `json:"actor"`
	Text  string `json:"text"`
}

type commandResponse struct {
	Output string `json:"output"`
}

// HttpListener answers POST /command with the output of a single command.
type HttpListener struct {
	port uint16
	cmds Processor
}

func NewHttpListener(port uint16, cmds Processor) *HttpListener {
	return &HttpListener{
		port: port,
		cmds: cmds,
	}
}

func (l *HttpListener) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "listening for http", "port", l.port)
	return serveHTTP(ctx, l.port, l.handler())
}

func (l *HttpListener) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /command", l.command)
	return mux
}

func (l *HttpListener) command(rw http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(http.MaxBytesReader(rw, r.Body, 4096)).Decode(&req); err != nil {
		http.Error(rw, "malformed request", http.StatusBadRequest)
		return
	}
	if req.Actor == "" {
		http.Error(rw, "actor is required", http.StatusBadRequest)
		return
	}

	out := l.cmds.Process(r.Context(), req.Actor, req.Text)

	rw.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(commandResponse{Output: out}); err != nil {
		slog.WarnContext(r.Context(), "writing command response", "error", err)
	}
}

// serveHTTP serves h on port until ctx is done.
func serveHTTP(ctx context.Context, port uint16, h http.Handler) error {
	svr := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", port, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- svr.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving on port %d: %w", port, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := svr.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutting down port %d: %w", port, err)
	}
	return nil
}
