package listener

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WebsocketListener carries a line session over websocket text frames.
// Each inbound frame is one line.
type WebsocketListener struct {
	port     uint16
	cm       *ConnectionManager
	upgrader websocket.Upgrader
}

func NewWebsocketListener(port uint16, cm *ConnectionManager) *WebsocketListener {
	return &WebsocketListener{
		port: port,
		cm:   cm,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	connCtx, cancelConns := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelConns()

	slog.InfoContext(ctx, "listening for websocket", "port", l.port)
	return serveHTTP(ctx, l.port, l.handler(connCtx))
}

func (l *WebsocketListener) handler(ctx context.Context) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := l.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			slog.WarnContext(ctx, "websocket upgrade", "remote", r.RemoteAddr, "error", err)
			return
		}
		defer conn.Close()

		slog.InfoContext(ctx, "websocket connection established", "remote", r.RemoteAddr)

		// Session goroutines outlive a hijacked request, so shutdown closes
		// the socket to unblock reads.
		go func() {
			<-ctx.Done()
			conn.Close()
		}()

		l.cm.AcceptConnection(ctx, newWSReadWriter(conn))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}

// wsReadWriter adapts a websocket to a byte stream.
type wsReadWriter struct {
	conn *websocket.Conn
	buf  []byte

	wmu sync.Mutex
}

func newWSReadWriter(conn *websocket.Conn) io.ReadWriter {
	return &wsReadWriter{conn: conn}
}

func (w *wsReadWriter) Read(p []byte) (int, error) {
	for len(w.buf) == 0 {
		typ, msg, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		if typ != websocket.TextMessage {
			continue
		}
		w.buf = append(bytes.TrimRight(msg, "\r\n"), '\n')
	}

	n := copy(p, w.buf)
	w.buf = w.buf[n:]
	return n, nil
}

func (w *wsReadWriter) Write(p []byte) (int, error) {
	w.wmu.Lock()
	defer w.wmu.Unlock()

	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}
