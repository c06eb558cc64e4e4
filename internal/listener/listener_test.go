package listener

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-testutil"
)

// echoSession answers one line and ends the session.
type echoSession struct{}

func (echoSession) Handle(_ context.Context, rw io.ReadWriter) error {
	line, err := bufio.NewReader(rw).ReadString('\n')
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(rw, "you said %s", line)
	return err
}

type echoProcessor struct{}

func (echoProcessor) Process(_ context.Context, actorID, text string) string {
	return actorID + ": " + text
}

type pipeConn struct {
	io.Reader
	io.Writer
}

// chunkReader returns one chunk per Read.
type chunkReader struct {
	chunks []string
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks = r.chunks[1:]
	return n, nil
}

func TestLineConn_Read(t *testing.T) {
	tests := map[string]struct {
		chunks []string
		exp    string
	}{
		"crlf":              {chunks: []string{"look\r\n"}, exp: "look\n"},
		"bare cr":           {chunks: []string{"look\r"}, exp: "look\n"},
		"cr nul":            {chunks: []string{"look\r\x00"}, exp: "look\n"},
		"lf":                {chunks: []string{"look\n"}, exp: "look\n"},
		"mixed":             {chunks: []string{"n\r\ns\re\n"}, exp: "n\ns\ne\n"},
		"crlf split":        {chunks: []string{"north\r", "\nsouth\r\n"}, exp: "north\nsouth\n"},
		"blank lines count": {chunks: []string{"\r\n\r\n"}, exp: "\n\n"},
		"stray nul":         {chunks: []string{"lo\x00ok\n"}, exp: "look\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rw := newLineConn(pipeConn{&chunkReader{chunks: tt.chunks}, io.Discard})

			got, err := io.ReadAll(rw)
			testutil.AssertEqual(t, "err", err, nil)
			testutil.AssertEqual(t, "read", string(got), tt.exp)
		})
	}
}

func TestLineConn_Write(t *testing.T) {
	tests := map[string]struct {
		input string
		exp   string
	}{
		"lf":           {input: "one\ntwo\n", exp: "one\r\ntwo\r\n"},
		"already crlf": {input: "one\r\n", exp: "one\r\n"},
		"no newline":   {input: "> ", exp: "> "},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			rw := newLineConn(pipeConn{strings.NewReader(""), &out})

			n, err := io.WriteString(rw, tt.input)
			testutil.AssertEqual(t, "err", err, nil)
			testutil.AssertEqual(t, "n", n, len(tt.input))
			testutil.AssertEqual(t, "written", out.String(), tt.exp)
		})
	}
}

type closingConn struct {
	bytes.Buffer
	closed bool
}

func (c *closingConn) Close() error {
	c.closed = true
	return nil
}

func TestTelnetSessions_Capacity(t *testing.T) {
	tests := map[string]struct {
		capacity int
		busy     int
		expOut   string
		expRuns  int
	}{
		"no cap":      {capacity: 0, busy: 5, expOut: "welcome\n", expRuns: 1},
		"room left":   {capacity: 2, busy: 1, expOut: "welcome\n", expRuns: 1},
		"at capacity": {capacity: 2, busy: 2, expOut: fullMessage, expRuns: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			runs := 0
			s := newTelnetSessions(context.Background(), func(_ context.Context, rw io.ReadWriter) {
				runs++
				_, _ = io.WriteString(rw, "welcome\n")
			}, tt.capacity)
			s.active.Store(int32(tt.busy))

			conn := &closingConn{}
			s.serve(conn)

			testutil.AssertEqual(t, "output", conn.String(), tt.expOut)
			testutil.AssertEqual(t, "runs", runs, tt.expRuns)
			testutil.AssertEqual(t, "closed", conn.closed, true)
			testutil.AssertEqual(t, "active restored", int(s.active.Load()), tt.busy)
		})
	}
}

func TestTelnetListener_Addr(t *testing.T) {
	l := NewTelnetListener(4000, nil, WithTelnetHost("127.0.0.1"), WithTelnetCapacity(10))
	testutil.AssertEqual(t, "addr", l.addr(), "127.0.0.1:4000")
	testutil.AssertEqual(t, "capacity", l.capacity, 10)
	testutil.AssertEqual(t, "all interfaces", NewTelnetListener(23, nil).addr(), ":23")
}

func TestWebsocketListener(t *testing.T) {
	l := NewWebsocketListener(0, NewConnectionManager(echoSession{}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svr := httptest.NewServer(l.handler(ctx))
	defer svr.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(svr.URL, "http"), nil)
	testutil.AssertEqual(t, "dial err", err, nil)
	defer conn.Close()

	err = conn.WriteMessage(websocket.TextMessage, []byte("hello\r\n"))
	testutil.AssertEqual(t, "write err", err, nil)

	_, msg, err := conn.ReadMessage()
	testutil.AssertEqual(t, "read err", err, nil)
	testutil.AssertEqual(t, "reply", string(msg), "you said hello\n")

	_, _, err = conn.ReadMessage()
	testutil.AssertEqual(t, "closed", websocket.IsCloseError(err, websocket.CloseNormalClosure), true)
}

func TestHttpListener_Command(t *testing.T) {
	tests := map[string]struct {
		method    string
		body      string
		expStatus int
		expBody   string
	}{
		"runs command": {
			method:    http.MethodPost,
			body:      `{"actor":"alice","text":"look"}`,
			expStatus: http.StatusOK,
			expBody:   `{"output":"alice: look"}` + "\n",
		},
		"malformed body": {
			method:    http.MethodPost,
			body:      `{"actor":`,
			expStatus: http.StatusBadRequest,
			expBody:   "malformed request\n",
		},
		"missing actor": {
			method:    http.MethodPost,
			body:      `{"text":"look"}`,
			expStatus: http.StatusBadRequest,
			expBody:   "actor is required\n",
		},
		"wrong method": {
			method:    http.MethodGet,
			expStatus: http.StatusMethodNotAllowed,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			l := NewHttpListener(0, echoProcessor{})

			req := httptest.NewRequest(tt.method, "/command", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			l.handler().ServeHTTP(rec, req)

			testutil.AssertEqual(t, "status", rec.Code, tt.expStatus)
			if tt.expBody != "" {
				testutil.AssertEqual(t, "body", rec.Body.String(), tt.expBody)
			}
		})
	}
}
