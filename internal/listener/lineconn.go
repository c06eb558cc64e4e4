package listener

import "io"

// lineConn adapts a terminal stream to the \n line endings sessions expect.
// Input lines may end in \r\n, \r\0 or a bare \r. Output gets \r\n.
type lineConn struct {
	rw io.ReadWriter
	// afterCR is set when the last byte read was \r, so a following \n or
	// \0 in the next read is part of the same line ending.
	afterCR bool
}

func newLineConn(rw io.ReadWriter) *lineConn {
	return &lineConn{rw: rw}
}

func (c *lineConn) Read(p []byte) (int, error) {
	for {
		n, err := c.rw.Read(p)
		out := p[:0]
		for _, b := range p[:n] {
			wasCR := c.afterCR
			c.afterCR = b == '\r'
			switch {
			case b == '\r':
				out = append(out, '\n')
			case wasCR && (b == '\n' || b == 0):
			case b == 0:
			default:
				out = append(out, b)
			}
		}
		if len(out) > 0 || n == 0 || err != nil {
			return len(out), err
		}
	}
}

func (c *lineConn) Write(p []byte) (int, error) {
	buf := make([]byte, 0, len(p)+len(p)/16)
	var prev byte
	for _, b := range p {
		if b == '\n' && prev != '\r' {
			buf = append(buf, '\r')
		}
		buf = append(buf, b)
		prev = b
	}
	if _, err := c.rw.Write(buf); err != nil {
		return 0, err
	}
	return len(p), nil
}
