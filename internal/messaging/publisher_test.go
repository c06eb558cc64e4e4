package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-aeternus/internal/vnum"
	"github.com/pixil98/go-testutil"
)

type capture struct {
	subject string
	data    []byte
	err     error
}

func (c *capture) Publish(subject string, data []byte) error {
	c.subject = subject
	c.data = data
	return c.err
}

func TestRoomSubject(t *testing.T) {
	testutil.AssertEqual(t, "subject", RoomSubject(vnum.MustNew(2, 15)), "room.200015")
}

func TestRoomPublisher_Broadcast(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &capture{}
	p := NewRoomPublisher(c)
	p.now = func() time.Time { return at }

	room := vnum.MustNew(1, 1)
	p.Broadcast(context.Background(), room, "grey wolf is DEAD!")
	testutil.AssertEqual(t, "subject", c.subject, RoomSubject(room))

	msg, err := DecodeRoomMessage(c.data)
	testutil.AssertEqual(t, "err", err, nil)
	testutil.AssertEqual(t, "room", msg.Room, room)
	testutil.AssertEqual(t, "text", msg.Text, "grey wolf is DEAD!")
	testutil.AssertEqual(t, "at", msg.At.Equal(at), true)
}

func TestRoomPublisher_BroadcastError(t *testing.T) {
	c := &capture{err: errors.New("nats server not started")}
	p := NewRoomPublisher(c)

	// Failures are logged, never returned.
	p.Broadcast(context.Background(), vnum.MustNew(1, 1), "hello")
	testutil.AssertEqual(t, "published", len(c.data) > 0, true)
}

func TestDecodeRoomMessage_Garbage(t *testing.T) {
	_, err := DecodeRoomMessage([]byte{0xc1})
	testutil.AssertErrorContains(t, err, "decoding room message")
}
