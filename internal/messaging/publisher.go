package messaging

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-aeternus/internal/vnum"
	"github.com/vmihailenco/msgpack"
)

// RoomSubjects matches every room subject.
const RoomSubjects = "room.>"

// RoomSubject is the subject messages for room are published on.
func RoomSubject(room vnum.VNum) string {
	return fmt.Sprintf("room.%d", room)
}

// RoomMessage is text shown to everyone in a room.
type RoomMessage struct {
	Room vnum.VNum `json:"room"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

func EncodeRoomMessage(m RoomMessage) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseJSONTag(true)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding room message: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeRoomMessage(data []byte) (RoomMessage, error) {
	var m RoomMessage
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseJSONTag(true)
	if err := dec.Decode(&m); err != nil {
		return RoomMessage{}, fmt.Errorf("decoding room message: %w", err)
	}
	return m, nil
}

type publisher interface {
	Publish(subject string, data []byte) error
}

// RoomPublisher broadcasts room text over NATS.
type RoomPublisher struct {
	pub publisher
	now func() time.Time
}

func NewRoomPublisher(pub publisher) *RoomPublisher {
	return &RoomPublisher{pub: pub, now: time.Now}
}

func (p *RoomPublisher) Broadcast(ctx context.Context, room vnum.VNum, text string) {
	data, err := EncodeRoomMessage(RoomMessage{Room: room, Text: text, At: p.now()})
	if err == nil {
		err = p.pub.Publish(RoomSubject(room), data)
	}
	if err != nil {
		slog.WarnContext(ctx, "broadcasting room message", "room", room, "error", err)
	}
}
