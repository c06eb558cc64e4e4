package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/pixil98/go-aeternus/internal/vnum"
	"github.com/pixil98/go-testutil"
)

func TestNatsServer_NotStarted(t *testing.T) {
	s, err := NewNatsServer(WithPort(-1))
	testutil.AssertEqual(t, "err", err, nil)

	err = s.Publish("room.100001", nil)
	testutil.AssertErrorContains(t, err, "not started")

	_, err = s.Subscribe("room.>", func(string, []byte) {})
	testutil.AssertErrorContains(t, err, "not started")
}

func TestNatsServer_Name(t *testing.T) {
	tests := map[string]struct {
		opts []NatsServerOpt
		exp  string
	}{
		"default":   {exp: "aeternus"},
		"per world": {opts: []NatsServerOpt{WithName("aeternus-east")}, exp: "aeternus-east"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := NewNatsServer(append(tt.opts, WithPort(-1))...)
			testutil.AssertEqual(t, "err", err, nil)
			testutil.AssertEqual(t, "name", s.ns.Name(), tt.exp)
		})
	}
}

func TestNatsServer_RoomBroadcast(t *testing.T) {
	s, err := NewNatsServer(WithPort(-1), WithStartTimeout(5*time.Second))
	testutil.AssertEqual(t, "err", err, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer waitCancel()
	testutil.AssertEqual(t, "ready", s.WaitReady(waitCtx), nil)

	got := make(chan RoomMessage, 1)
	unsub, err := s.Subscribe(RoomSubjects, func(_ string, data []byte) {
		if m, err := DecodeRoomMessage(data); err == nil {
			got <- m
		}
	})
	testutil.AssertEqual(t, "subscribe err", err, nil)
	defer unsub()
	testutil.AssertEqual(t, "flush", s.Flush(), nil)

	room := vnum.MustNew(1, 2)
	NewRoomPublisher(s).Broadcast(ctx, room, "The wind howls.")

	select {
	case m := <-got:
		testutil.AssertEqual(t, "room", m.Room, room)
		testutil.AssertEqual(t, "text", m.Text, "The wind howls.")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for room message")
	}
}
