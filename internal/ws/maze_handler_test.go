package ws

import (
	"strings"
	"testing"
	"time"

	"github.com/tiltmaze/backend/internal/game"
)

func TestTickLoopStopsWhenReleased(t *testing.T) {
	// Replacing or unregistering a client closes done; the tick loop must
	// exit promptly instead of idling on the ticker.
	s := game.NewMazeSession("run_ws_a", "tok_a", "pt_a", 1, "Tester", time.Minute)
	c := &Client{
		sessionID: "run_ws_a",
		send:      make(chan []byte, 4),
		done:      make(chan struct{}),
	}

	finished := make(chan struct{})
	go func() {
		c.tickLoop(s)
		close(finished)
	}()

	close(c.done)

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("tick loop still running after done closed")
	}
}

func TestTickLoopPushesFramesWhileRunning(t *testing.T) {
	s := game.NewMazeSession("run_ws_b", "tok_b", "pt_b", 2, "Tester", time.Minute)
	s.SetConnected(true)
	if err := s.StartRun(); err != nil {
		t.Fatal(err)
	}

	c := &Client{
		sessionID: "run_ws_b",
		send:      make(chan []byte, 16),
		done:      make(chan struct{}),
	}
	go c.tickLoop(s)
	defer close(c.done)

	select {
	case msg := <-c.send:
		if !strings.Contains(string(msg), `"frame"`) {
			t.Errorf("unexpected message: %s", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame pushed for a running session")
	}
}
