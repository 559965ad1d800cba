package navigator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingScreens struct {
	mu    sync.Mutex
	shown []int64
}

func (s *recordingScreens) ShowLogin(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = append(s.shown, chatID)
	return nil
}

func (s *recordingScreens) snapshot() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.shown...)
}

func TestNavigator_OneLoginPerSignal(t *testing.T) {
	screens := &recordingScreens{}
	nav := New(8)
	nav.SetScreens(screens)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		nav.Run(ctx)
		close(done)
	}()

	nav.Unauthenticated(1)
	nav.Unauthenticated(2)
	nav.Unauthenticated(1)

	assert.Eventually(t, func() bool { return len(screens.snapshot()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int64{1, 2, 1}, screens.snapshot())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("navigator did not stop")
	}
}

func TestNavigator_FullBufferDoesNotBlock(t *testing.T) {
	nav := New(1)

	finished := make(chan struct{})
	go func() {
		nav.Unauthenticated(1)
		nav.Unauthenticated(2)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Unauthenticated blocked")
	}
	assert.Len(t, nav.events, 1)
}
