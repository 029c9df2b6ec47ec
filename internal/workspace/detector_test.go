package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/juansaizh/quickscene/internal/host/memhost"
)

func TestDetectorRunPollsUntilCancelled(t *testing.T) {
	f := newFixture(t, &fakePrompter{}, Options{})
	d := NewDetector(f.mgr, 10*time.Millisecond)

	f.host.SetDirty(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return f.mgr.Snapshot()[0].Dirty
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("detector did not stop")
	}
}

func TestNewDetectorDefaultInterval(t *testing.T) {
	d := NewDetector(New(memhost.New(), nil, Options{}), 0)
	assert.Equal(t, 500*time.Millisecond, d.interval)
}
