package sse

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_LazyHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.WriteKeepAlive())
	assert.False(t, w.Started())
	assert.Empty(t, rec.Body.String(), "keep-alive before the first event writes nothing")

	require.NoError(t, w.Data("Hel"))
	require.NoError(t, w.Data("lo\nworld"))
	require.NoError(t, w.WriteKeepAlive())
	require.NoError(t, w.Event("done", ""))

	assert.True(t, w.Started())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "data: Hel\n\ndata: lo\ndata: world\n\n: keepalive\n\nevent: done\ndata: \n\n", rec.Body.String())
}

type plainWriter struct{ http.ResponseWriter }

func TestNewWriter_RequiresFlusher(t *testing.T) {
	_, err := NewWriter(plainWriter{httptest.NewRecorder()})
	assert.ErrorIs(t, err, ErrStreamingUnsupported)
}

type countingWriter struct {
	calls atomic.Int32
	fail  bool
}

func (c *countingWriter) WriteKeepAlive() error {
	c.calls.Add(1)
	if c.fail {
		return errors.New("broken pipe")
	}
	return nil
}

func TestTickerKeepAlive(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("stops on request", func(t *testing.T) {
		k := NewTickerKeepAlive(5 * time.Millisecond)
		w := &countingWriter{}
		stopped := k.Start(w, logger)

		assert.Eventually(t, func() bool { return w.calls.Load() >= 2 }, time.Second, time.Millisecond)
		k.Stop()
		k.Stop()
		<-stopped
	})

	t.Run("stops on write failure", func(t *testing.T) {
		k := NewTickerKeepAlive(time.Millisecond)
		w := &countingWriter{fail: true}
		stopped := k.Start(w, logger)

		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("keep-alive did not stop after a failed write")
		}
		assert.EqualValues(t, 1, w.calls.Load())
	})
}
