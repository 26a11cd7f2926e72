package telemetry

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/eliseohh/splitonbot/internal/logctx"
	"github.com/eliseohh/splitonbot/internal/reply"
)

type captureSink struct {
	records []reply.Record
}

func (c *captureSink) Emit(r reply.Record) { c.records = append(c.records, r) }

type panicSink struct{}

func (panicSink) Emit(reply.Record) { panic("boom") }

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Logger: logctx.NewLogger(&buf, "info", "text")}

	sink.Emit(reply.Record{Event: "start", UserID: 42, DisplayName: "Ana"})

	out := buf.String()
	assert.Contains(t, out, "Usuário Ana (42) executou /start")
	assert.Contains(t, out, "user_id=42")
}

func TestMulti(t *testing.T) {
	a, b := &captureSink{}, &captureSink{}
	m := Multi{a, panicSink{}, nil, b}

	require.NotPanics(t, func() {
		m.Emit(reply.Record{Event: "start", UserID: 1})
	})
	assert.Len(t, a.records, 1)
	assert.Len(t, b.records, 1)
}

func TestRecorder(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "audit.db")
	rec, err := Open(context.Background(), path)
	require.NoError(t, err)

	rec.Emit(reply.Record{Event: "start", UserID: 42, DisplayName: "Ana", At: time.Now()})
	rec.Emit(reply.Record{Event: "start", UserID: 7, DisplayName: "Bruno"})
	rec.Emit(reply.Record{Event: "other", UserID: 7, DisplayName: "Bruno"})

	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close(), "second close is a no-op")

	rec.Emit(reply.Record{Event: "start"})
	assert.Equal(t, int64(1), rec.Dropped())

	db, err := NewDB(path)
	require.NoError(t, err)
	defer db.Close()

	n, err := db.Count("start")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = db.Count("other")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecorderDropsWhenFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "audit.db")
	rec, err := Open(context.Background(), path)
	require.NoError(t, err)

	for i := 0; i < queueSize*8; i++ {
		rec.Emit(reply.Record{Event: "start", UserID: int64(i)})
	}
	require.NoError(t, rec.Close())

	db, err := NewDB(path)
	require.NoError(t, err)
	defer db.Close()

	n, err := db.Count("start")
	require.NoError(t, err)
	assert.Equal(t, int64(queueSize*8), int64(n)+rec.Dropped())
}

func TestOpenBadPath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "audit.db"))
	require.Error(t, err)
}
