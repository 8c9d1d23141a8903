package should

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errCloseFailed = errors.New("close failed")

type stubCloser struct {
	err    error
	closed bool
}

func (s *stubCloser) Close() error {
	s.closed = true

	return s.err
}

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	orig := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	t.Cleanup(func() { slog.SetDefault(orig) })

	return &buf
}

func TestClose_Success(t *testing.T) { //nolint:paralleltest
	buf := captureDefault(t)
	closer := &stubCloser{}

	Close(closer, "failed to release result handle")

	assert.True(t, closer.closed)
	assert.Empty(t, buf.String())
}

func TestClose_LogsFailure(t *testing.T) { //nolint:paralleltest
	buf := captureDefault(t)
	closer := &stubCloser{err: errCloseFailed}

	Close(closer, "failed to release result handle")

	assert.True(t, closer.closed)
	assert.Contains(t, buf.String(), "failed to release result handle")
	assert.Contains(t, buf.String(), "close failed")
}
