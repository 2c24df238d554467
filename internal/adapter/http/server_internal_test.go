package http

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type readyStub struct{}

func (readyStub) CheckReadiness(context.Context) error { return nil }

func TestNewServer_WriteTimeout(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(":0", 150*time.Second, NewAPI(APIOptions{}, logger), readyStub{}, logger)

	assert.Equal(t, 150*time.Second, srv.httpServer.WriteTimeout)
	assert.Equal(t, 10*time.Second, srv.httpServer.ReadTimeout)
}
