package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/erp/storefront/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"liveness ignores the database", "/health", errors.New("down"), http.StatusOK},
		{"ready", "/ready", nil, http.StatusOK},
		{"not ready", "/ready", errors.New("connection refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			NewHealthHandler(stubPinger{err: tt.err}).Register(engine)

			w := testutil.Request(t, engine, http.MethodGet, tt.path, nil, "")
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
