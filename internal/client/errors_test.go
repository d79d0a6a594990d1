package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAssetErrorKind(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		expected   ErrorKind
	}{
		{name: "context timeout", err: context.DeadlineExceeded, expected: KindTimeout},
		{name: "net timeout", err: &net.DNSError{IsTimeout: true}, expected: KindTimeout},
		{name: "connection", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, expected: KindConnection},
		{name: "not found", statusCode: http.StatusNotFound, expected: KindMissing},
		{name: "gone", statusCode: http.StatusGone, expected: KindMissing},
		{name: "unauthorized", statusCode: http.StatusUnauthorized, expected: KindRefused},
		{name: "forbidden", statusCode: http.StatusForbidden, expected: KindRefused},
		{name: "rate limited", statusCode: http.StatusTooManyRequests, expected: KindRefused},
		{name: "server error", statusCode: http.StatusBadGateway, expected: KindServer},
		{name: "bad request", statusCode: http.StatusBadRequest, expected: KindOther},
		{name: "other", err: errors.New("some other error"), expected: KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newAssetError("shoes/1/name.txt", tt.err, tt.statusCode)
			assert.Equal(t, tt.expected, ErrorType(err))
			assert.Equal(t, tt.expected == KindMissing, IsNotFound(err))
		})
	}
}

func TestAssetErrorWrapping(t *testing.T) {
	cause := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	err := fmt.Errorf("load manifest: %w", newAssetError("categories.txt", cause, 0))

	var opErr *net.OpError
	assert.True(t, errors.As(err, &opErr))
	assert.Equal(t, KindConnection, ErrorType(err))
	assert.Contains(t, err.Error(), "categories.txt")

	assert.Equal(t, KindOther, ErrorType(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
	assert.Equal(t, "asset shoes/1/name.txt: missing (http 404)", newAssetError("shoes/1/name.txt", nil, http.StatusNotFound).Error())
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncRequest("text", "ok")
		m.ObserveDuration(time.Second)
		m.IncProduct("found")
		m.IncCache("hit")
	})
}
