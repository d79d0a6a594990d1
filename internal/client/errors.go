package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind is the outcome label reported for a failed asset request.
type ErrorKind string

const (
	KindMissing    ErrorKind = "missing" // 404 or 410, the file is not part of the tree
	KindRefused    ErrorKind = "refused" // 401, 403 or 429 from the asset host
	KindServer     ErrorKind = "server"  // 5xx
	KindTimeout    ErrorKind = "timeout"
	KindConnection ErrorKind = "connection"
	KindOther      ErrorKind = "other"
)

// AssetError describes a failed request for one asset path.
type AssetError struct {
	Kind   ErrorKind
	Path   string
	Status int // 0 when no response was received
	Err    error
}

func (e *AssetError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("asset %s: %s (http %d)", e.Path, e.Kind, e.Status)
	}
	return fmt.Sprintf("asset %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the asset does not exist.
func IsNotFound(err error) bool {
	return ErrorType(err) == KindMissing
}

// ErrorType returns the kind of a failed asset request, KindOther for foreign errors.
func ErrorType(err error) ErrorKind {
	var assetErr *AssetError
	if errors.As(err, &assetErr) {
		return assetErr.Kind
	}
	return KindOther
}

func newAssetError(path string, err error, status int) *AssetError {
	return &AssetError{
		Kind:   kindOf(err, status),
		Path:   path,
		Status: status,
		Err:    err,
	}
}

func kindOf(err error, status int) ErrorKind {
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return KindMissing
	case status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusTooManyRequests:
		return KindRefused
	case status >= http.StatusInternalServerError:
		return KindServer
	case status != 0:
		return KindOther
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}
	return KindOther
}
