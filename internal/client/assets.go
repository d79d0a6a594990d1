package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"showcase/catalog/internal/config"
	"showcase/catalog/internal/proxy"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// AssetClient reads files from the static asset tree.
type AssetClient interface {
	FetchText(ctx context.Context, path string) (string, error)
	Exists(ctx context.Context, path string) (bool, error)
	URL(path string) string
	Close() error
}

type assetClient struct {
	rl            ratelimit.Limiter
	config        config.AssetsConfig
	baseURL       string
	httpClient    *resty.Client
	proxySupplier proxy.ProxySupplier
	metrics       *Metrics
}

type options struct {
	transport http.RoundTripper
}

type Option func(*options)

// WithTransport replaces the HTTP transport, mostly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

func NewAssetClient(cfg config.AssetsConfig, proxySupplier proxy.ProxySupplier, metrics *Metrics, opts ...Option) AssetClient {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var client *resty.Client
	if o.transport != nil {
		client = resty.NewWithClient(&http.Client{Transport: o.transport})
	} else {
		client = resty.New()
	}
	client.
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/plain,application/json,image/*;q=0.9,*/*;q=0.8")

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using asset proxy: %s", proxyURL)
		}
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &assetClient{
		rl:            rl,
		config:        cfg,
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient:    client,
		proxySupplier: proxySupplier,
		metrics:       metrics,
	}
}

// URL resolves a slash separated asset path against the base URL.
func (c *assetClient) URL(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	resolved, err := url.JoinPath(c.baseURL, segments...)
	if err != nil {
		return c.baseURL + "/" + strings.Trim(path, "/")
	}
	return resolved
}

// FetchText downloads a text asset and returns the body untouched; callers trim.
// A missing file yields an *AssetError of KindMissing.
func (c *assetClient) FetchText(ctx context.Context, path string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, path, "text")
	if err != nil {
		return "", err
	}
	return string(resp.Bytes()), nil
}

// Exists issues a HEAD request. Only a missing file is reported as (false, nil).
func (c *assetClient) Exists(ctx context.Context, path string) (bool, error) {
	_, err := c.do(ctx, http.MethodHead, path, "probe")
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func (c *assetClient) Close() error {
	return c.httpClient.Close()
}

func (c *assetClient) do(ctx context.Context, method, path, kind string) (*resty.Response, error) {
	c.rl.Take()

	target := c.URL(path)
	start := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Execute(method, target)
	c.metrics.ObserveDuration(time.Since(start))

	if err != nil {
		assetErr := newAssetError(path, err, 0)
		c.metrics.IncRequest(kind, string(assetErr.Kind))
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, assetErr
	}

	if resp.IsError() {
		assetErr := newAssetError(path, nil, resp.StatusCode())
		c.metrics.IncRequest(kind, string(assetErr.Kind))
		return nil, assetErr
	}

	c.metrics.IncRequest(kind, "ok")
	log.Debugf("Fetched %s %s (%d)", method, target, resp.StatusCode())
	return resp, nil
}
