package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/smallbiznis/garagebook/internal/validation"
)

const maxLogoBytes = 2 << 20

var ErrUnsupportedLogo = errors.New("unsupported_logo_type")

type LogoLoader interface {
	Load(ctx context.Context, url string) (*Image, error)
}

type httpLogoLoader struct {
	client *http.Client
}

// NewHTTPLogoLoader fetches logos over the public internet only. Connections
// to loopback, private and link-local addresses are refused after DNS
// resolution, redirects included.
func NewHTTPLogoLoader(timeout time.Duration) LogoLoader {
	return newHTTPLogoLoader(timeout, validation.DialControl)
}

func newHTTPLogoLoader(timeout time.Duration, control func(network, address string, c syscall.RawConn) error) *httpLogoLoader {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	dialer := &net.Dialer{Timeout: timeout, Control: control}
	transport := &http.Transport{
		Proxy:                 nil,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          4,
		IdleConnTimeout:       30 * time.Second,
	}
	return &httpLogoLoader{client: &http.Client{Timeout: timeout, Transport: transport}}
}

// Load fetches a PNG or JPEG logo. Anything else is rejected.
func (l *httpLogoLoader) Load(ctx context.Context, url string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("logo fetch status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxLogoBytes {
		return nil, fmt.Errorf("logo exceeds %d bytes", maxLogoBytes)
	}

	ext, err := sniffImage(data)
	if err != nil {
		return nil, err
	}
	return &Image{Data: data, Extension: ext}, nil
}

func sniffImage(data []byte) (string, error) {
	switch ct := http.DetectContentType(data); {
	case strings.HasPrefix(ct, "image/png"):
		return "png", nil
	case strings.HasPrefix(ct, "image/jpeg"):
		return "jpg", nil
	default:
		return "", ErrUnsupportedLogo
	}
}
