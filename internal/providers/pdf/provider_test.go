package pdf

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smallbiznis/garagebook/internal/config"
	"github.com/smallbiznis/garagebook/internal/observability/metrics"
	"github.com/smallbiznis/garagebook/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Load(ctx context.Context, url string) (*Image, error) {
	args := m.Called(ctx, url)
	img, _ := args.Get(0).(*Image)
	return img, args.Error(1)
}

func TestRenderInvoiceContinuesWhenLogoFails(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reg := prometheus.NewRegistry()
	m, err := metrics.New(metrics.Config{}, reg)
	require.NoError(t, err)

	loader := &mockLoader{}
	loader.On("Load", mock.Anything, "https://cdn.example/logo.png").Return(nil, errors.New("timeout"))

	p := New(Params{
		Log:       zap.New(core),
		Invoicing: config.NewStaticInvoicingConfig(config.DefaultInvoicingConfig()),
		Metrics:   m,
		Loader:    loader,
	})

	doc := sampleDocument(3, "Brake pads")
	doc.Garage.LogoURL = "https://cdn.example/logo.png"

	out, err := p.RenderInvoice(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "Invoice_INV-001.pdf", out.Filename)
	assert.Equal(t, 1, out.Pages)
	assert.True(t, bytes.HasPrefix(out.Content, []byte("%PDF")))

	loader.AssertExpectations(t)
	assert.Equal(t, 1, logs.FilterMessage("logo load failed, rendering without logo").Len())
	count, err := testutil.GatherAndCount(reg, "garagebook_invoice_logo_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRenderInvoiceSkipsLoaderWithoutLogo(t *testing.T) {
	loader := &mockLoader{}
	p := New(Params{
		Log:       zap.NewNop(),
		Invoicing: config.NewStaticInvoicingConfig(config.DefaultInvoicingConfig()),
		Loader:    loader,
	})

	_, err := p.RenderInvoice(context.Background(), sampleDocument(1, "Labour"))
	require.NoError(t, err)
	loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestHTTPLogoLoader(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/logo.png":
			_, _ = w.Write(png)
		case "/logo.txt":
			_, _ = w.Write([]byte("hello"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	loader := newHTTPLogoLoader(0, nil)

	img, err := loader.Load(context.Background(), srv.URL+"/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "png", img.Extension)

	_, err = loader.Load(context.Background(), srv.URL+"/logo.txt")
	assert.ErrorIs(t, err, ErrUnsupportedLogo)

	_, err = loader.Load(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestHTTPLogoLoaderRefusesInternalAddresses(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	}))
	defer srv.Close()

	_, err := NewHTTPLogoLoader(time.Second).Load(context.Background(), srv.URL+"/logo.png")
	assert.ErrorIs(t, err, validation.ErrPrivateAddress)
	assert.Zero(t, hits)
}

func TestSniffImageJPEG(t *testing.T) {
	ext, err := sniffImage([]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"))
	require.NoError(t, err)
	assert.Equal(t, "jpg", ext)
}
