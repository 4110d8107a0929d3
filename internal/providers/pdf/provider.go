package pdf

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/garagebook/internal/config"
	"github.com/smallbiznis/garagebook/internal/invoice/format"
	"github.com/smallbiznis/garagebook/internal/observability/logger"
	"github.com/smallbiznis/garagebook/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("pdf",
	fx.Provide(provideLogoLoader),
	fx.Provide(New),
)

// Rendered is a finished invoice document.
type Rendered struct {
	Filename string
	Content  []byte
	Pages    int
}

type Provider interface {
	RenderInvoice(ctx context.Context, doc InvoiceDocument) (Rendered, error)
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Invoicing *config.InvoicingConfigHolder
	Metrics   *metrics.Metrics `optional:"true"`
	Loader    LogoLoader
}

type provider struct {
	log       *zap.Logger
	invoicing *config.InvoicingConfigHolder
	metrics   *metrics.Metrics
	loader    LogoLoader
}

func New(p Params) Provider {
	return &provider{
		log:       p.Log.Named("pdf.provider"),
		invoicing: p.Invoicing,
		metrics:   p.Metrics,
		loader:    p.Loader,
	}
}

func provideLogoLoader(cfg config.Config) LogoLoader {
	return NewCachingLogoLoader(NewHTTPLogoLoader(cfg.LogoFetchTimeout), defaultLogoTTL)
}

func (p *provider) RenderInvoice(ctx context.Context, doc InvoiceDocument) (Rendered, error) {
	start := time.Now()
	invoicing := p.invoicing.Get()

	logo := p.loadLogo(ctx, doc.Garage.LogoURL)
	layout := BuildLayout(doc, logo, Options{
		CurrencySymbol: invoicing.CurrencySymbol,
		WrapWidth:      invoicing.WrapWidth,
	})

	content, err := Draw(layout)
	p.metrics.RecordDocumentRendered(err, time.Since(start).Seconds())
	if err != nil {
		return Rendered{}, err
	}

	return Rendered{
		Filename: format.Filename(doc.Number),
		Content:  content,
		Pages:    len(layout.Pages),
	}, nil
}

// loadLogo returns nil when there is no logo or it cannot be used. Failures
// are logged and the document is rendered without it.
func (p *provider) loadLogo(ctx context.Context, url string) *Image {
	url = strings.TrimSpace(url)
	if url == "" || p.loader == nil {
		return nil
	}

	img, err := p.loader.Load(ctx, url)
	if err != nil {
		logger.WithContext(ctx, p.log).Warn("logo load failed, rendering without logo",
			zap.String("logo_url", url),
			zap.Error(err),
		)
		p.metrics.RecordLogoFailure()
		return nil
	}
	return img
}
