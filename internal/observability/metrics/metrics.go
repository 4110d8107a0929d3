package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures metric registration.
type Config struct {
	Namespace string
}

// Metrics exposes garage domain counters.
type Metrics struct {
	invoicesIssued   *prometheus.CounterVec
	invoiceAmount    prometheus.Histogram
	documentsRender  *prometheus.CounterVec
	renderDuration   prometheus.Histogram
	logoFailures     prometheus.Counter
	exportsGenerated prometheus.Counter
}

// New registers the domain instruments on reg.
func New(cfg Config, reg prometheus.Registerer) (*Metrics, error) {
	ns := namespace(cfg)

	m := &Metrics{
		invoicesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "invoices_issued_total",
			Help:      "Invoices created, by VAT treatment.",
		}, []string{"vat"}),
		invoiceAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "invoice_total_amount",
			Help:      "Distribution of invoice totals in major currency units.",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000},
		}),
		documentsRender: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "invoice_documents_rendered_total",
			Help:      "Invoice PDF renders by outcome.",
		}, []string{"outcome"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "invoice_document_render_seconds",
			Help:      "Invoice PDF render latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		logoFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "invoice_logo_failures_total",
			Help:      "Logo loads that failed and were skipped.",
		}),
		exportsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "invoice_exports_total",
			Help:      "Invoice register spreadsheets generated.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.invoicesIssued,
		m.invoiceAmount,
		m.documentsRender,
		m.renderDuration,
		m.logoFailures,
		m.exportsGenerated,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) RecordInvoiceIssued(vatExempt bool, total float64) {
	if m == nil {
		return
	}
	vat := "standard"
	if vatExempt {
		vat = "exempt"
	}
	m.invoicesIssued.WithLabelValues(vat).Inc()
	m.invoiceAmount.Observe(total)
}

func (m *Metrics) RecordDocumentRendered(err error, seconds float64) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.documentsRender.WithLabelValues(outcome).Inc()
	m.renderDuration.Observe(seconds)
}

func (m *Metrics) RecordLogoFailure() {
	if m == nil {
		return
	}
	m.logoFailures.Inc()
}

func (m *Metrics) RecordExport() {
	if m == nil {
		return
	}
	m.exportsGenerated.Inc()
}

func namespace(cfg Config) string {
	ns := strings.TrimSpace(cfg.Namespace)
	if ns == "" {
		return "garagebook"
	}
	return strings.ReplaceAll(ns, "-", "_")
}
