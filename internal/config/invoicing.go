package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// InvoicingConfig carries the garage-wide invoicing defaults that are not
// stored per account.
type InvoicingConfig struct {
	DefaultVATRate string `mapstructure:"defaultVatRate"`
	DueDays        int    `mapstructure:"dueDays"`
	CurrencySymbol string `mapstructure:"currencySymbol"`
	NumberTemplate string `mapstructure:"numberTemplate"`
	WrapWidth      int    `mapstructure:"wrapWidth"`
}

func DefaultInvoicingConfig() InvoicingConfig {
	return InvoicingConfig{
		DefaultVATRate: "20.00",
		DueDays:        14,
		CurrencySymbol: "£",
		NumberTemplate: "{PREFIX}{SEQ3}",
		WrapWidth:      40,
	}
}

// VATRate returns the parsed default VAT rate.
func (c InvoicingConfig) VATRate() decimal.Decimal {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.DefaultVATRate))
	if err != nil {
		return decimal.NewFromInt(20)
	}
	return rate
}

type InvoicingConfigHolder struct {
	current atomic.Value // holds InvoicingConfig
}

// NewInvoicingConfigHolder reads invoicing.yml when present and keeps it
// reloaded on change. Missing files fall back to defaults.
func NewInvoicingConfigHolder(cfg Config, log *zap.Logger) (*InvoicingConfigHolder, error) {
	v := viper.New()
	if cfg.InvoicingConfig != "" {
		v.SetConfigFile(cfg.InvoicingConfig)
	} else {
		v.SetConfigName("invoicing")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/garagebook")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GARAGEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultInvoicingConfig()
	v.SetDefault("invoicing.defaultVatRate", defaults.DefaultVATRate)
	v.SetDefault("invoicing.dueDays", defaults.DueDays)
	v.SetDefault("invoicing.currencySymbol", defaults.CurrencySymbol)
	v.SetDefault("invoicing.numberTemplate", defaults.NumberTemplate)
	v.SetDefault("invoicing.wrapWidth", defaults.WrapWidth)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read invoicing config: %w", err)
		}
		fileLoaded = false
	}

	var current InvoicingConfig
	if err := v.UnmarshalKey("invoicing", &current); err != nil {
		return nil, err
	}
	if err := ValidateInvoicingConfig(current); err != nil {
		return nil, err
	}

	holder := NewStaticInvoicingConfig(current)
	if !fileLoaded {
		return holder, nil
	}

	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config.invoicing")

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated InvoicingConfig
		if err := v.UnmarshalKey("invoicing", &updated); err != nil {
			log.Warn("reload failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		if err := ValidateInvoicingConfig(updated); err != nil {
			log.Warn("invalid config ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// NewStaticInvoicingConfig returns a holder that never reloads.
func NewStaticInvoicingConfig(cfg InvoicingConfig) *InvoicingConfigHolder {
	holder := &InvoicingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *InvoicingConfigHolder) Get() InvoicingConfig {
	if h == nil {
		return DefaultInvoicingConfig()
	}
	return h.current.Load().(InvoicingConfig)
}

// Wrap widths are characters per line in the 80 mm description column at 10 pt.
const (
	MinWrapWidth = 10
	MaxWrapWidth = 45
)

func ValidateInvoicingConfig(cfg InvoicingConfig) error {
	rate, err := decimal.NewFromString(strings.TrimSpace(cfg.DefaultVATRate))
	if err != nil {
		return fmt.Errorf("invoicing.defaultVatRate: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("invoicing.defaultVatRate must be between 0 and 100")
	}
	if cfg.DueDays < 0 {
		return errors.New("invoicing.dueDays cannot be negative")
	}
	if strings.TrimSpace(cfg.NumberTemplate) == "" {
		return errors.New("invoicing.numberTemplate cannot be empty")
	}
	if cfg.WrapWidth < MinWrapWidth || cfg.WrapWidth > MaxWrapWidth {
		return fmt.Errorf("invoicing.wrapWidth must be between %d and %d", MinWrapWidth, MaxWrapWidth)
	}
	return nil
}
