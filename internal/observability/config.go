package observability

import (
	"strings"

	"github.com/smallbiznis/garagebook/internal/config"
	"github.com/spf13/viper"
)

// Config is the logging and tracing setup. Values come from the process
// environment, falling back to the application config.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
}

func LoadConfig(cfg config.Config) Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("DEPLOYMENT_ENV", cfg.Environment)
	v.SetDefault("SERVICE_VERSION", cfg.AppVersion)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	v.SetDefault("OTEL_SAMPLING_RATIO", 0.1)

	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "garagebook"
	}

	// The traces specific variable wins over the shared OTLP one.
	protocol := lowerTrim(v.GetString("OTEL_EXPORTER_OTLP_PROTOCOL"))
	if traces := lowerTrim(v.GetString("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL")); traces != "" {
		protocol = traces
	}

	return Config{
		ServiceName:          serviceName,
		Environment:          orDefault(v.GetString("DEPLOYMENT_ENV"), cfg.Environment),
		Version:              orDefault(v.GetString("SERVICE_VERSION"), cfg.AppVersion),
		LogLevel:             orDefault(lowerTrim(v.GetString("LOG_LEVEL")), "info"),
		LogFormat:            orDefault(lowerTrim(v.GetString("LOG_FORMAT")), "json"),
		OtelEnabled:          v.GetBool("OTEL_ENABLED"),
		OtelExporterEndpoint: strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OtelExporterProtocol: orDefault(protocol, "grpc"),
		OtelSamplingRatio:    clampRatio(v.GetFloat64("OTEL_SAMPLING_RATIO")),
	}
}

// Debug is on for non-production environments or an explicit debug level.
func (c Config) Debug() bool {
	if lowerTrim(c.LogLevel) == "debug" {
		return true
	}
	switch lowerTrim(c.Environment) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func clampRatio(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}
