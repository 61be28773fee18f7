package config

import (
	"os"
	"strings"
	"time"

	"github.com/muratoffalex/urlregex"
)

type MatchConfig struct {
	Mode           urlregex.Mode `koanf:"mode"`
	SchemeRequired bool          `koanf:"scheme_required"`
	Timeout        time.Duration `koanf:"timeout"`
}

func (c MatchConfig) Options() []urlregex.Option {
	return []urlregex.Option{
		urlregex.WithMode(c.Mode),
		urlregex.WithSchemeRequired(c.SchemeRequired),
		urlregex.WithMatchTimeout(c.Timeout),
	}
}

type InputConfig struct {
	HTML      bool   `koanf:"html"`
	Normalize bool   `koanf:"normalize"`
	Charset   string `koanf:"charset"`
	Fetch     bool   `koanf:"fetch"`
}

type HTTPConfig struct {
	Proxy     string        `koanf:"proxy"`
	NoProxy   []string      `koanf:"no_proxy"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"`
	UserAgent string        `koanf:"user_agent"`
}

// GetProxy falls back to the usual proxy environment variables.
func (c HTTPConfig) GetProxy() string {
	if c.Proxy != "" {
		return c.Proxy
	}
	for _, name := range []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy"} {
		if proxyURL := os.Getenv(name); proxyURL != "" {
			return proxyURL
		}
	}
	return ""
}

func (c HTTPConfig) GetNoProxy() []string {
	if len(c.NoProxy) > 0 {
		return c.NoProxy
	}
	for _, name := range []string{"NO_PROXY", "no_proxy"} {
		if hosts := cleanList(strings.Split(os.Getenv(name), ",")); len(hosts) > 0 {
			return hosts
		}
	}
	return nil
}

type OutputConfig struct {
	Format       string `koanf:"format"`
	PrintPattern bool   `koanf:"print_pattern"`
}

func (c OutputConfig) IsJSON() bool {
	return c.Format == FormatJSON
}

type LoggingConfig struct {
	LogLevel    string `koanf:"level"`
	WriteInFile bool   `koanf:"write_in_file"`
	FilePath    string `koanf:"file_path"`
}

func (c LoggingConfig) Level() string {
	return strings.ToLower(c.LogLevel)
}

func (c LoggingConfig) IsDebug() bool {
	return c.Level() == "debug" || c.Level() == "trace"
}
