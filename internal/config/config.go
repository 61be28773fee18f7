package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/basicflag"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"

	"github.com/muratoffalex/urlregex"
)

const (
	MATCH_MODE            = "match.mode"
	MATCH_SCHEME_REQUIRED = "match.scheme_required"
	MATCH_TIMEOUT         = "match.timeout"
	INPUT_HTML            = "input.html"
	INPUT_NORMALIZE       = "input.normalize"
	INPUT_CHARSET         = "input.charset"
	INPUT_FETCH           = "input.fetch"
	HTTP_PROXY            = "http.proxy"
	HTTP_NO_PROXY         = "http.no_proxy"
	HTTP_TIMEOUT          = "http.timeout"
	HTTP_RATE_LIMIT       = "http.rate_limit"
	HTTP_USER_AGENT       = "http.user_agent"
	OUTPUT_FORMAT         = "output.format"
	OUTPUT_PRINT_PATTERN  = "output.print_pattern"
	LOGGING_LEVEL         = "logging.level"
	LOGGING_WRITE_IN_FILE = "logging.write_in_file"
	LOGGING_FILE_PATH     = "logging.file_path"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

const EnvPrefix = "URLREGEX_"

var ErrInvalidFormat = errors.New("invalid output format")

var keys = []string{
	MATCH_MODE,
	MATCH_SCHEME_REQUIRED,
	MATCH_TIMEOUT,
	INPUT_HTML,
	INPUT_NORMALIZE,
	INPUT_CHARSET,
	INPUT_FETCH,
	HTTP_PROXY,
	HTTP_NO_PROXY,
	HTTP_TIMEOUT,
	HTTP_RATE_LIMIT,
	HTTP_USER_AGENT,
	OUTPUT_FORMAT,
	OUTPUT_PRINT_PATTERN,
	LOGGING_LEVEL,
	LOGGING_WRITE_IN_FILE,
	LOGGING_FILE_PATH,
}

// flagKeys maps command line flags to config keys. scheme-optional is the
// negation of match.scheme_required.
var flagKeys = map[string]string{
	"mode":            MATCH_MODE,
	"scheme-optional": MATCH_SCHEME_REQUIRED,
	"timeout":         MATCH_TIMEOUT,
	"html":            INPUT_HTML,
	"charset":         INPUT_CHARSET,
	"fetch":           INPUT_FETCH,
	"proxy":           HTTP_PROXY,
	"format":          OUTPUT_FORMAT,
	"print-pattern":   OUTPUT_PRINT_PATTERN,
	"log-level":       LOGGING_LEVEL,
}

type Config struct {
	match   MatchConfig
	input   InputConfig
	output  OutputConfig
	http    HTTPConfig
	logging LoggingConfig
}

// NewFlagSet defines the command line flags understood by Load.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("config", "", "Path to config file")
	fs.String("mode", urlregex.Validation.String(), "Pattern mode: "+modeList())
	fs.Bool("scheme-optional", false, "Accept URLs without http://, https:// or ftp://")
	fs.Duration("timeout", 0, "Timeout for a single match, 0 disables it")
	fs.Bool("html", false, "Treat input as HTML")
	fs.String("charset", "", "Input charset, detected when empty")
	fs.Bool("fetch", false, "Treat arguments as pages to download and scan")
	fs.String("proxy", "", "HTTP, HTTPS or SOCKS5 proxy for -fetch")
	fs.String("format", FormatText, "Output format: text or json")
	fs.Bool("print-pattern", false, "Print the pattern source and exit")
	fs.String("log-level", "warn", "Log level")
	return fs
}

// Load reads configuration from defaults, the first config file found, the
// environment and finally the flags explicitly set in fs. fs may be nil.
func Load(fs *flag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		MATCH_MODE:            urlregex.Validation.String(),
		MATCH_SCHEME_REQUIRED: true,
		MATCH_TIMEOUT:         "0s",
		INPUT_HTML:            false,
		INPUT_NORMALIZE:       true,
		INPUT_CHARSET:         "",
		INPUT_FETCH:           false,
		HTTP_PROXY:            "",
		HTTP_TIMEOUT:          "30s",
		HTTP_RATE_LIMIT:       2.0,
		HTTP_USER_AGENT:       "urlregex/1.0",
		OUTPUT_FORMAT:         FormatText,
		OUTPUT_PRINT_PATTERN:  false,
		LOGGING_LEVEL:         "warn",
		LOGGING_WRITE_IN_FILE: false,
		LOGGING_FILE_PATH:     "urlregex.log",
	}
	k.Load(confmap.Provider(defaults, "."), nil)

	configPath := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			configPath = f.Value.String()
		}
	}

	for _, path := range getConfigPaths(configPath) {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading config %s: %w", path, err)
			}
			break
		} else if path == configPath {
			return nil, fmt.Errorf("error loading config %s: %w", path, err)
		}
	}

	k.Load(env.Provider(EnvPrefix, ".", envKey), nil)

	if fs != nil {
		if err := k.Load(basicflag.ProviderWithValue(fs, ".", explicitFlags(fs)), nil); err != nil {
			return nil, fmt.Errorf("error loading flags: %w", err)
		}
	}

	// checked before decoding so the error keeps its type
	if _, err := urlregex.ParseMode(k.String(MATCH_MODE)); err != nil {
		return nil, fmt.Errorf("%s: %w", MATCH_MODE, err)
	}

	cfg := &Config{}
	sections := []struct {
		path string
		out  any
	}{
		{"match", &cfg.match},
		{"input", &cfg.input},
		{"output", &cfg.output},
		{"http", &cfg.http},
		{"logging", &cfg.logging},
	}
	for _, section := range sections {
		if err := k.Unmarshal(section.path, section.out); err != nil {
			return nil, fmt.Errorf("%s config unmarshal error: %w", section.path, err)
		}
	}
	cfg.http.NoProxy = cleanList(cfg.http.NoProxy)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.http.RateLimit < 0 {
		return fmt.Errorf("%s: must not be negative", HTTP_RATE_LIMIT)
	}
	if c.output.Format != FormatText && c.output.Format != FormatJSON {
		return fmt.Errorf("%s: %w: %s", OUTPUT_FORMAT, ErrInvalidFormat, c.output.Format)
	}
	return nil
}

func (c *Config) Match() MatchConfig {
	return c.match
}

func (c *Config) Input() InputConfig {
	return c.input
}

func (c *Config) HTTP() HTTPConfig {
	return c.http
}

func (c *Config) Output() OutputConfig {
	return c.output
}

func (c *Config) Log() LoggingConfig {
	return c.logging
}

// envKey maps URLREGEX_MATCH_SCHEME_REQUIRED to match.scheme_required.
// Unknown variables are dropped.
func envKey(s string) string {
	name := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, key := range keys {
		if strings.ReplaceAll(key, ".", "_") == name {
			return key
		}
	}
	return ""
}

// explicitFlags keeps only the flags set on the command line, so flag
// defaults never shadow the config file or the environment.
func explicitFlags(fs *flag.FlagSet) func(string, string) (string, any) {
	var set []string
	fs.Visit(func(f *flag.Flag) {
		set = append(set, f.Name)
	})

	return func(name, value string) (string, any) {
		key, ok := flagKeys[name]
		if !ok || !slices.Contains(set, name) {
			return "", nil
		}
		if name == "scheme-optional" {
			optional, err := strconv.ParseBool(value)
			if err != nil {
				return "", nil
			}
			return key, !optional
		}
		return key, value
	}
}

// cleanList trims the items of a list that may come from a comma separated
// environment value and drops the empty ones.
func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func modeList() string {
	var names []string
	for _, mode := range urlregex.Modes() {
		names = append(names, mode.String())
	}
	return strings.Join(names, ", ")
}

func getConfigPaths(configPath string) []string {
	if configPath != "" {
		return []string{configPath}
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, _ := os.UserHomeDir()
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		"urlregex.toml",
		"config.toml",
		filepath.Join(xdgConfig, "urlregex", "config.toml"),
		"/etc/urlregex/config.toml",
	}
}
