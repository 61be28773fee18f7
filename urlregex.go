// Package urlregex provides a regular expression for validating URLs and
// extracting them from text.
//
// The pattern is built on the work of Diego Perini
// (https://gist.github.com/dperini/729294) and Mathias Bynens
// (https://mathiasbynens.be/demo/url-regex). It recognizes the shape of
// http, https and ftp URLs with optional credentials, public IPv4 hosts,
// IPv6 literals, internationalized host names, a port and a path.
package urlregex

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/muratoffalex/urlregex/internal/cache"
)

type options struct {
	schemeRequired bool
	mode           Mode
	timeout        time.Duration
}

type Option func(*options)

// WithSchemeRequired controls whether the http://, https:// or ftp:// prefix
// must be present. It is required by default.
func WithSchemeRequired(required bool) Option {
	return func(o *options) {
		o.schemeRequired = required
	}
}

// WithMode selects the pattern mode. Validation is the default.
func WithMode(mode Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithMatchTimeout bounds the time a single match may take. Zero disables
// the timeout.
func WithMatchTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

var patterns = cache.NewStore[options, *Pattern]()

// Get returns the URL pattern for the given options. Patterns are compiled
// once per distinct set of options and shared afterwards.
func Get(opts ...Option) (*Pattern, error) {
	o := options{
		schemeRequired: true,
		mode:           Validation,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !o.mode.valid() {
		return nil, &InvalidModeError{Value: o.mode.String()}
	}

	return patterns.GetOrCreate(o, func() (*Pattern, error) {
		return compile(o)
	})
}

// MustGet is like Get but panics on an invalid mode.
func MustGet(opts ...Option) *Pattern {
	p, err := Get(opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// IsURL reports whether text as a whole is a URL with a scheme.
func IsURL(text string) bool {
	return MustGet().Matches(text)
}

// Extract returns every URL with a scheme found in text.
func Extract(text string) []string {
	var urls []string
	for m := range MustGet(WithMode(Parsing)).All(text) {
		urls = append(urls, m.Text)
	}
	return urls
}

func source(o options) (string, regexp2.RegexOptions) {
	scheme := schemeFragment
	if !o.schemeRequired {
		scheme = schemeOptionalFragment
	}

	switch o.mode {
	case Parsing:
		return scheme + " " + freeSpacingBase,
			regexp2.IgnoreCase | regexp2.IgnorePatternWhitespace
	case JavaScript:
		return "^" + scheme + jsBase + "$", regexp2.None
	default:
		return `\A` + scheme + " " + freeSpacingBase + `\z`,
			regexp2.IgnoreCase | regexp2.IgnorePatternWhitespace
	}
}

func compile(o options) (*Pattern, error) {
	expr, flags := source(o)
	re, err := regexp2.Compile(expr, flags)
	if err != nil {
		return nil, fmt.Errorf("compile %s pattern: %w", o.mode, err)
	}
	if o.timeout > 0 {
		re.MatchTimeout = o.timeout
	}
	return &Pattern{
		re:             re,
		mode:           o.mode,
		schemeRequired: o.schemeRequired,
	}, nil
}
