package extract

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"

	"github.com/muratoffalex/urlregex"
	"github.com/muratoffalex/urlregex/internal/logger"
)

const (
	SourceText = "text"
	SourceHref = "href"
	SourceSrc  = "src"
)

type Options struct {
	HTML      bool
	Normalize bool
	// Charset is an encoding label such as "windows-1251". When empty the
	// encoding is detected from the input.
	Charset string
}

// Found is a URL located in some input. Offsets are bytes into the decoded
// and normalized text of its source (the document text or one attribute
// value). Page is set for URLs found in downloaded pages.
type Found struct {
	Page   string `json:"page,omitempty"`
	URL    string `json:"url"`
	Source string `json:"source"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

type Line struct {
	Number int
	Text   string
	Valid  bool
}

type Extractor struct {
	pattern *urlregex.Pattern
	opts    Options
	logger  logger.Logger
}

func New(pattern *urlregex.Pattern, opts Options, l logger.Logger) *Extractor {
	return &Extractor{
		pattern: pattern,
		opts:    opts,
		logger: logger.ForComponent(l, logger.ComponentExtract).WithFields(logger.Fields{
			"mode":            pattern.Mode().String(),
			"scheme_required": pattern.SchemeRequired(),
		}),
	}
}

// Text finds URLs in text. In parsing mode every URL inside text is
// returned, in the anchored modes the trimmed text yields one match when it
// is a URL as a whole.
func (e *Extractor) Text(text string) ([]urlregex.Match, error) {
	text = e.normalize(text)

	if e.pattern.Mode() != urlregex.Parsing {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil, nil
		}
		ok, err := e.pattern.Check(trimmed)
		if err != nil {
			return nil, fmt.Errorf("match failed: %w", err)
		}
		if !ok {
			return nil, nil
		}
		start := strings.Index(text, trimmed)
		return []urlregex.Match{{
			Text:  trimmed,
			Start: start,
			End:   start + len(trimmed),
		}}, nil
	}

	matches, err := e.pattern.Scan(text)
	if err != nil {
		e.logger.WithError(err).Warnf("Scan stopped after %d matches", len(matches))
		return matches, fmt.Errorf("match failed: %w", err)
	}
	e.logger.Debugf("Found %d URLs", len(matches))
	return matches, nil
}

// Reader decodes r to UTF-8 and extracts URLs from it, from the visible
// text and the href/src attributes when the input is HTML. Results are
// de-duplicated by URL and keep document order.
func (e *Extractor) Reader(r io.Reader) ([]Found, error) {
	return e.Document(r, "", e.opts.HTML)
}

// Document is Reader for input with a known Content-Type, such as a
// downloaded page. The charset parameter of contentType, when present,
// takes part in decoding.
func (e *Extractor) Document(r io.Reader, contentType string, html bool) ([]Found, error) {
	decoded, err := e.decode(r, contentType, html)
	if err != nil {
		return nil, err
	}

	if !html {
		body, err := io.ReadAll(decoded)
		if err != nil {
			return nil, fmt.Errorf("reading input failed: %w", err)
		}
		matches, err := e.Text(string(body))
		return toFound(matches, SourceText), err
	}

	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	var found []Found
	seen := make(map[string]bool)
	add := func(items []Found) {
		for _, f := range items {
			if !seen[f.URL] {
				seen[f.URL] = true
				found = append(found, f)
			}
		}
	}

	var scanErr error
	doc.Find("[href], [src]").Each(func(i int, s *goquery.Selection) {
		for _, attr := range []string{SourceHref, SourceSrc} {
			value, ok := s.Attr(attr)
			if !ok || value == "" {
				continue
			}
			matches, err := e.Text(value)
			if err != nil && scanErr == nil {
				scanErr = err
			}
			add(toFound(matches, attr))
		}
	})

	if e.pattern.Mode() == urlregex.Parsing {
		matches, err := e.Text(visibleText(doc.Selection))
		if err != nil && scanErr == nil {
			scanErr = err
		}
		add(toFound(matches, SourceText))
	}

	e.logger.WithField("html", true).Debugf("Collected %d unique URLs", len(found))
	return found, scanErr
}

// Lines validates each non-empty line of r, calling fn in input order.
func (e *Extractor) Lines(r io.Reader, fn func(Line)) error {
	decoded, err := e.decode(r, "", false)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	number := 0
	for scanner.Scan() {
		number++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		matches, err := e.Text(text)
		if err != nil {
			e.logger.WithError(err).WithField("line", number).Warn("Line skipped")
		}
		fn(Line{Number: number, Text: text, Valid: len(matches) > 0})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input failed: %w", err)
	}
	return nil
}

func (e *Extractor) decode(r io.Reader, contentType string, html bool) (io.Reader, error) {
	if e.opts.Charset != "" {
		decoded, err := charset.NewReaderLabel(e.opts.Charset, r)
		if err != nil {
			return nil, fmt.Errorf("charset %q: %w", e.opts.Charset, err)
		}
		return decoded, nil
	}

	if contentType == "" {
		contentType = "text/plain"
		if html {
			contentType = "text/html"
		}
	}
	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return strings.NewReader(""), nil
		}
		return nil, fmt.Errorf("charset detection failed: %w", err)
	}
	return decoded, nil
}

func (e *Extractor) normalize(text string) string {
	if !e.opts.Normalize {
		return text
	}
	return norm.NFC.String(text)
}

// visibleText joins text nodes with newlines so adjacent blocks never run
// into one URL.
func visibleText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				b.WriteString(c.Text())
				b.WriteByte('\n')
				return
			}
			walk(c)
		})
	}
	walk(sel)
	return b.String()
}

func toFound(matches []urlregex.Match, source string) []Found {
	var found []Found
	for _, m := range matches {
		found = append(found, Found{
			URL:    m.Text,
			Source: source,
			Start:  m.Start,
			End:    m.End,
		})
	}
	return found
}
