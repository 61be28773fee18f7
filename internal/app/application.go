package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/muratoffalex/urlregex"
	"github.com/muratoffalex/urlregex/internal/config"
	"github.com/muratoffalex/urlregex/internal/extract"
	"github.com/muratoffalex/urlregex/internal/logger"
	"github.com/muratoffalex/urlregex/internal/network"
)

// Exit statuses returned by Run.
const (
	ExitOK      = 0
	ExitNoMatch = 1
	ExitError   = 2
)

const FailedToInit = "Failed to init"

var ErrNoPages = errors.New("no page could be fetched")

type Application struct {
	Logger    logger.Logger
	cfg       *config.Config
	pattern   *urlregex.Pattern
	extractor *extract.Extractor
	fetcher   *network.Fetcher
}

type validationResult struct {
	Input string `json:"input"`
	Valid bool   `json:"valid"`
}

func New(cfg *config.Config, l logger.Logger) (*Application, error) {
	appLogger := logger.ForComponent(l, logger.ComponentApp)
	match := cfg.Match()
	pattern, err := urlregex.Get(match.Options()...)
	if err != nil {
		appLogger.WithError(err).Error(FailedToInit)
		return nil, err
	}

	input := cfg.Input()
	extractor := extract.New(pattern, extract.Options{
		HTML:      input.HTML,
		Normalize: input.Normalize,
		Charset:   input.Charset,
	}, l)

	appLogger.WithFields(logger.Fields{
		"mode":            match.Mode.String(),
		"scheme_required": match.SchemeRequired,
		"timeout":         match.Timeout,
	}).Debug("Pattern ready")

	a := &Application{
		Logger:    appLogger,
		cfg:       cfg,
		pattern:   pattern,
		extractor: extractor,
	}

	if input.Fetch {
		httpCfg := cfg.HTTP()
		client, err := network.SetupHTTPClient(network.NewHTTPClientConfig(httpCfg), l)
		if err != nil {
			appLogger.WithError(err).Error(FailedToInit)
			return nil, err
		}
		a.fetcher = network.NewFetcher(client, httpCfg.RateLimit, httpCfg.UserAgent, l)
	}

	return a, nil
}

// Run validates or extracts URLs from args, or from in when args is empty,
// and writes the results to out. With fetching enabled args are pages to
// download and scan.
func (a *Application) Run(ctx context.Context, args []string, in io.Reader, out io.Writer) (int, error) {
	output := a.cfg.Output()

	if output.PrintPattern {
		if _, err := fmt.Fprintln(out, a.pattern.String()); err != nil {
			return ExitError, err
		}
		return ExitOK, nil
	}

	if a.fetcher != nil {
		return a.fetch(ctx, args, out, output)
	}
	if a.pattern.Mode() == urlregex.Parsing {
		return a.parse(args, in, out, output)
	}
	return a.validate(args, in, out, output)
}

func (a *Application) parse(args []string, in io.Reader, out io.Writer, output config.OutputConfig) (int, error) {
	var (
		found []extract.Found
		err   error
	)
	if len(args) > 0 {
		var matches []urlregex.Match
		matches, err = a.extractor.Text(strings.Join(args, " "))
		for _, m := range matches {
			found = append(found, extract.Found{URL: m.Text, Source: extract.SourceText, Start: m.Start, End: m.End})
		}
	} else {
		found, err = a.extractor.Reader(in)
	}
	if err != nil && len(found) == 0 {
		return ExitError, err
	}
	if err != nil {
		a.Logger.WithError(err).Warn("Results are incomplete")
	}

	return writeFound(out, found, output)
}

func (a *Application) fetch(ctx context.Context, pages []string, out io.Writer, output config.OutputConfig) (int, error) {
	var (
		found   []extract.Found
		lastErr error
		fetched int
	)

	for _, raw := range pages {
		if err := ctx.Err(); err != nil {
			return ExitError, err
		}
		l := a.Logger.WithField("page", raw)

		if !urlregex.IsURL(raw) {
			l.Warn("Not a URL, skipped")
			continue
		}

		page, err := a.fetcher.Fetch(ctx, raw)
		if err != nil {
			l.WithError(err).Error("Fetch failed")
			lastErr = err
			continue
		}
		fetched++

		items, err := a.extractor.Document(bytes.NewReader(page.Body), page.ContentType, page.IsHTML())
		if err != nil {
			l.WithError(err).Warn("Results are incomplete")
		}
		for _, item := range items {
			item.Page = page.URL
			found = append(found, item)
		}
	}

	if fetched == 0 {
		if lastErr == nil {
			lastErr = ErrNoPages
		}
		return ExitError, lastErr
	}
	return writeFound(out, found, output)
}

func writeFound(out io.Writer, found []extract.Found, output config.OutputConfig) (int, error) {
	if output.IsJSON() {
		if found == nil {
			found = []extract.Found{}
		}
		if err := json.NewEncoder(out).Encode(found); err != nil {
			return ExitError, err
		}
	} else {
		for _, f := range found {
			line := fmt.Sprintf("%d\t%d\t%s\n", f.Start, f.End, f.URL)
			if f.Page != "" {
				line = f.Page + "\t" + line
			}
			if _, err := io.WriteString(out, line); err != nil {
				return ExitError, err
			}
		}
	}

	if len(found) == 0 {
		return ExitNoMatch, nil
	}
	return ExitOK, nil
}

func (a *Application) validate(args []string, in io.Reader, out io.Writer, output config.OutputConfig) (int, error) {
	var results []validationResult

	if len(args) > 0 {
		for _, arg := range args {
			matches, err := a.extractor.Text(arg)
			if err != nil {
				a.Logger.WithError(err).WithField("input", arg).Warn("Validation failed")
			}
			results = append(results, validationResult{Input: arg, Valid: len(matches) > 0})
		}
	} else {
		err := a.extractor.Lines(in, func(line extract.Line) {
			results = append(results, validationResult{Input: line.Text, Valid: line.Valid})
		})
		if err != nil {
			return ExitError, err
		}
	}

	code := ExitOK
	for _, r := range results {
		if !r.Valid {
			code = ExitNoMatch
		}
	}

	if output.IsJSON() {
		if results == nil {
			results = []validationResult{}
		}
		if err := json.NewEncoder(out).Encode(results); err != nil {
			return ExitError, err
		}
		return code, nil
	}

	for _, r := range results {
		status := "invalid"
		if r.Valid {
			status = "valid"
		}
		if _, err := fmt.Fprintf(out, "%s\t%s\n", status, r.Input); err != nil {
			return ExitError, err
		}
	}
	return code, nil
}
