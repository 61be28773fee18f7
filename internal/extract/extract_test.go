package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/muratoffalex/urlregex"
	"github.com/muratoffalex/urlregex/internal/logger"
)

const testPage = `<!DOCTYPE html>
<html>
<head>
<script>var u = "http://script.example.com";</script>
<style>body { background: url(http://style.example.com/bg.png) }</style>
</head>
<body>
<a href="https://example.com/a">link</a>
<img src="http://img.example.org/x.png">
<p>see http://text.example.net/page</p><p>http://a.com</p>
<a href="https://example.com/a">duplicate</a>
<a href="/relative">relative</a>
</body>
</html>`

func newExtractor(t *testing.T, opts Options, patternOpts ...urlregex.Option) (*Extractor, *logger.TestLogger) {
	t.Helper()
	p, err := urlregex.Get(patternOpts...)
	require.NoError(t, err)
	l := logger.NewTestLogger()
	return New(p, opts, l), l
}

func urls(found []Found) []string {
	var out []string
	for _, f := range found {
		out = append(out, f.URL)
	}
	return out
}

func TestExtractor_Text(t *testing.T) {
	t.Run("parsing", func(t *testing.T) {
		e, l := newExtractor(t, Options{}, urlregex.WithMode(urlregex.Parsing))

		matches, err := e.Text("Visit http://example.com and https://foo.bar/baz?q=1 now")
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "http://example.com", matches[0].Text)
		assert.Equal(t, 6, matches[0].Start)
		assert.Equal(t, "https://foo.bar/baz?q=1", matches[1].Text)

		entry, ok := l.FindEntry("debug", "Found 2 URLs")
		require.True(t, ok)
		assert.Equal(t, "parsing", entry.Fields["mode"])
		assert.Equal(t, logger.ComponentExtract, entry.Fields[logger.ComponentField])
	})

	t.Run("validation uses the trimmed input", func(t *testing.T) {
		e, _ := newExtractor(t, Options{})

		matches, err := e.Text("  http://foo.com  ")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, urlregex.Match{Text: "http://foo.com", Start: 2, End: 16}, matches[0])

		matches, err = e.Text("see http://foo.com")
		require.NoError(t, err)
		assert.Empty(t, matches)

		matches, err = e.Text("   ")
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("normalization", func(t *testing.T) {
		decomposed := "http://cafe\u0301.com"

		e, _ := newExtractor(t, Options{Normalize: true})
		matches, err := e.Text(decomposed)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "http://caf\u00e9.com", matches[0].Text)

		e, _ = newExtractor(t, Options{Normalize: false})
		matches, err = e.Text(decomposed)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, decomposed, matches[0].Text)
	})
}

func TestExtractor_Reader(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		e, _ := newExtractor(t, Options{Normalize: true}, urlregex.WithMode(urlregex.Parsing))

		found, err := e.Reader(strings.NewReader("one http://a.com\ntwo https://b.org/x"))
		require.NoError(t, err)
		assert.Equal(t, []Found{
			{URL: "http://a.com", Source: SourceText, Start: 4, End: 16},
			{URL: "https://b.org/x", Source: SourceText, Start: 21, End: 36},
		}, found)
	})

	t.Run("charset label", func(t *testing.T) {
		encoded, err := charmap.Windows1251.NewEncoder().String("ссылка http://пример.рф/страница")
		require.NoError(t, err)

		e, _ := newExtractor(t, Options{Charset: "windows-1251"}, urlregex.WithMode(urlregex.Parsing))
		found, err := e.Reader(strings.NewReader(encoded))
		require.NoError(t, err)
		assert.Equal(t, []string{"http://пример.рф/страница"}, urls(found))
	})

	t.Run("unknown charset label", func(t *testing.T) {
		e, _ := newExtractor(t, Options{Charset: "klingon"}, urlregex.WithMode(urlregex.Parsing))
		_, err := e.Reader(strings.NewReader("http://a.com"))
		assert.Error(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		e, _ := newExtractor(t, Options{}, urlregex.WithMode(urlregex.Parsing))
		found, err := e.Reader(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("html parsing", func(t *testing.T) {
		e, l := newExtractor(t, Options{HTML: true}, urlregex.WithMode(urlregex.Parsing))

		found, err := e.Reader(strings.NewReader(testPage))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/a",
			"http://img.example.org/x.png",
			"http://text.example.net/page",
			"http://a.com",
		}, urls(found))
		assert.Equal(t, SourceHref, found[0].Source)
		assert.Equal(t, SourceSrc, found[1].Source)
		assert.Equal(t, SourceText, found[2].Source)
		assert.True(t, l.HasEntry("debug", "Collected 4 unique URLs"))
	})

	t.Run("html validation checks attributes only", func(t *testing.T) {
		e, _ := newExtractor(t, Options{HTML: true})

		found, err := e.Reader(strings.NewReader(testPage))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/a",
			"http://img.example.org/x.png",
		}, urls(found))
	})
}

func TestExtractor_Lines(t *testing.T) {
	e, _ := newExtractor(t, Options{Normalize: true})

	var lines []Line
	err := e.Lines(strings.NewReader("http://foo.com\n\nnot a url\n  ftp://foo.bar/baz  \nhttp://10.1.1.1\n"), func(l Line) {
		lines = append(lines, l)
	})
	require.NoError(t, err)

	assert.Equal(t, []Line{
		{Number: 1, Text: "http://foo.com", Valid: true},
		{Number: 3, Text: "not a url", Valid: false},
		{Number: 4, Text: "ftp://foo.bar/baz", Valid: true},
		{Number: 5, Text: "http://10.1.1.1", Valid: false},
	}, lines)
}

func TestExtractor_Document(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().String(`<p>см. <a href="http://пример.рф/">сайт</a></p>`)
	require.NoError(t, err)

	e, _ := newExtractor(t, Options{}, urlregex.WithMode(urlregex.Parsing))

	found, err := e.Document(strings.NewReader(encoded), "text/html; charset=windows-1251", true)
	require.NoError(t, err)
	assert.Equal(t, []Found{{URL: "http://пример.рф/", Source: SourceHref, Start: 0, End: len("http://пример.рф/")}}, found)

	found, err = e.Document(strings.NewReader("plain http://a.com"), "text/plain", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.com"}, urls(found))
}
