package urlregex

import (
	"iter"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Match is a single URL found in a text. Start and End are byte offsets,
// so text[Start:End] == Text. RuneStart and RuneEnd describe the same span
// in runes.
type Match struct {
	Text      string `json:"url"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	RuneStart int    `json:"-"`
	RuneEnd   int    `json:"-"`
}

// Pattern is an immutable compiled URL pattern. It is safe for concurrent use.
type Pattern struct {
	re             *regexp2.Regexp
	mode           Mode
	schemeRequired bool
}

func (p *Pattern) Mode() Mode {
	return p.mode
}

func (p *Pattern) SchemeRequired() bool {
	return p.schemeRequired
}

// String returns the pattern source.
func (p *Pattern) String() string {
	return p.re.String()
}

// Matches reports whether text matches. For the anchored modes the whole
// text must be a URL, in parsing mode any URL inside text is enough.
// A match that hits the engine timeout counts as no match.
func (p *Pattern) Matches(text string) bool {
	ok, err := p.Check(text)
	return err == nil && ok
}

// Check is Matches with the engine error (a match timeout) exposed.
func (p *Pattern) Check(text string) (bool, error) {
	return p.re.MatchString(text)
}

// FindAll returns every non-overlapping match in text, leftmost first.
func (p *Pattern) FindAll(text string) []Match {
	var matches []Match
	for m := range p.All(text) {
		matches = append(matches, m)
	}
	return matches
}

// FindFirst returns the leftmost match in text.
func (p *Pattern) FindFirst(text string) (Match, bool) {
	for m := range p.All(text) {
		return m, true
	}
	return Match{}, false
}

// All returns a lazy sequence over the matches in text. Every iteration
// restarts from the beginning of text. The sequence ends early when the
// engine times out, use Scan to observe that.
func (p *Pattern) All(text string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		_ = p.scan(text, yield)
	}
}

// Scan is FindAll with the engine error exposed. Matches found before the
// error are returned along with it.
func (p *Pattern) Scan(text string) ([]Match, error) {
	var matches []Match
	err := p.scan(text, func(m Match) bool {
		matches = append(matches, m)
		return true
	})
	return matches, err
}

func (p *Pattern) scan(text string, yield func(Match) bool) error {
	offsets := offsetCursor{text: text}
	m, err := p.re.FindStringMatch(text)
	for m != nil {
		start := offsets.byteOffset(m.Index)
		end := offsets.byteOffset(m.Index + m.Length)
		if !yield(Match{
			Text:      text[start:end],
			Start:     start,
			End:       end,
			RuneStart: m.Index,
			RuneEnd:   m.Index + m.Length,
		}) {
			return nil
		}
		m, err = p.re.FindNextMatch(m)
	}
	return err
}

// offsetCursor converts increasing rune indexes into byte offsets without
// rescanning the text from the start. Invalid bytes count as one rune each,
// the same way the engine decodes them.
type offsetCursor struct {
	text  string
	runes int
	bytes int
}

func (c *offsetCursor) byteOffset(runeIndex int) int {
	if runeIndex < c.runes {
		c.runes, c.bytes = 0, 0
	}
	for c.runes < runeIndex && c.bytes < len(c.text) {
		_, size := utf8.DecodeRuneInString(c.text[c.bytes:])
		c.bytes += size
		c.runes++
	}
	return c.bytes
}
