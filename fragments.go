package urlregex

import (
	"strings"
	"unicode"
)

// Pattern fragments. They are authored with insignificant whitespace so they
// read well inside the free-spacing source; compact strips it for engines
// that have no free-spacing mode. Literal whitespace is never significant in
// a fragment.
const (
	schemeFragment         = `(?:(?:https?|ftp)://)`
	schemeOptionalFragment = `(?:(?:https?|ftp)://)?`

	// user[:password]@. Same language as \S+(?::\S*)?@ without the nested
	// quantifiers; the last '@' before the host ends it.
	credentialsFragment = `(?:\S+@)?`

	ipv4ExcludedFragment = `
		(?!(?:10|127)(?:\.[0-9]{1,3}){3})
		(?!(?:169\.254|192\.168)(?:\.[0-9]{1,3}){2})
		(?!172\.(?:1[6-9]|2[0-9]|3[0-1])(?:\.[0-9]{1,3}){2})`

	ipv4Fragment = `
		(?:[1-9][0-9]?|1[0-9][0-9]|2[01][0-9]|22[0-3])
		(?:\.(?:1?[0-9]{1,2}|2[0-4][0-9]|25[0-5])){2}
		(?:\.(?:[1-9][0-9]?|1[0-9][0-9]|2[0-4][0-9]|25[0-4]))`

	ipv4OctetFragment = `(?:25[0-5]|(?:2[0-4]|1?[0-9])?[0-9])`

	// labels may contain '-' and '_' runs, never at either end
	hostnameFragment = `(?:[a-z0-9\u00a1-\uffff]+(?:[-_]+[a-z0-9\u00a1-\uffff]+)*)`
	domainFragment   = `(?:\.[a-z0-9\u00a1-\uffff]+(?:[-_]+[a-z0-9\u00a1-\uffff]+)*)*`
	tldFragment      = `(?:\.(?:[a-z\u00a1-\uffff]{2,}))\.?`

	// legacy flavour: hyphen is the only label separator
	jsHostnameFragment = `(?:[a-z0-9\u00a1-\uffff]+(?:-+[a-z0-9\u00a1-\uffff]+)*)`
	jsDomainFragment   = `(?:\.[a-z0-9\u00a1-\uffff]+(?:-+[a-z0-9\u00a1-\uffff]+)*)*`

	portFragment = `(?::[0-9]{2,5})?`
	pathFragment = `(?:[/?#]\S*)?`
)

const hex = `[0-9a-f]{1,4}`

// ipv6Fragment enumerates the full and every compressed form, plus the
// link-local zone and IPv4-mapped/embedded suffixes.
var ipv6Fragment = strings.NewReplacer("H", hex, "O", ipv4OctetFragment).Replace(`
	(?:
		(?:H:){7}H
		| (?:H:){1,7}:
		| (?:H:){1,6}:H
		| (?:H:){1,5}(?::H){1,2}
		| (?:H:){1,4}(?::H){1,3}
		| (?:H:){1,3}(?::H){1,4}
		| (?:H:){1,2}(?::H){1,5}
		| H:(?:(?::H){1,6})
		| :(?:(?::H){1,7}|:)
		| fe80:(?::[0-9a-f]{0,4}){0,4}%[0-9a-z]+
		| ::(?:ffff(?::0{1,4})?:)?(?:O\.){3}O
		| (?:H:){1,4}:(?:O\.){3}O
	)`)

// hostFragment is the alternation tried after the private range exclusion:
// IPv4, bracketed or bare IPv6, then a generic hostname.
var hostFragment = `
	(?:
		` + ipv4ExcludedFragment + `
		` + ipv4Fragment + `
		| \[` + ipv6Fragment + `\]
		| ` + ipv6Fragment + `
		| ` + hostnameFragment + domainFragment + tldFragment + `
	)`

// freeSpacingBase is the credentials-to-path part of the pattern used by
// the validation and parsing modes.
var freeSpacingBase = strings.Join([]string{
	"",
	"# user:pass authentication",
	credentialsFragment,
	"",
	"# private & local networks are excluded before the dotted quad,",
	"# the quad itself excludes 0.0.0.0, >= 224.0.0.0 and .0/.255 hosts",
	"# then IPv6 literals and finally host name, domain name and TLD",
	hostFragment,
	"",
	"# port number",
	portFragment,
	"",
	"# resource path",
	pathFragment,
	"",
}, "\n")

var jsBase = compact(
	credentialsFragment +
		`(?:` + ipv4ExcludedFragment + ipv4Fragment +
		`|` + jsHostnameFragment + jsDomainFragment + tldFragment + `)` +
		portFragment +
		pathFragment,
)

func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
