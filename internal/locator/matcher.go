package locator

import (
	"strings"

	"github.com/yamato-research/kessan-cli/pkg/edinet"
)

// Matcher decides whether a document belongs to the target security code.
// Matchers run as an ordered fallback chain; add new strategies here rather
// than branching inside the search loop.
type Matcher interface {
	Name() string
	Matches(doc edinet.Document, secCode string) bool
}

// DefaultMatchers returns the standard fallback chain: exact code, code in
// title, zero-padded variants, then the name-alias table.
func DefaultMatchers() []Matcher {
	return []Matcher{
		ExactMatcher{},
		TitleMatcher{},
		PaddedMatcher{},
		AliasMatcher{Aliases: defaultAliases},
	}
}

// ExactMatcher matches the normalized 4-digit security code exactly.
type ExactMatcher struct{}

func (ExactMatcher) Name() string { return "exact" }

func (ExactMatcher) Matches(doc edinet.Document, secCode string) bool {
	return secCode != "" && doc.SecCode == secCode
}

// TitleMatcher matches the code appearing inside the document title or
// description.
type TitleMatcher struct{}

func (TitleMatcher) Name() string { return "title" }

func (TitleMatcher) Matches(doc edinet.Document, secCode string) bool {
	if secCode == "" {
		return false
	}
	return strings.Contains(doc.Title, secCode) || strings.Contains(doc.DocDescription, secCode)
}

// PaddedMatcher matches zero-padded variants: EDINET security codes carry a
// trailing check digit, so 7203 is listed as 72030.
type PaddedMatcher struct{}

func (PaddedMatcher) Name() string { return "padded" }

func (PaddedMatcher) Matches(doc edinet.Document, secCode string) bool {
	if secCode == "" {
		return false
	}
	return doc.SecCode == secCode+"0" || doc.SecCode == "0"+secCode
}

// AliasMatcher matches well-known filer names as a last resort, for filings
// whose index rows omit the security code entirely.
type AliasMatcher struct {
	Aliases map[string][]string // security code -> filer name substrings
}

func (AliasMatcher) Name() string { return "alias" }

func (m AliasMatcher) Matches(doc edinet.Document, secCode string) bool {
	for _, name := range m.Aliases[secCode] {
		if strings.Contains(doc.FilerName, name) {
			return true
		}
	}
	return false
}

var defaultAliases = map[string][]string{
	"7203": {"トヨタ自動車"},
	"9984": {"ソフトバンクグループ"},
	"8306": {"三菱ＵＦＪフィナンシャル"},
	"4519": {"中外製薬"},
	"6758": {"ソニーグループ"},
}
