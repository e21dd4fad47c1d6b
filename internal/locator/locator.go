// Package locator finds the most relevant disclosure document for a company
// by scanning the EDINET daily index backward from a reference date.
package locator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/yamato-research/kessan-cli/pkg/edinet"
)

// DefaultLookbackDays bounds the backward scan over the daily index.
const DefaultLookbackDays = 30

// Tier identifies a disclosure form class. Earlier tiers are strictly
// preferred: an annual report always beats a quarterly one filed later.
type Tier struct {
	OrdinanceCode string
	FormCode      string
	Label         string
}

// DefaultTiers orders annual ahead of quarterly ahead of semi-annual.
func DefaultTiers() []Tier {
	return []Tier{
		{OrdinanceCode: "010", FormCode: "030000", Label: "annual"},
		{OrdinanceCode: "010", FormCode: "043000", Label: "quarterly"},
		{OrdinanceCode: "010", FormCode: "053000", Label: "semi-annual"},
	}
}

// DayCount records one scanned index day.
type DayCount struct {
	Date   string
	Count  int
	Failed bool
}

// Diagnostics describes how a locate call unfolded, whether or not it found
// a document.
type Diagnostics struct {
	SecCode     string
	DaysScanned int
	Days        []DayCount
	MatchTier   string
	MatchDate   string
}

// NotFoundError reports an exhausted scan. It keeps the per-day result
// counts so a caller can tell an empty index from a matching failure.
type NotFoundError struct {
	SecCode string
	Days    []DayCount
}

func (e *NotFoundError) Error() string {
	total := 0
	failed := 0
	for _, d := range e.Days {
		total += d.Count
		if d.Failed {
			failed++
		}
	}
	return fmt.Sprintf("locator: no disclosure for %s in %d days (%d documents seen, %d days failed)",
		e.SecCode, len(e.Days), total, failed)
}

// Lister is the slice of the EDINET client the locator needs.
type Lister interface {
	ListDocuments(ctx context.Context, date time.Time) ([]edinet.Document, error)
}

// Locator scans the daily disclosure index for a company's latest filing.
type Locator struct {
	client   Lister
	tiers    []Tier
	matchers []Matcher
	lookback int
}

// Option configures a Locator.
type Option func(*Locator)

// WithTiers overrides the form-code preference order.
func WithTiers(tiers []Tier) Option {
	return func(l *Locator) { l.tiers = tiers }
}

// WithMatchers overrides the identifier fallback chain.
func WithMatchers(ms []Matcher) Option {
	return func(l *Locator) { l.matchers = ms }
}

// WithLookback sets how many days back from the reference date to scan.
func WithLookback(days int) Option {
	return func(l *Locator) {
		if days > 0 {
			l.lookback = days
		}
	}
}

// New builds a Locator over the given index client.
func New(client Lister, opts ...Option) *Locator {
	l := &Locator{
		client:   client,
		tiers:    DefaultTiers(),
		matchers: DefaultMatchers(),
		lookback: DefaultLookbackDays,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate walks the index backward from refDate and returns the first day's
// best matching document. The scan short-circuits on the first hit; a failed
// index day is recorded and skipped, never fatal on its own.
func (l *Locator) Locate(ctx context.Context, secCode string, refDate time.Time) (*edinet.Document, *Diagnostics, error) {
	code := NormalizeSecCode(secCode)
	if code == "" {
		return nil, nil, eris.Errorf("locator: invalid security code %q", secCode)
	}

	diag := &Diagnostics{SecCode: code}
	for i := 0; i < l.lookback; i++ {
		if err := ctx.Err(); err != nil {
			return nil, diag, eris.Wrap(err, "locator: scan canceled")
		}
		day := refDate.AddDate(0, 0, -i)
		date := day.Format("2006-01-02")
		diag.DaysScanned++

		docs, err := l.client.ListDocuments(ctx, day)
		if err != nil {
			zap.L().Warn("index day failed, skipping",
				zap.String("date", date), zap.Error(err))
			diag.Days = append(diag.Days, DayCount{Date: date, Failed: true})
			continue
		}
		diag.Days = append(diag.Days, DayCount{Date: date, Count: len(docs)})

		doc, tier := l.pick(docs, code)
		if doc != nil {
			diag.MatchTier = tier.Label
			diag.MatchDate = date
			zap.L().Info("disclosure located",
				zap.String("sec_code", code),
				zap.String("doc_id", doc.DocID),
				zap.String("tier", tier.Label),
				zap.String("date", date))
			return doc, diag, nil
		}
	}
	return nil, diag, &NotFoundError{SecCode: code, Days: diag.Days}
}

// pick selects the best document of one index day: the first tier with any
// match wins, and within a tier the newest filing wins.
func (l *Locator) pick(docs []edinet.Document, code string) (*edinet.Document, Tier) {
	for _, tier := range l.tiers {
		var hits []edinet.Document
		for _, doc := range docs {
			if doc.OrdinanceCode != tier.OrdinanceCode || doc.FormCode != tier.FormCode {
				continue
			}
			if l.matchesAny(doc, code) {
				hits = append(hits, doc)
			}
		}
		if len(hits) == 0 {
			continue
		}
		sort.SliceStable(hits, func(i, j int) bool {
			return sortKey(hits[i]) > sortKey(hits[j])
		})
		best := hits[0]
		return &best, tier
	}
	return nil, Tier{}
}

func (l *Locator) matchesAny(doc edinet.Document, code string) bool {
	for _, m := range l.matchers {
		if m.Matches(doc, code) {
			return true
		}
	}
	return false
}

// sortKey orders filings within a tier: submission timestamp when present,
// period end otherwise. ISO timestamps compare correctly as strings.
func sortKey(doc edinet.Document) string {
	if doc.SubmitDateTime != "" {
		return doc.SubmitDateTime
	}
	return doc.PeriodEnd
}

// NormalizeSecCode reduces a ticker to the 4-digit code used in index rows:
// "7203.T" and the 5-digit EDINET form "72030" both become "7203".
func NormalizeSecCode(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(strings.ToUpper(s), ".T")
	if len(s) == 5 && strings.HasSuffix(s, "0") {
		s = s[:4]
	}
	if len(s) != 4 {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s
}
