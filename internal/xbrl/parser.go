// Package xbrl extracts dated accounting facts from EDINET disclosure
// archives (ZIPs of XBRL instance documents).
//
// Real-world instance documents mix namespace prefixes and taxonomy versions
// inconsistently, so matching is done on local tag names only, and every
// failure below the archive level (one member, one context, one fact) is
// skipped rather than surfaced.
package xbrl

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/yamato-research/kessan-cli/internal/series"
	"github.com/yamato-research/kessan-cli/internal/taxonomy"
)

// ExtractSeries parses every XBRL/XML member of the archive and returns the
// merged per-concept observation series. Members that fail to parse are
// skipped; an error is returned only when the archive itself is unreadable.
func ExtractSeries(zipBytes []byte, reg *taxonomy.Registry) (series.Bundle, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return nil, eris.Wrap(err, "xbrl: open archive")
	}

	bundle := series.Bundle{}
	for _, member := range zr.File {
		name := strings.ToLower(member.Name)
		if !strings.HasSuffix(name, ".xbrl") && !strings.HasSuffix(name, ".xml") {
			continue
		}

		rc, err := member.Open()
		if err != nil {
			zap.L().Debug("xbrl: skipping unreadable member",
				zap.String("member", member.Name), zap.Error(err))
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			zap.L().Debug("xbrl: skipping member read failure",
				zap.String("member", member.Name), zap.Error(err))
			continue
		}

		if err := extractMember(data, reg, bundle); err != nil {
			zap.L().Debug("xbrl: skipping malformed member",
				zap.String("member", member.Name), zap.Error(err))
		}
	}

	return bundle, nil
}

// extractMember parses one instance document into the bundle. Facts are
// staged and merged only when the whole document tokenizes cleanly, so a
// document truncated mid-stream contributes nothing.
func extractMember(data []byte, reg *taxonomy.Registry, bundle series.Bundle) error {
	contexts, err := parseContexts(data)
	if err != nil {
		return err
	}

	type fact struct {
		concept string
		date    time.Time
		value   float64
	}
	var staged []fact

	dec := newDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return eris.Wrap(err, "xbrl: read token")
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		concept, ok := reg.ConceptForTag(se.Name.Local)
		if !ok {
			continue
		}
		ctxRef := attr(se, "contextRef")
		if ctxRef == "" {
			continue
		}
		date, ok := contexts[ctxRef]
		if !ok {
			continue
		}

		text, err := elementText(dec, se)
		if err != nil {
			return err
		}
		value, err := parseNumeric(text)
		if err != nil {
			continue
		}

		staged = append(staged, fact{concept: concept, date: date, value: value})
	}

	// Last write wins on duplicate (concept, date) within and across members.
	for _, f := range staged {
		bundle.Set(f.concept, f.date, f.value)
	}
	return nil
}

// parseContexts maps context identifiers to calendar end dates. A context
// without a parseable endDate or instant descendant is dropped.
func parseContexts(data []byte) (map[string]time.Time, error) {
	contexts := map[string]time.Time{}

	dec := newDecoder(bytes.NewReader(data))
	var ctxID string
	var ctxDepth int
	var ctxDate *time.Time

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "xbrl: read token")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if ctxID == "" {
				if t.Name.Local == "context" {
					if id := attr(t, "id"); id != "" {
						ctxID = id
						ctxDepth = 1
						ctxDate = nil
					}
				}
				continue
			}
			ctxDepth++
			if local := t.Name.Local; local == "endDate" || local == "instant" {
				text, err := elementText(dec, t)
				if err != nil {
					return nil, err
				}
				ctxDepth--
				if d, ok := parseDate(text); ok {
					ctxDate = &d
				}
			}
		case xml.EndElement:
			if ctxID == "" {
				continue
			}
			ctxDepth--
			if ctxDepth == 0 {
				if ctxDate != nil {
					contexts[ctxID] = *ctxDate
				}
				ctxID = ""
			}
		}
	}

	return contexts, nil
}

// parseDate reads a calendar date from the first ten characters of the
// text, tolerating time and timezone suffixes.
func parseDate(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if len(s) > 10 {
		s = s[:10]
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func parseNumeric(text string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	return strconv.ParseFloat(s, 64)
}

// elementText consumes tokens up to the element's end tag and returns the
// concatenated character data.
func elementText(dec *xml.Decoder, start xml.StartElement) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", eris.Wrapf(err, "xbrl: unterminated element %s", start.Name.Local)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 1 {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "xbrl: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}
	return dec
}
