// Package extract turns located elements into record fields.
//
// A field is described by an ordered list of probes. Each probe resolves
// candidate elements through the resolver, reads their text or an attribute
// and applies filters; the first candidate that passes every filter supplies
// the value. Fields that no probe can fill are left empty.
package extract

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/resolve"
)

// Probe is one way of reading a field from a scope element.
type Probe struct {
	// Strategies locate candidate elements inside the scope. Every element
	// of the first satisfiable strategy is a candidate.
	Strategies linkbot.StrategyList

	// Attribute is read instead of the rendered text when set.
	Attribute string

	// Skip ignores the first Skip candidates.
	Skip int

	// Keywords, when set, require the candidate to contain one of them.
	Keywords []string

	// Reject discards candidates containing any of these substrings.
	Reject []string

	// Patterns, when set, require one of them to match. The first capture
	// group of the first matching pattern becomes the value.
	Patterns []*regexp.Regexp

	// Transform rewrites the raw value before the filters run.
	Transform func(string) string

	// Raw disables the line and markup cleanup for attribute values.
	Raw bool
}

// Field is a named value and the probes that can fill it, in priority order.
type Field struct {
	Name   string
	Probes []Probe

	// DistinctFrom lists fields extracted earlier that this field must not
	// equal. Equal candidates are skipped and an equal final value is cleared.
	DistinctFrom []string
}

// Schema is an ordered list of fields. Fields are extracted in order so
// DistinctFrom can only refer to earlier fields.
type Schema []Field

// Extractor applies schemas to elements.
type Extractor struct {
	Resolver *resolve.Resolver
	Logger   *slog.Logger
}

// NewExtractor returns an Extractor using r.
func NewExtractor(r *resolve.Resolver, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{Resolver: r, Logger: logger}
}

// Extract reads every field of schema from scope. It never fails: a field
// whose probes all miss is "". Only a done context stops extraction early.
func (e *Extractor) Extract(ctx context.Context, scope linkbot.Scope, schema Schema) map[string]string {
	values := make(map[string]string, len(schema))
	for _, f := range schema {
		if ctx.Err() != nil {
			break
		}
		v := e.field(ctx, scope, f, values)
		for _, other := range f.DistinctFrom {
			if v != "" && v == values[other] {
				v = ""
			}
		}
		values[f.Name] = v
	}
	return values
}

func (e *Extractor) field(ctx context.Context, scope linkbot.Scope, f Field, values map[string]string) string {
	for _, p := range f.Probes {
		candidates, err := e.Resolver.All(ctx, scope, p.Strategies)
		if err != nil {
			return ""
		}
		if p.Skip > 0 {
			if p.Skip >= len(candidates) {
				continue
			}
			candidates = candidates[p.Skip:]
		}
		for _, c := range candidates {
			v, ok := e.read(ctx, c, p)
			if !ok || !accept(p, f, v, values) {
				continue
			}
			return v
		}
	}
	return ""
}

// read returns the probe's value for one candidate. Stale or failing
// candidates are skipped.
func (e *Extractor) read(ctx context.Context, el linkbot.Element, p Probe) (string, bool) {
	var v string
	if p.Attribute != "" {
		attr, ok, err := el.Attribute(ctx, p.Attribute)
		if err != nil || !ok {
			return "", false
		}
		v = attr
	} else {
		text, err := el.Text(ctx)
		if err != nil {
			e.Logger.Debug("candidate unreadable", "err", err)
			return "", false
		}
		v = text
	}

	if p.Transform != nil {
		v = p.Transform(v)
	}
	if len(p.Patterns) > 0 {
		var matched bool
		for _, re := range p.Patterns {
			if m := re.FindStringSubmatch(v); m != nil {
				if len(m) > 1 {
					v = m[1]
				} else {
					v = m[0]
				}
				matched = true
				break
			}
		}
		if !matched {
			return "", false
		}
	}
	if !p.Raw {
		v = Clean(v)
	} else {
		v = strings.TrimSpace(v)
	}
	return v, v != ""
}

func accept(p Probe, f Field, v string, values map[string]string) bool {
	if len(p.Keywords) > 0 && !containsAny(v, p.Keywords) {
		return false
	}
	if containsAny(v, p.Reject) {
		return false
	}
	for _, other := range f.DistinctFrom {
		if v == values[other] {
			return false
		}
	}
	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var markupRe = regexp.MustCompile(`<[^>]*>`)

// Clean normalizes an extracted value: it keeps only the first line, strips
// markup-looking fragments and trims whitespace.
func Clean(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	s = markupRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
