package logtable

import (
	"strconv"
	"strings"
	"time"

	"github.com/cloo-solutions/tryonadmin/internal/domain"
)

const dateOnlyLayout = "2006-01-02"

// criterion is one parsed filter value. raw keeps the caller's input so the
// active criteria can be echoed back unchanged.
type criterion struct {
	field Field
	raw   string
	kind  matchKind
	str   string
	num   int64
	flt   float64
	until time.Time
}

// parseCriterion converts raw input for f. The second result is false when
// the input is empty or cannot be read as the field's type, which callers
// treat as "no constraint".
func parseCriterion(f Field, raw string) (criterion, bool) {
	info, ok := fields[f]
	if !ok || info.match == matchNone || raw == "" {
		return criterion{}, false
	}

	c := criterion{field: f, raw: raw, kind: info.match}
	switch info.match {
	case matchSubstring, matchExactString:
		c.str = raw
	case matchExactInt:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return criterion{}, false
		}
		c.num = n
	case matchExactFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return criterion{}, false
		}
		c.flt = v
	case matchOnOrBefore:
		t, ok := parseUntil(strings.TrimSpace(raw))
		if !ok {
			return criterion{}, false
		}
		c.until = t
	}
	return c, true
}

// parseUntil accepts an RFC 3339 instant or a calendar date. A bare date
// covers that whole UTC day.
func parseUntil(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if d, err := time.Parse(dateOnlyLayout, s); err == nil {
		return d.Add(24*time.Hour - time.Nanosecond), true
	}
	return time.Time{}, false
}

func (c criterion) matches(r *domain.LogRecord) bool {
	switch c.kind {
	case matchSubstring:
		return strings.Contains(stringValue(r, c.field), c.str)
	case matchExactString:
		return stringValue(r, c.field) == c.str
	case matchExactInt:
		return intValue(r, c.field) == c.num
	case matchExactFloat:
		return r.GuidanceScale == c.flt
	case matchOnOrBefore:
		return r.HasTimestamp() && !r.CreatedAt.After(c.until)
	}
	return true
}

// matchesAll is the AND of every active criterion.
func matchesAll(criteria []criterion, r *domain.LogRecord) bool {
	for _, c := range criteria {
		if !c.matches(r) {
			return false
		}
	}
	return true
}
