package logtable

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/cloo-solutions/tryonadmin/internal/domain"
)

// Direction orders one sort key.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortKey is one (field, direction) pair of a SortSpec.
type SortKey struct {
	Field     Field     `json:"field"`
	Direction Direction `json:"direction"`
}

// SortSpec lists sort keys by priority; the first entry is the primary key.
// An empty spec keeps collection order.
type SortSpec []SortKey

// Validate reports the first key that names an unsortable field or an
// unknown direction.
func (s SortSpec) Validate() error {
	for _, k := range s {
		if !k.Field.IsSortable() {
			return fmt.Errorf("%w: field %q is not sortable", domain.ErrInvalidSort, k.Field)
		}
		if k.Direction != Asc && k.Direction != Desc {
			return fmt.Errorf("%w: direction %q", domain.ErrInvalidSort, k.Direction)
		}
	}
	return nil
}

// String renders the spec in the form accepted by ParseSortSpec.
func (s SortSpec) String() string {
	parts := make([]string, len(s))
	for i, k := range s {
		parts[i] = string(k.Field) + ":" + string(k.Direction)
	}
	return strings.Join(parts, ",")
}

// ParseSortSpec reads "field[:asc|desc],..." with ascending as default.
func ParseSortSpec(s string) (SortSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var spec SortSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, dir, found := strings.Cut(part, ":")
		key := SortKey{Field: Field(strings.TrimSpace(name)), Direction: Asc}
		if found {
			key.Direction = Direction(strings.ToLower(strings.TrimSpace(dir)))
		}
		spec = append(spec, key)
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func compareBy(a, b *domain.LogRecord, f Field) int {
	switch fields[f].match {
	case matchExactInt:
		return cmp.Compare(intValue(a, f), intValue(b, f))
	case matchExactFloat:
		return cmp.Compare(a.GuidanceScale, b.GuidanceScale)
	case matchOnOrBefore:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return strings.Compare(stringValue(a, f), stringValue(b, f))
}

// compareFunc builds the multi-key comparison for a validated spec. Ties on
// every key return 0 so a stable sort keeps collection order.
func (s SortSpec) compareFunc() func(a, b domain.LogRecord) int {
	return func(a, b domain.LogRecord) int {
		for _, k := range s {
			c := compareBy(&a, &b, k.Field)
			if c == 0 {
				continue
			}
			if k.Direction == Desc {
				return -c
			}
			return c
		}
		return 0
	}
}
