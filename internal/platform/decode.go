package platform

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cloo-solutions/tryonadmin/internal/domain"
	"github.com/valyala/fastjson"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// DecodeLogRecords reads a JSON array of log objects. Unknown keys are
// ignored and numeric fields may arrive as numbers or numeric strings. A
// body that is not an array, an element that is not an object, or an
// element without an id rejects the whole response.
func DecodeLogRecords(data []byte) ([]domain.LogRecord, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	items, err := v.Array()
	if err != nil {
		return nil, fmt.Errorf("expected a JSON array of logs: %w", err)
	}

	records := make([]domain.LogRecord, 0, len(items))
	for i, item := range items {
		if item.Type() != fastjson.TypeObject {
			return nil, fmt.Errorf("log at index %d is %s, not an object", i, item.Type())
		}
		r, err := decodeLogRecord(item)
		if err != nil {
			return nil, fmt.Errorf("log at index %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func decodeLogRecord(v *fastjson.Value) (domain.LogRecord, error) {
	r := domain.LogRecord{
		ID:             str(v, "id"),
		BusinessID:     str(v, "businessId"),
		UserID:         str(v, "userId"),
		ProductID:      str(v, "productId"),
		ClothType:      str(v, "clothType"),
		PersonImageURL: str(v, "personImageUrl"),
		ClothImageURL:  str(v, "clothImageUrl"),
		ResultImageURL: str(v, "resultImageUrl"),
	}
	if r.ID == "" {
		r.ID = str(v, "_id")
	}
	if r.ID == "" {
		return domain.LogRecord{}, fmt.Errorf("missing id")
	}

	steps, err := integer(v, "numInferenceSteps")
	if err != nil {
		return domain.LogRecord{}, err
	}
	if steps < math.MinInt32 || steps > math.MaxInt32 {
		return domain.LogRecord{}, fmt.Errorf("numInferenceSteps: out of range")
	}
	r.NumInferenceSteps = int(steps)

	if r.Seed, err = integer(v, "seed"); err != nil {
		return domain.LogRecord{}, err
	}
	if r.GuidanceScale, err = float(v, "guidanceScale"); err != nil {
		return domain.LogRecord{}, err
	}
	if r.CreatedAt, err = timestamp(v, "createdAt"); err != nil {
		return domain.LogRecord{}, err
	}
	return r, nil
}

// str returns a string field, rendering numbers as text since ids are
// sometimes numeric.
func str(v *fastjson.Value, key string) string {
	f := v.Get(key)
	if f == nil {
		return ""
	}
	switch f.Type() {
	case fastjson.TypeString:
		return string(f.GetStringBytes())
	case fastjson.TypeNumber:
		return f.String()
	}
	return ""
}

func integer(v *fastjson.Value, key string) (int64, error) {
	f := v.Get(key)
	if f == nil || f.Type() == fastjson.TypeNull {
		return 0, nil
	}
	switch f.Type() {
	case fastjson.TypeNumber:
		if n, err := f.Int64(); err == nil {
			return n, nil
		}
		x, err := f.Float64()
		if err != nil || x != math.Trunc(x) {
			return 0, fmt.Errorf("%s: not an integer", key)
		}
		if x < math.MinInt64 || x >= math.MaxInt64 {
			return 0, fmt.Errorf("%s: out of range", key)
		}
		return int64(x), nil
	case fastjson.TypeString:
		s := strings.TrimSpace(string(f.GetStringBytes()))
		if s == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%s: unexpected %s", key, f.Type())
}

func float(v *fastjson.Value, key string) (float64, error) {
	f := v.Get(key)
	if f == nil || f.Type() == fastjson.TypeNull {
		return 0, nil
	}
	switch f.Type() {
	case fastjson.TypeNumber:
		return f.Float64()
	case fastjson.TypeString:
		s := strings.TrimSpace(string(f.GetStringBytes()))
		if s == "" {
			return 0, nil
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return x, nil
	}
	return 0, fmt.Errorf("%s: unexpected %s", key, f.Type())
}

// timestamp accepts ISO-8601 strings or epoch milliseconds. A missing or
// empty value yields the zero time.
func timestamp(v *fastjson.Value, key string) (time.Time, error) {
	f := v.Get(key)
	if f == nil || f.Type() == fastjson.TypeNull {
		return time.Time{}, nil
	}
	switch f.Type() {
	case fastjson.TypeNumber:
		ms, err := f.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: %w", key, err)
		}
		return time.UnixMilli(ms).UTC(), nil
	case fastjson.TypeString:
		s := strings.TrimSpace(string(f.GetStringBytes()))
		if s == "" {
			return time.Time{}, nil
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("%s: unrecognized timestamp %q", key, s)
	}
	return time.Time{}, fmt.Errorf("%s: unexpected %s", key, f.Type())
}
