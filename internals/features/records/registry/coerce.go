package registry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// FieldError menandai nilai yang tidak bisa dikonversi ke Kind field-nya.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return fmt.Sprintf("field %s: %v", e.Field, e.Err) }
func (e *FieldError) Unwrap() error { return e.Err }

var errUnsupported = errors.New("unsupported value type")

// Coerce menormalisasi satu nilai input untuk field ini.
func (f Field) Coerce(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && s == "" {
		return nil, nil
	}

	switch f.Kind {
	case KindInt:
		return coerceInt(v)
	case KindNumber:
		return coerceNumber(v)
	case KindDate:
		return coerceDate(v)
	case KindDatetime:
		return coerceDatetime(v)
	default:
		return coerceText(v)
	}
}

func coerceText(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return nil, errUnsupported
	}
}

func coerceInt(v any) (any, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		if t != math.Trunc(t) {
			return nil, fmt.Errorf("%v is not an integer", t)
		}
		return int64(t), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return nil, err
		}
		return n, nil
	case bool:
		if t {
			return int64(1), nil
		}
		return int64(0), nil
	default:
		return nil, errUnsupported
	}
}

func coerceNumber(v any) (any, error) {
	switch t := v.(type) {
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case float32:
		return float64(t), nil
	case float64:
		return t, nil
	case string:
		// "150.000" gaya rupiah tidak diterima; client wajib kirim angka polos.
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, errUnsupported
	}
}

func coerceDate(v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t.Format(DateLayout), nil
	case string:
		s := strings.TrimSpace(t)
		if d, err := time.Parse(DateLayout, s); err == nil {
			return d.Format(DateLayout), nil
		}
		if d, err := time.Parse(time.RFC3339, s); err == nil {
			return d.Format(DateLayout), nil
		}
		return nil, fmt.Errorf("invalid date %q", t)
	default:
		return nil, errUnsupported
	}
}

func coerceDatetime(v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339), nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateTimeLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return d.UTC().Format(time.RFC3339), nil
			}
		}
		return nil, fmt.Errorf("invalid datetime %q", t)
	default:
		return nil, errUnsupported
	}
}

// Present merapikan nilai hasil baca store supaya bentuknya sama di postgres dan sqlite:
// []byte → string, tanggal → "YYYY-MM-DD", numeric string → float64.
func (f Field) Present(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		v = string(t)
	}

	switch f.Kind {
	case KindDate:
		switch t := v.(type) {
		case time.Time:
			return t.Format(DateLayout)
		case string:
			if len(t) >= len(DateLayout) {
				if d, err := time.Parse(DateLayout, t[:len(DateLayout)]); err == nil {
					return d.Format(DateLayout)
				}
			}
		}
	case KindDatetime:
		if t, ok := v.(time.Time); ok {
			return t.UTC().Format(time.RFC3339)
		}
	case KindNumber:
		switch t := v.(type) {
		case string:
			if n, err := strconv.ParseFloat(t, 64); err == nil {
				return n
			}
		case int64:
			return float64(t)
		}
	case KindInt:
		switch t := v.(type) {
		case string:
			if n, err := strconv.ParseInt(t, 10, 64); err == nil {
				return n
			}
		case int32:
			return int64(t)
		case float64:
			return int64(t)
		}
	}
	return v
}
