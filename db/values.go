package db

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// normalizeValue converts a decoded pgx value into something that
// serializes to readable JSON. Types JSON cannot express are rendered
// as strings.
func normalizeValue(v any, oid uint32) any {
	switch val := v.(type) {
	case nil:
		return nil
	case [16]byte:
		return uuid.UUID(val).String()
	case []byte:
		return fmt.Sprintf("\\x%x", val)
	case time.Time:
		switch oid {
		case pgtype.DateOID:
			return val.Format("2006-01-02")
		case pgtype.TimestampOID:
			return val.Format("2006-01-02 15:04:05.999999")
		default:
			return val.Format("2006-01-02 15:04:05.999999-07:00")
		}
	case pgtype.Numeric:
		return numericValue(val)
	case float32:
		return finiteOrString(float64(val))
	case float64:
		return finiteOrString(val)
	case string, bool, int, int8, int16, int32, int64, uint8, uint16, uint32, uint64,
		map[string]any, []any:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

func numericValue(n pgtype.Numeric) any {
	if !n.Valid {
		return nil
	}
	if n.NaN {
		return "NaN"
	}
	switch n.InfinityModifier {
	case pgtype.Infinity:
		return "Infinity"
	case pgtype.NegativeInfinity:
		return "-Infinity"
	}
	v, err := n.Value()
	if err != nil {
		return fmt.Sprintf("%v", n)
	}
	if s, ok := v.(string); ok {
		return json.Number(s)
	}
	return v
}

func finiteOrString(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprintf("%v", f)
	}
	return f
}
