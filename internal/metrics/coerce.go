package metrics

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/jackc/pgx/v5/pgtype"
)

var errNull = errors.New("value is null")

// columnKey folds "SessionDate", "session_date" and "SESSION_DATE" together.
func columnKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", ""))
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, errNull
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("overflows int64")
		}
		return int64(x), nil
	case float32:
		return floatToInt(float64(x))
	case float64:
		return floatToInt(x)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not an integer")
		}
		return n, nil
	case pgtype.Int2:
		if !x.Valid {
			return 0, errNull
		}
		return int64(x.Int16), nil
	case pgtype.Int4:
		if !x.Valid {
			return 0, errNull
		}
		return int64(x.Int32), nil
	case pgtype.Int8:
		if !x.Valid {
			return 0, errNull
		}
		return x.Int64, nil
	case pgtype.Numeric:
		f, err := toFloat(x)
		if err != nil {
			return 0, err
		}
		return floatToInt(f)
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}

func floatToInt(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer")
	}
	return int64(f), nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, errNull
	case float64:
		if math.IsNaN(x) {
			return 0, errNull
		}
		return x, nil
	case float32:
		if math.IsNaN(float64(x)) {
			return 0, errNull
		}
		return float64(x), nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(x), ",", ".")
		if s == "" {
			return 0, errNull
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number")
		}
		return f, nil
	case pgtype.Float4:
		if !x.Valid {
			return 0, errNull
		}
		return float64(x.Float32), nil
	case pgtype.Float8:
		if !x.Valid {
			return 0, errNull
		}
		return x.Float64, nil
	case pgtype.Numeric:
		if !x.Valid || x.NaN {
			return 0, errNull
		}
		f, err := x.Float64Value()
		if err != nil {
			return 0, err
		}
		return f.Float64, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	return float64(n), nil
}

func toOptFloat(v any) (*float64, error) {
	f, err := toFloat(v)
	if errors.Is(err, errNull) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func toOptInt(v any) (*int, error) {
	n, err := toInt64(v)
	if errors.Is(err, errNull) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	i := int(n)
	return &i, nil
}

func toDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, errNull
	case time.Time:
		return models.DayOf(x), nil
	case pgtype.Date:
		if !x.Valid {
			return time.Time{}, errNull
		}
		return models.DayOf(x.Time), nil
	case pgtype.Timestamp:
		if !x.Valid {
			return time.Time{}, errNull
		}
		return models.DayOf(x.Time), nil
	case pgtype.Timestamptz:
		if !x.Valid {
			return time.Time{}, errNull
		}
		return models.DayOf(x.Time), nil
	case string:
		s := strings.TrimSpace(x)
		if t, err := time.Parse(models.DateLayout, s); err == nil {
			return t, nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return models.DayOf(t), nil
		}
		if t, err := time.Parse("02.01.2006", s); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("not a date")
	}
	return time.Time{}, fmt.Errorf("unsupported type %T", v)
}

func toOptTimeOfDay(v any) (*models.TimeOfDay, error) {
	var t models.TimeOfDay
	switch x := v.(type) {
	case nil:
		return nil, nil
	case models.TimeOfDay:
		t = x
	case *models.TimeOfDay:
		return x, nil
	case pgtype.Time:
		if !x.Valid {
			return nil, nil
		}
		t = models.TimeOfDayFromSeconds(int(x.Microseconds / 1_000_000))
	case time.Time:
		t = models.TimeOfDay{Hour: x.Hour(), Minute: x.Minute(), Second: x.Second()}
	case time.Duration:
		t = models.TimeOfDayFromSeconds(int(x / time.Second))
	case string:
		if strings.TrimSpace(x) == "" {
			return nil, nil
		}
		parsed, err := models.ParseTimeOfDay(x)
		if err != nil {
			return nil, err
		}
		t = parsed
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
	return &t, nil
}

func toOptString(v any) (*string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return &x, nil
	case []byte:
		s := string(x)
		return &s, nil
	case pgtype.Text:
		if !x.Valid {
			return nil, nil
		}
		return &x.String, nil
	}
	return nil, fmt.Errorf("unsupported type %T", v)
}

func toString(v any) (string, error) {
	s, err := toOptString(v)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", nil
	}
	return *s, nil
}
