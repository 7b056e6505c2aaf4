package store

import (
	"strconv"
	"time"
)

// Row is a single query result keyed by column name. Both drivers return
// the same shape so repositories scan rows identically regardless of the
// active engine. Accessors absorb the cross-engine type differences
// (SQLite integers for booleans, timestamp strings vs time.Time).
type Row map[string]any

// Has reports whether the column is present and non-NULL.
func (r Row) Has(col string) bool {
	v, ok := r[col]
	return ok && v != nil
}

// Int64 returns the column as an integer, or 0 for NULL/missing.
func (r Row) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}

// NullInt64 returns the column as *int64, nil for NULL.
func (r Row) NullInt64(col string) *int64 {
	if !r.Has(col) {
		return nil
	}
	n := r.Int64(col)
	return &n
}

// String returns the column as a string, or "" for NULL/missing.
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

// NullString returns the column as *string, nil for NULL.
func (r Row) NullString(col string) *string {
	if !r.Has(col) {
		return nil
	}
	s := r.String(col)
	return &s
}

// Bool returns the column as a boolean. SQLite stores booleans as 0/1
// integers; PostgreSQL returns real booleans.
func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

// timeLayouts are the timestamp encodings seen across both engines.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time returns the column as a time.Time, zero for NULL or unparseable.
func (r Row) Time(col string) time.Time {
	switch v := r[col].(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// NullTime returns the column as *time.Time, nil for NULL.
func (r Row) NullTime(col string) *time.Time {
	if !r.Has(col) {
		return nil
	}
	t := r.Time(col)
	if t.IsZero() {
		return nil
	}
	return &t
}
