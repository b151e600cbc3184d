// Package normalize maps the admin API's response shapes onto the canonical records in the types package.
//
// Two envelope styles are in circulation: the generic {"results": [...]} and the legacy
// resource-named envelope, e.g. {"leads": [...]}. Field names also drifted between backend versions
// (type/destination_type, enabled/is_enabled, config/config_json). Every lookup here takes the
// known names in a fixed preference order, current name first.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	leadadmin "github.com/leadroute/leadadmin"
)

// Record is a single JSON object from a response, with its fields left undecoded
type Record struct {
	fields map[string]json.RawMessage
	raw    json.RawMessage
}

// ParseRecord decodes a JSON object. Anything other than an object is an error.
func ParseRecord(raw json.RawMessage) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Record{}, fmt.Errorf("record is not a JSON object: %w", err)
	}
	if fields == nil {
		return Record{}, fmt.Errorf("record is null")
	}
	return Record{fields: fields, raw: raw}, nil
}

// Raw returns the record exactly as it was received
func (r Record) Raw() json.RawMessage {
	return r.raw
}

// Get returns the first of names that is present with a non-null value, or nil
func (r Record) Get(names ...string) json.RawMessage {
	for _, name := range names {
		v, ok := r.fields[name]
		if ok && !isNull(v) {
			return v
		}
	}
	return nil
}

// Has reports whether any of names is present with a non-null value
func (r Record) Has(names ...string) bool {
	return r.Get(names...) != nil
}

// String coalesces names into a string. Numbers and booleans are rendered in their JSON form
// so that numeric ids survive.
func (r Record) String(names ...string) string {
	return String(r.Get(names...))
}

// Bool coalesces names into a strict boolean, see Bool
func (r Record) Bool(names ...string) bool {
	return Bool(r.Get(names...))
}

// Int coalesces names into an int, see Int
func (r Record) Int(names ...string) int {
	return Int(r.Get(names...))
}

// Records extracts the list of records from a list response.
//
// The generic "results" key is preferred whenever it is present; otherwise resourceKey (the legacy
// envelope) is used; a bare top level array is accepted as is. A well-formed object carrying neither
// key yields an empty slice.
func Records(body json.RawMessage, resourceKey string) ([]Record, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || isNull(body) {
		return []Record{}, nil
	}

	var list json.RawMessage
	switch body[0] {
	case '[':
		list = body
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("decoding list envelope: %w", err)
		}
		if v, ok := envelope[leadadmin.ResultsKey]; ok && !isNull(v) {
			list = v
		} else if v, ok := envelope[resourceKey]; ok && !isNull(v) {
			list = v
		} else {
			return []Record{}, nil
		}
	default:
		return nil, fmt.Errorf("list response is neither an object nor an array")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(list, &items); err != nil {
		return nil, fmt.Errorf("decoding %s list: %w", resourceKey, err)
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		if isNull(item) {
			continue
		}
		rec, err := ParseRecord(item)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", resourceKey, i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// String converts a raw JSON value to a string. Strings are unquoted, null is empty,
// everything else is returned as its JSON text.
func String(v json.RawMessage) string {
	if v == nil || isNull(v) {
		return ""
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	return string(bytes.TrimSpace(v))
}

// Bool converts a raw JSON value to a strict boolean.
//
//   - booleans pass through
//   - numbers: 0 is false, anything else true (SQLite backends send 0/1)
//   - strings: "1", "true", "yes", "on" (any case) are true, anything else false
//   - null or absent is false
func Bool(v json.RawMessage) bool {
	if v == nil {
		return false
	}
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return false
	}
	switch v[0] {
	case 't':
		return string(v) == "true"
	case 'f', 'n':
		return false
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	default:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return false
		}
		return f != 0
	}
}

// Int converts a raw JSON number (or numeric string) to an int. Anything else is 0.
func Int(v json.RawMessage) int {
	s := String(v)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Time parses a timestamp sent either as a string (RFC 3339 or SQL datetime, UTC assumed when no zone
// is given) or as a unix epoch number (milliseconds when larger than 1e12, seconds otherwise).
// The zero time is returned when the value cannot be interpreted.
func Time(v json.RawMessage) time.Time {
	if v == nil || isNull(v) {
		return time.Time{}
	}
	if v[0] == '"' {
		s := strings.TrimSpace(String(v))
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Time{}
	}
	f, err := strconv.ParseFloat(string(bytes.TrimSpace(v)), 64)
	if err != nil || f <= 0 {
		return time.Time{}
	}
	if f > 1e12 {
		return time.UnixMilli(int64(f)).UTC()
	}
	return time.Unix(int64(f), 0).UTC()
}

// Unmarshal decodes data into v like json.Unmarshal, except that numbers are kept as json.Number
// so that large integers in configuration objects survive a decode/encode round trip.
func Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after top-level value")
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}
