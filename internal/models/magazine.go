package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenreRef points at an entry of the genre catalog
type GenreRef struct {
	OptionID int `json:"optionId"`
}

// ReadingPeriod is one submission window of a magazine
type ReadingPeriod struct {
	Theme    string   `json:"theme"`
	Deadline Deadline `json:"deadline"`
}

// Magazine is a record as supplied by the upstream feed
type Magazine struct {
	Name                    string          `json:"name"`
	Description             string          `json:"description"`
	Genres                  []GenreRef      `json:"genres"`
	CurrentTheme            string          `json:"currentTheme"`
	Country                 string          `json:"country"`
	YearFounded             FlexInt         `json:"yearFounded"`
	ReadingPeriods          []ReadingPeriod `json:"readingPeriods"`
	ResponseDays            FlexString      `json:"responseDays"`
	SimultaneousSubmissions bool            `json:"simultaneousSubmissions"`
}

// GenreIDs returns the option ids of the magazine's genres in order
func (m Magazine) GenreIDs() []int {
	ids := make([]int, len(m.Genres))
	for i, g := range m.Genres {
		ids[i] = g.OptionID
	}
	return ids
}

// Deadline is a reading-period deadline. The feed is a Mongo export, so the
// value usually arrives as extended JSON ({"$date": ...}). A value that cannot
// be decoded leaves Valid false instead of failing the whole record.
type Deadline struct {
	Time  time.Time
	Valid bool
}

// NewDeadline returns a valid deadline at t
func NewDeadline(t time.Time) Deadline {
	return Deadline{Time: t, Valid: true}
}

// UnmarshalJSON accepts {"$date": "<ISO>"}, {"$date": {"$numberLong": "<ms>"}}
// and bare ISO strings.
func (d *Deadline) UnmarshalJSON(data []byte) error {
	*d = Deadline{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		if t, ok := ParseTimestamp(s); ok {
			d.Time, d.Valid = t, true
		}
	case '{':
		if t, err := decodeExtJSONDate(trimmed); err == nil {
			d.Time, d.Valid = t, true
			return nil
		}
		// Offsets such as "+0200" are outside what the extended JSON parser accepts
		var raw struct {
			Date string `json:"$date"`
		}
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil
		}
		if t, ok := ParseTimestamp(raw.Date); ok {
			d.Time, d.Valid = t, true
		}
	}
	return nil
}

// MarshalJSON writes the deadline back in relaxed extended JSON
func (d Deadline) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]string{"$date": d.Time.UTC().Format(time.RFC3339Nano)})
}

func decodeExtJSONDate(data []byte) (time.Time, error) {
	doc := make([]byte, 0, len(data)+6)
	doc = append(doc, `{"d":`...)
	doc = append(doc, data...)
	doc = append(doc, '}')

	var holder struct {
		D primitive.DateTime `bson:"d"`
	}
	if err := bson.UnmarshalExtJSON(doc, false, &holder); err != nil {
		return time.Time{}, err
	}
	return holder.D.Time().UTC(), nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an ISO-8601 instant. Values without an offset are
// read as UTC: the feed's $date values are UTC by definition.
func ParseTimestamp(s string) (time.Time, bool) {
	return ParseTimestampIn(s, time.UTC)
}

// ParseTimestampIn is ParseTimestamp with values that carry no offset read
// in loc.
func ParseTimestampIn(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FlexInt decodes numbers and numeric strings. Anything else decodes to zero.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = 0

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var s string
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
	} else {
		s = string(trimmed)
	}

	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int(v))
	}
	return nil
}

// FlexString keeps a value as the feed wrote it. Strings pass through and
// numbers keep their literal text, so "30-60" and 45 both survive. Other
// JSON values decode to "".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	*f = ""

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch c := trimmed[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			*f = FlexString(strings.TrimSpace(s))
		}
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err == nil {
			*f = FlexString(n.String())
		}
	}
	return nil
}

// Int returns the value as a whole number when it is one
func (f FlexString) Int() (int, bool) {
	n, err := strconv.Atoi(string(f))
	return n, err == nil
}
