package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadline_UnmarshalJSON(t *testing.T) {
	want := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		raw       string
		wantValid bool
		want      time.Time
	}{
		{"relaxed extended JSON", `{"$date": "2024-05-10T00:00:00.000Z"}`, true, want},
		{"canonical extended JSON", `{"$date": {"$numberLong": "1715299200000"}}`, true, want},
		{"offset without colon", `{"$date": "2024-05-10T02:00:00+0200"}`, true, want},
		{"bare ISO string", `"2024-05-10T00:00:00Z"`, true, want},
		{"bare calendar date", `"2024-05-10"`, true, want},
		{"null", `null`, false, time.Time{}},
		{"garbage string", `{"$date": "soon"}`, false, time.Time{}},
		{"wrong shape", `{"when": "2024-05-10"}`, false, time.Time{}},
		{"number", `1715299200000`, false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Deadline
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &d))
			assert.Equal(t, tt.wantValid, d.Valid)
			if tt.wantValid {
				assert.True(t, tt.want.Equal(d.Time), "got %s", d.Time)
			}
		})
	}
}

func TestDeadline_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(NewDeadline(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"$date":"2024-05-10T00:00:00Z"}`, string(out))

	out, err = json.Marshal(Deadline{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := map[string]FlexInt{
		`30`:      30,
		`"45"`:    45,
		`" 60 "`:  60,
		`12.0`:    12,
		`"later"`: 0,
		`null`:    0,
		`true`:    0,
	}
	for raw, want := range tests {
		var f FlexInt
		require.NoError(t, json.Unmarshal([]byte(raw), &f), raw)
		assert.Equal(t, want, f, raw)
	}
}

func TestFlexString_UnmarshalJSON(t *testing.T) {
	tests := map[string]FlexString{
		`30`:        "30",
		`"45"`:      "45",
		`"30-60"`:   "30-60",
		`" 90+ "`:   "90+",
		`12.5`:      "12.5",
		`null`:      "",
		`true`:      "",
		`{"n": 1}`:  "",
	}
	for raw, want := range tests {
		var f FlexString
		require.NoError(t, json.Unmarshal([]byte(raw), &f), raw)
		assert.Equal(t, want, f, raw)
	}
}

func TestFlexString_Int(t *testing.T) {
	n, ok := FlexString("-5").Int()
	assert.True(t, ok)
	assert.Equal(t, -5, n)

	_, ok = FlexString("30-60").Int()
	assert.False(t, ok)
}

func TestMagazine_DecodeResponseDaysRange(t *testing.T) {
	var m Magazine
	require.NoError(t, json.Unmarshal([]byte(`{"name": "Range Review", "responseDays": "30-60"}`), &m))
	assert.Equal(t, FlexString("30-60"), m.ResponseDays)
}

func TestMagazine_DecodeUpstreamShape(t *testing.T) {
	raw := `{
		"name": "The Quarterly",
		"description": "Bold new voices.",
		"genres": [{"optionId": 1}, {"optionId": 2}],
		"currentTheme": "Thresholds",
		"country": "Canada",
		"yearFounded": 1998,
		"readingPeriods": [
			{"theme": "Spring", "deadline": {"$date": "2024-05-10T00:00:00.000Z"}},
			{"theme": "Fall", "deadline": {"$date": "2024-10-10T00:00:00.000Z"}}
		],
		"responseDays": "45",
		"simultaneousSubmissions": true
	}`

	var m Magazine
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	assert.Equal(t, "The Quarterly", m.Name)
	assert.Equal(t, []int{1, 2}, m.GenreIDs())
	assert.Equal(t, FlexInt(1998), m.YearFounded)
	assert.Equal(t, FlexString("45"), m.ResponseDays)
	require.Len(t, m.ReadingPeriods, 2)
	assert.True(t, m.ReadingPeriods[0].Deadline.Valid)
	assert.Equal(t, "Spring", m.ReadingPeriods[0].Theme)
	assert.True(t, m.SimultaneousSubmissions)
}

func TestParseTimestampIn(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)

	got, ok := ParseTimestampIn("2024-05-10T08:00:00", tokyo)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 9, 23, 0, 0, 0, time.UTC), got.UTC())

	got, ok = ParseTimestampIn("2024-05-10T08:00:00Z", tokyo)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC), got.UTC())

	got, ok = ParseTimestamp("2024-05-10T08:00:00")
	require.True(t, ok)
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{"2024-05-10T00:00:00Z", "2024-05-10T00:00:00.123Z", "2024-05-10T02:00:00+02:00", "2024-05-10T00:00:00", "2024-05-10"} {
		_, ok := ParseTimestamp(s)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"", "   ", "May 10", "10/05/2024"} {
		_, ok := ParseTimestamp(s)
		assert.False(t, ok, s)
	}
}
