package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingValue_Int(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{raw: `4`, want: 4, wantOK: true},
		{raw: `"5"`, want: 5, wantOK: true},
		{raw: `" 3 stars"`, want: 3, wantOK: true},
		{raw: `"4.9"`, want: 4, wantOK: true},
		{raw: `4.9`, want: 4, wantOK: true},
		{raw: `"-2"`, want: -2, wantOK: true},
		{raw: `9007199254740992`, want: 1 << 53, wantOK: true},
		{raw: `1e300`, wantOK: false},
		{raw: `-1e300`, wantOK: false},
		{raw: `1e400`, wantOK: false},
		{raw: `"99999999999999999999999"`, wantOK: false},
		{raw: `"abc"`, wantOK: false},
		{raw: `""`, wantOK: false},
		{raw: `null`, wantOK: false},
		{raw: `true`, wantOK: false},
		{raw: ``, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := RawRating(tt.raw).Int()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFeedback_JSONKeepsUnknownFields(t *testing.T) {
	in := `{"category":"Hotel","q1-rating":"5","q2-rating":4,"q3-rating":"3","q4-rating":"x",` +
		`"name":"Ann","username":"ann","timestamp":"2024-03-01T10:00:00.000Z",` +
		`"hotel-name":"Grand","comments":"clean rooms"}`

	var fb Feedback
	require.NoError(t, json.Unmarshal([]byte(in), &fb))

	assert.Equal(t, CategoryHotel, fb.Category)
	assert.Equal(t, "ann", fb.Username)
	assert.Equal(t, "Ann", fb.Name)
	q1, ok := fb.Ratings[0].Int()
	assert.True(t, ok)
	assert.Equal(t, 5, q1)
	_, ok = fb.Ratings[3].Int()
	assert.False(t, ok)
	assert.Contains(t, fb.Extra, "hotel-name")

	out, err := json.Marshal(fb)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestFeedback_Time(t *testing.T) {
	fb := Feedback{Timestamp: "2024-03-01T10:00:00.000Z"}
	ts, ok := fb.Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), ts.UTC())

	_, ok = Feedback{Timestamp: "yesterday"}.Time()
	assert.False(t, ok)
	_, ok = Feedback{}.Time()
	assert.False(t, ok)
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 123_000_000, time.UTC)
	assert.Equal(t, "2024-03-01T10:00:00.123Z", FormatTimestamp(ts))
}

func TestCategory_Index(t *testing.T) {
	assert.Equal(t, 0, CategoryRestaurant.Index())
	assert.Equal(t, 4, CategoryInstitution.Index())
	assert.Equal(t, -1, Category("restaurant").Index())
	assert.False(t, Category("Cinema").Valid())
}
