package algorithms

import (
	"testing"
	"time"

	"feedback_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

func record(category models.Category, at time.Time, q ...int) models.Feedback {
	f := models.Feedback{Category: category}
	for i := 0; i < len(q) && i < 4; i++ {
		f.Ratings[i] = models.NewRating(q[i])
	}
	if !at.IsZero() {
		f.Timestamp = models.FormatTimestamp(at)
	}
	return f
}

func intPtr(n int) *int { return &n }

func TestSummarize_RestaurantScenario(t *testing.T) {
	records := []models.Feedback{
		record(models.CategoryRestaurant, refNow, 5, 5, 5, 5),
		record(models.CategoryRestaurant, refNow, 1, 1, 1, 1),
		record(models.CategoryRestaurant, refNow, 3, 3, 3, 3),
	}

	s := Summarize(records, SummaryOptions{Now: refNow})

	detail := s.CategoryDetails[0]
	assert.Equal(t, models.CategoryRestaurant, detail.Name)
	assert.Equal(t, 3, detail.Count)
	assert.InDelta(t, 3.0, detail.AverageRating, 1e-9)
	assert.Equal(t, [5]int{1, 0, 1, 0, 1}, detail.Ratings)
	assert.Equal(t, []int{3, 0, 0, 0, 0}, s.FeedbackCounts)
}

func TestSummarize_CountsOnlyRecognizedCategories(t *testing.T) {
	records := []models.Feedback{
		record(models.CategoryHotel, refNow, 4, 4, 4, 4),
		record("Cinema", refNow, 5, 5, 5, 5),
		record("hotel", refNow, 5, 5, 5, 5),
		record(models.CategoryMall, refNow, 2, 2, 2, 2),
		record("", refNow, 1, 1, 1, 1),
	}

	s := Summarize(records, SummaryOptions{Now: refNow})

	assert.Equal(t, 2, s.Total())
	assert.Equal(t, []int{0, 1, 0, 1, 0}, s.FeedbackCounts)
	assert.Equal(t, models.Categories, s.Categories)
}

func TestSummarize_EmptyCategory(t *testing.T) {
	s := Summarize([]models.Feedback{record(models.CategoryHotel, refNow, 4, 4, 4, 4)}, SummaryOptions{Now: refNow})

	for i, detail := range s.CategoryDetails {
		if detail.Name == models.CategoryHotel {
			continue
		}
		assert.Zero(t, s.FeedbackCounts[i])
		assert.Zero(t, detail.AverageRating)
		assert.Equal(t, [5]int{}, detail.Ratings)
	}

	empty := Summarize(nil, SummaryOptions{Now: refNow})
	assert.Len(t, empty.CategoryDetails, len(models.Categories))
	assert.Zero(t, empty.Total())
}

func TestSummarize_ClampsOutOfRangeRatings(t *testing.T) {
	unparsable := models.Feedback{Category: models.CategoryProduct}
	for i := range unparsable.Ratings {
		unparsable.Ratings[i] = models.RawRating(`"n/a"`)
	}
	records := []models.Feedback{
		record(models.CategoryProduct, refNow, 9, 9, 9, 9),
		record(models.CategoryProduct, refNow, -3, 0, 0, 0),
		unparsable,
		record(models.CategoryProduct, refNow),
	}

	s := Summarize(records, SummaryOptions{Now: refNow})

	detail := s.CategoryDetails[models.CategoryProduct.Index()]
	assert.Equal(t, [5]int{3, 0, 0, 0, 1}, detail.Ratings)
	sum := 0
	for _, n := range detail.Ratings {
		sum += n
	}
	assert.Equal(t, detail.Count, sum)
}

func TestRecordRating_ParsesLikeForms(t *testing.T) {
	f := models.Feedback{Ratings: [4]models.RatingValue{
		models.RawRating(`"4"`),
		models.RawRating(`"4.5"`),
		models.RawRating(`"x"`),
		models.RawRating(`4`),
	}}
	assert.InDelta(t, 3.0, RecordRating(f), 1e-9)
}

func TestSummarize_HugeNumericRatingCountsAsZero(t *testing.T) {
	huge := record(models.CategoryMall, refNow, 4, 4, 4, 4)
	huge.Ratings[0] = models.RawRating(`1e300`)
	negative := record(models.CategoryMall, refNow, 4, 4, 4, 4)
	negative.Ratings[0] = models.RawRating(`-1e300`)

	assert.InDelta(t, 3.0, RecordRating(huge), 1e-9)
	assert.InDelta(t, 3.0, RecordRating(negative), 1e-9)

	s := Summarize([]models.Feedback{huge, negative}, SummaryOptions{Now: refNow})
	detail := s.CategoryDetails[models.CategoryMall.Index()]
	assert.InDelta(t, 3.0, detail.AverageRating, 1e-9)
	assert.Equal(t, [5]int{0, 0, 2, 0, 0}, detail.Ratings)
}

func TestBucket_RoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 2, Bucket(2.5))
	assert.Equal(t, 1, Bucket(2.49))
	assert.Equal(t, 0, Bucket(0))
	assert.Equal(t, 4, Bucket(12))
}

func TestSummarize_Idempotent(t *testing.T) {
	records := []models.Feedback{
		record(models.CategoryHotel, refNow, 4, 3, 5, 2),
		record(models.CategoryInstitution, time.Time{}, 1, 2, 3, 4),
		record(models.CategoryMall, refNow.Add(-48*time.Hour), 5, 5, 4, 4),
	}
	opts := SummaryOptions{Now: refNow, TimeSeriesDays: 7, Location: time.UTC}

	first := Summarize(records, opts)
	second := Summarize(records, opts)
	assert.Equal(t, first, second)
}

func TestSummarize_Window(t *testing.T) {
	malformed := record(models.CategoryHotel, time.Time{}, 5, 5, 5, 5)
	malformed.Timestamp = "last tuesday"
	records := []models.Feedback{
		record(models.CategoryHotel, refNow.Add(-2*24*time.Hour), 5, 5, 5, 5),
		record(models.CategoryHotel, refNow.Add(-8*24*time.Hour), 1, 1, 1, 1),
		record(models.CategoryHotel, refNow.Add(time.Hour), 1, 1, 1, 1),
		record(models.CategoryHotel, time.Time{}, 1, 1, 1, 1),
		malformed,
	}

	windowed := Summarize(records, SummaryOptions{Now: refNow, WindowDays: intPtr(7)})
	assert.Equal(t, 1, windowed.Total())
	require.NotNil(t, windowed.WindowDays)
	assert.Equal(t, 7, *windowed.WindowDays)

	all := Summarize(records, SummaryOptions{Now: refNow})
	assert.Equal(t, 5, all.Total())
	assert.Nil(t, all.WindowDays)
}

func TestSummarize_TimeSeries(t *testing.T) {
	records := []models.Feedback{
		record(models.CategoryHotel, refNow.Add(-time.Hour), 4, 4, 4, 4),
		record(models.CategoryMall, refNow.Add(-2*time.Hour), 5, 5, 5, 5),
		record(models.CategoryProduct, refNow.Add(-24*time.Hour), 3, 3, 3, 4),
		record("Cinema", refNow.Add(-24*time.Hour), 1, 1, 1, 1),
		record(models.CategoryProduct, refNow.Add(-10*24*time.Hour), 1, 1, 1, 1),
	}

	s := Summarize(records, SummaryOptions{Now: refNow, TimeSeriesDays: 3, Location: time.UTC})

	assert.Equal(t, []string{"Mar 8", "Mar 9", "Mar 10"}, s.TimeLabels)
	assert.Equal(t, []float64{0, 3.25, 4.5}, s.AverageRatings)
}

func TestSummarize_TimeSeriesUsesLocationCalendarDays(t *testing.T) {
	at := func(s string) time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return ts
	}
	records := []models.Feedback{
		record(models.CategoryHotel, at("2024-03-07T18:00:00Z"), 1, 1, 1, 1),
		record(models.CategoryHotel, at("2024-03-08T23:30:00Z"), 5, 5, 5, 5),
		record(models.CategoryHotel, at("2024-03-09T20:30:00Z"), 2, 2, 2, 2),
		record(models.CategoryHotel, at("2024-03-10T14:00:00Z"), 4, 4, 4, 4),
	}

	s := Summarize(records, SummaryOptions{Now: refNow, TimeSeriesDays: 3, Location: time.UTC})
	assert.Equal(t, []string{"Mar 8", "Mar 9", "Mar 10"}, s.TimeLabels)
	assert.Equal(t, []float64{5, 2, 4}, s.AverageRatings)

	east := time.FixedZone("UTC+5", 5*3600)
	s = Summarize(records, SummaryOptions{Now: refNow, TimeSeriesDays: 3, Location: east})
	assert.Equal(t, []string{"Mar 8", "Mar 9", "Mar 10"}, s.TimeLabels)
	assert.Equal(t, []float64{0, 5, 3}, s.AverageRatings)

	// 02:00Z on Mar 10 is still Mar 9 at UTC-5, so the series ends a day earlier.
	west := time.FixedZone("UTC-5", -5*3600)
	lateNight := at("2024-03-10T02:00:00Z")
	s = Summarize(
		[]models.Feedback{record(models.CategoryMall, at("2024-03-10T01:00:00Z"), 3, 3, 3, 3)},
		SummaryOptions{Now: lateNight, TimeSeriesDays: 3, Location: west},
	)
	assert.Equal(t, []string{"Mar 7", "Mar 8", "Mar 9"}, s.TimeLabels)
	assert.Equal(t, []float64{0, 0, 3}, s.AverageRatings)
}

func TestSummarize_NoSeriesByDefault(t *testing.T) {
	s := Summarize([]models.Feedback{record(models.CategoryHotel, refNow, 4, 4, 4, 4)}, SummaryOptions{Now: refNow})
	assert.Nil(t, s.TimeLabels)
	assert.Nil(t, s.AverageRatings)
}
