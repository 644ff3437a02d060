package algorithms

import (
	"math"
	"time"

	"feedback_backend/internal/models"
)

const (
	// DefaultTimeSeriesDays is the length of the daily series when none is configured.
	DefaultTimeSeriesDays = 30

	minRating = 1
	maxRating = 5

	dayLabelLayout = "Jan 2"
)

// SummaryOptions control which records are summarized and whether a daily
// series is produced. The zero value summarizes every record without a series.
type SummaryOptions struct {
	// WindowDays keeps only records stamped within the last N days of Now.
	// Nil means no window.
	WindowDays *int
	// Now is the reference instant for the window and the series.
	Now time.Time
	// TimeSeriesDays enables a daily average series of that many days ending
	// on the calendar day of Now. Zero disables the series.
	TimeSeriesDays int
	// Location decides calendar days for the series. Nil means time.Local.
	Location *time.Location
}

// CategoryDetail holds the statistics of one category.
type CategoryDetail struct {
	Name          models.Category `json:"name"`
	Count         int             `json:"count"`
	AverageRating float64         `json:"averageRating"`
	Ratings       [5]int          `json:"ratings"`
}

// Summary is the aggregate view served by the analytics endpoints.
type Summary struct {
	Categories      []models.Category `json:"categories"`
	FeedbackCounts  []int             `json:"feedbackCounts"`
	CategoryDetails []CategoryDetail  `json:"categoryDetails"`
	TimeLabels      []string          `json:"timeLabels,omitempty"`
	AverageRatings  []float64         `json:"averageRatings,omitempty"`
	WindowDays      *int              `json:"windowDays"`
	GeneratedAt     time.Time         `json:"generatedAt"`
}

// Total returns the number of records counted across all categories.
func (s Summary) Total() int {
	total := 0
	for _, n := range s.FeedbackCounts {
		total += n
	}
	return total
}

// RecordRating is the mean of the four sub-ratings. Values without a leading
// integer contribute 0 and still count in the denominator.
func RecordRating(f models.Feedback) float64 {
	sum := 0
	for _, r := range f.Ratings {
		if n, ok := r.Int(); ok {
			sum += n
		}
	}
	return float64(sum) / float64(len(f.Ratings))
}

// Bucket maps a record rating to its histogram slot (0 for 1 star, 4 for 5).
func Bucket(rating float64) int {
	rounded := int(math.Round(rating))
	if rounded < minRating {
		rounded = minRating
	}
	if rounded > maxRating {
		rounded = maxRating
	}
	return rounded - minRating
}

// Summarize computes the aggregate summary of records. It does not modify its
// input and its result depends only on its arguments.
func Summarize(records []models.Feedback, opts SummaryOptions) Summary {
	kept := filterWindow(records, opts)

	n := len(models.Categories)
	summary := Summary{
		Categories:      append([]models.Category(nil), models.Categories...),
		FeedbackCounts:  make([]int, n),
		CategoryDetails: make([]CategoryDetail, n),
		GeneratedAt:     opts.Now,
	}
	if opts.WindowDays != nil {
		days := *opts.WindowDays
		summary.WindowDays = &days
	}

	sums := make([]float64, n)
	for i, category := range models.Categories {
		summary.CategoryDetails[i].Name = category
	}

	recognized := kept[:0:0]
	for _, f := range kept {
		idx := f.Category.Index()
		if idx < 0 {
			continue
		}
		recognized = append(recognized, f)

		rating := RecordRating(f)
		summary.FeedbackCounts[idx]++
		sums[idx] += rating
		summary.CategoryDetails[idx].Ratings[Bucket(rating)]++
	}

	for i := range summary.CategoryDetails {
		count := summary.FeedbackCounts[i]
		summary.CategoryDetails[i].Count = count
		if count > 0 {
			summary.CategoryDetails[i].AverageRating = sums[i] / float64(count)
		}
	}

	if opts.TimeSeriesDays > 0 {
		summary.TimeLabels, summary.AverageRatings = dailySeries(recognized, opts)
	}

	return summary
}

// filterWindow applies the optional window. Without a window every record is
// kept, including ones with unreadable timestamps.
func filterWindow(records []models.Feedback, opts SummaryOptions) []models.Feedback {
	if opts.WindowDays == nil {
		return records
	}

	from := opts.Now.Add(-time.Duration(*opts.WindowDays) * 24 * time.Hour)
	kept := make([]models.Feedback, 0, len(records))
	for _, f := range records {
		ts, ok := f.Time()
		if !ok {
			continue
		}
		if ts.Before(from) || ts.After(opts.Now) {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

type civilDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) civilDay {
	y, m, d := t.Date()
	return civilDay{y, m, d}
}

func dailySeries(records []models.Feedback, opts SummaryOptions) ([]string, []float64) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	days := opts.TimeSeriesDays

	type acc struct {
		sum   float64
		count int
	}
	byDay := make(map[civilDay]*acc)
	for _, f := range records {
		ts, ok := f.Time()
		if !ok {
			continue
		}
		key := dayOf(ts.In(loc))
		a := byDay[key]
		if a == nil {
			a = &acc{}
			byDay[key] = a
		}
		a.sum += RecordRating(f)
		a.count++
	}

	now := opts.Now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, loc)

	labels := make([]string, 0, days)
	averages := make([]float64, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		labels = append(labels, day.Format(dayLabelLayout))

		a := byDay[dayOf(day)]
		if a == nil || a.count == 0 {
			averages = append(averages, 0)
			continue
		}
		averages = append(averages, round2(a.sum/float64(a.count)))
	}
	return labels, averages
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
