package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Keys of the stored feedback document. The rating keys match the field names
// of the submission form.
const (
	FieldCategory  = "category"
	FieldUsername  = "username"
	FieldName      = "name"
	FieldTimestamp = "timestamp"
)

// RatingFields are the keys of the four sub-ratings, q1 first.
var RatingFields = [4]string{"q1-rating", "q2-rating", "q3-rating", "q4-rating"}

// Feedback is one submission. Fields the service does not interpret are kept
// in Extra and written back unchanged.
type Feedback struct {
	Category  Category
	Ratings   [4]RatingValue
	Username  string
	Name      string
	Timestamp string
	Extra     map[string]json.RawMessage
}

// Time parses Timestamp. ok is false for missing or malformed values.
func (f Feedback) Time() (t time.Time, ok bool) {
	if f.Timestamp == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, f.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatTimestamp renders t the way submissions are stamped.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func (f Feedback) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(f.Extra)+8)
	for k, v := range f.Extra {
		doc[k] = v
	}
	if f.Category != "" {
		doc[FieldCategory] = f.Category
	}
	for i, key := range RatingFields {
		if len(f.Ratings[i].raw) > 0 {
			doc[key] = f.Ratings[i]
		}
	}
	if f.Username != "" {
		doc[FieldUsername] = f.Username
	}
	if f.Name != "" {
		doc[FieldName] = f.Name
	}
	if f.Timestamp != "" {
		doc[FieldTimestamp] = f.Timestamp
	}
	return json.Marshal(doc)
}

func (f *Feedback) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("feedback: expected a JSON object")
	}

	*f = Feedback{}

	if raw, ok := doc[FieldCategory]; ok {
		var category string
		// Non-string categories stay in Extra and count as unrecognized.
		if err := json.Unmarshal(raw, &category); err == nil {
			f.Category = Category(category)
			delete(doc, FieldCategory)
		}
	}
	for i, key := range RatingFields {
		if raw, ok := doc[key]; ok {
			f.Ratings[i] = RatingValue{raw: raw}
			delete(doc, key)
		}
	}
	f.Username = takeString(doc, FieldUsername)
	f.Name = takeString(doc, FieldName)
	f.Timestamp = takeString(doc, FieldTimestamp)

	if len(doc) > 0 {
		f.Extra = doc
	}
	return nil
}

func takeString(doc map[string]json.RawMessage, key string) string {
	raw, ok := doc[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	delete(doc, key)
	return s
}
