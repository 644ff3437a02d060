package repositories

import (
	"context"

	"feedback_backend/internal/models"
	"feedback_backend/internal/storage"
)

type FeedbackRepository interface {
	// Load returns every record in submission order.
	Load(ctx context.Context) ([]models.Feedback, error)
	// Append adds one record at the end of the collection.
	Append(ctx context.Context, fb models.Feedback) error
	// FindBySubmitter returns the records submitted by username, oldest first.
	FindBySubmitter(ctx context.Context, username, displayName string) ([]models.Feedback, error)
	CachedCount() int
}

type FeedbackRepositoryImpl struct {
	records *collection[models.Feedback]
}

func NewFeedbackRepository(store storage.Storage, key string) FeedbackRepository {
	return &FeedbackRepositoryImpl{records: newCollection[models.Feedback](store, key)}
}

func (r *FeedbackRepositoryImpl) Load(ctx context.Context) ([]models.Feedback, error) {
	return r.records.reload(ctx)
}

func (r *FeedbackRepositoryImpl) Append(ctx context.Context, fb models.Feedback) error {
	return r.records.appendOne(ctx, fb)
}

// FindBySubmitter matches on username. Records stored before usernames were
// recorded only carry the display name, so those match on displayName.
func (r *FeedbackRepositoryImpl) FindBySubmitter(ctx context.Context, username, displayName string) ([]models.Feedback, error) {
	records, err := r.records.reload(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]models.Feedback, 0)
	for _, fb := range records {
		switch {
		case fb.Username != "":
			if fb.Username == username {
				mine = append(mine, fb)
			}
		case displayName != "" && fb.Name == displayName:
			mine = append(mine, fb)
		}
	}
	return mine, nil
}

func (r *FeedbackRepositoryImpl) CachedCount() int {
	return r.records.size()
}
