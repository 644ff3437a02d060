package repositories

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"feedback_backend/internal/auth"
	"feedback_backend/internal/models"
	"feedback_backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStore(t *testing.T) (storage.Storage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := storage.NewLocalStorage(storage.Config{BasePath: dir})
	require.NoError(t, err)
	return s, dir
}

// brokenStore fails every call with the configured errors.
type brokenStore struct {
	getErr error
	putErr error
	body   []byte
}

func (b *brokenStore) Get(ctx context.Context, key string) ([]byte, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	return b.body, nil
}

func (b *brokenStore) Put(ctx context.Context, key string, body []byte) error {
	return b.putErr
}

func (b *brokenStore) Ping(ctx context.Context) error { return b.getErr }
func (b *brokenStore) Name() string                   { return "broken" }

// slowStore delays every read so overlapping read-modify-write cycles would
// interleave if nothing serialized them.
type slowStore struct {
	storage.Storage
	delay time.Duration
}

func (s slowStore) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(s.delay)
	return s.Storage.Get(ctx, key)
}

func TestUserRepository_RegisterAndDuplicate(t *testing.T) {
	store, _ := newLocalStore(t)
	repo := NewUserRepository(store, "users")
	ctx := context.Background()

	exists, err := repo.ExistsUsername(ctx, "ann")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, &models.User{Name: "Ann", Email: "a@x.com", Username: "ann", Password: "pw"}))

	exists, err = repo.ExistsUsername(ctx, "ann")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsUsername(ctx, "Ann")
	require.NoError(t, err)
	assert.False(t, exists, "usernames are case-sensitive")

	err = repo.Create(ctx, &models.User{Name: "Other Ann", Email: "b@x.com", Username: "ann", Password: "pw2"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, 1, repo.CachedCount())
}

func TestUserRepository_SeesWritesFromOtherInstances(t *testing.T) {
	store, _ := newLocalStore(t)
	first := NewUserRepository(store, "users")
	second := NewUserRepository(store, "users")
	ctx := context.Background()

	require.NoError(t, first.Create(ctx, &models.User{Name: "Ann", Username: "ann", Password: "pw"}))

	err := second.Create(ctx, &models.User{Name: "Ann 2", Username: "ann", Password: "pw"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserRepository_Authenticate(t *testing.T) {
	store, dir := newLocalStore(t)
	legacy := `[{"name":"Ann","email":"a@x.com","username":"ann","password":"pw"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte(legacy), 0o644))

	repo := NewUserRepository(store, "users")
	ctx := context.Background()

	user, err := repo.Authenticate(ctx, "ann", "pw")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ann", user.Name)

	user, err = repo.Authenticate(ctx, "ann", "wrong")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = repo.Authenticate(ctx, "bob", "pw")
	require.NoError(t, err)
	assert.Nil(t, user)

	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &models.User{Name: "Bob", Username: "bob", Password: hash}))

	user, err = repo.Authenticate(ctx, "bob", "secret")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "bob", user.Username)

	_, err = repo.FindByUsername(ctx, "carol")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_StoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	down := errors.Join(storage.ErrUnavailable, errors.New("dial tcp: refused"))

	repo := NewUserRepository(&brokenStore{getErr: down}, "users")
	_, err := repo.ExistsUsername(ctx, "ann")
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	_, err = repo.Authenticate(ctx, "ann", "pw")
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	repo = NewUserRepository(&brokenStore{putErr: storage.ErrWriteFailed, body: []byte(`[]`)}, "users")
	err = repo.Create(ctx, &models.User{Username: "ann"})
	assert.ErrorIs(t, err, storage.ErrWriteFailed)
	assert.Zero(t, repo.CachedCount())
}

func TestFeedbackRepository_AppendThenLoad(t *testing.T) {
	store, _ := newLocalStore(t)
	repo := NewFeedbackRepository(store, "feedback")
	ctx := context.Background()

	records, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	first := models.Feedback{Category: models.CategoryHotel, Username: "ann", Name: "Ann", Timestamp: "2024-03-01T10:00:00.000Z"}
	second := models.Feedback{Category: models.CategoryMall, Username: "bob", Name: "Bob", Timestamp: "2024-03-02T10:00:00.000Z"}
	second.Ratings[0] = models.RawRating(`"4"`)

	require.NoError(t, repo.Append(ctx, first))
	before, err := repo.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Append(ctx, second))
	after, err := repo.Load(ctx)
	require.NoError(t, err)

	require.Len(t, after, len(before)+1)
	assert.Equal(t, before, after[:len(before)])
	last := after[len(after)-1]
	assert.Equal(t, models.CategoryMall, last.Category)
	n, ok := last.Ratings[0].Int()
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	assert.Equal(t, 2, repo.CachedCount())
}

func TestFeedbackRepository_MalformedDocument(t *testing.T) {
	store, dir := newLocalStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feedback.json"), []byte(`{"oops":`), 0o644))

	repo := NewFeedbackRepository(store, "feedback")
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	err = repo.Append(context.Background(), models.Feedback{Category: models.CategoryHotel})
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	body, err := os.ReadFile(filepath.Join(dir, "feedback.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"oops":`, string(body), "a failed read must not overwrite the document")
}

func TestFeedbackRepository_FindBySubmitter(t *testing.T) {
	store, dir := newLocalStore(t)
	doc := `[
		{"category":"Hotel","name":"Ann","timestamp":"2024-03-01T10:00:00.000Z"},
		{"category":"Mall","name":"Ann","username":"ann2","timestamp":"2024-03-02T10:00:00.000Z"},
		{"category":"Product","name":"Ann","username":"ann","timestamp":"2024-03-03T10:00:00.000Z"},
		{"category":"Hotel","name":"Bob","username":"bob","timestamp":"2024-03-04T10:00:00.000Z"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feedback.json"), []byte(doc), 0o644))

	repo := NewFeedbackRepository(store, "feedback")
	mine, err := repo.FindBySubmitter(context.Background(), "ann", "Ann")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, models.CategoryHotel, mine[0].Category)
	assert.Equal(t, models.CategoryProduct, mine[1].Category)

	none, err := repo.FindBySubmitter(context.Background(), "carol", "Carol")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestFeedbackRepository_ConcurrentAppendsKeepEveryRecord(t *testing.T) {
	local, _ := newLocalStore(t)
	repo := NewFeedbackRepository(slowStore{Storage: local, delay: 20 * time.Millisecond}, "feedback")
	ctx := context.Background()

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.Append(ctx, models.Feedback{Category: models.CategoryHotel, Username: "user" + strconv.Itoa(i)})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	records, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, writers)

	seen := make(map[string]bool)
	for _, fb := range records {
		seen[fb.Username] = true
	}
	assert.Len(t, seen, writers)
}

func TestUserRepository_ConcurrentCreateSameUsername(t *testing.T) {
	local, _ := newLocalStore(t)
	repo := NewUserRepository(slowStore{Storage: local, delay: 20 * time.Millisecond}, "users")
	ctx := context.Background()

	const attempts = 5
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Create(ctx, &models.User{Name: "Ann", Username: "ann", Password: "pw"})
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrUsernameTaken)
	}
	assert.Equal(t, 1, created)

	body, err := local.Get(ctx, "users")
	require.NoError(t, err)
	users, err := decodeArray[models.User](body)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestFeedbackRepository_AppendHonorsCancelledContext(t *testing.T) {
	store, _ := newLocalStore(t)
	repo := NewFeedbackRepository(store, "feedback")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := repo.Append(ctx, models.Feedback{Category: models.CategoryHotel})
	assert.ErrorIs(t, err, context.Canceled)

	records, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
