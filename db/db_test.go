package db

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/stretchr/testify/assert"
)

func newReport(filename string) *model.StoredReport {
	return NewStoredReport(&model.AnalysisReport{
		Filename: filename,
		Metadata: model.ScoreMetadata{Title: "test", Key: "C major", TimeSignature: "4/4", Measures: 2, Voices: 4},
	})
}

func TestNewStoredReport(t *testing.T) {
	assert := assert.New(t)

	a, b := newReport("a.mid"), newReport("a.mid")
	assert.True(ValidID(a.ID))
	assert.NotEqual(a.ID, b.ID)
	assert.Equal("a.mid", a.Filename)
	assert.False(ValidID("../../etc/passwd"))
}

func TestMemoryStore(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := NewMemoryStore(time.Hour, 10)
	r := newReport("a.mid")
	assert.NoError(store.Put(ctx, r))

	got, err := store.Get(ctx, r.ID)
	assert.NoError(err)
	assert.Same(r, got)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(err, ErrNotFound)
}

func TestMemoryStoreExpires(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Hour, 10)
	store.now = func() time.Time { return now }

	old := newReport("old.mid")
	old.CreatedAt = now.Add(-2 * time.Hour)
	fresh := newReport("fresh.mid")
	fresh.CreatedAt = now.Add(-time.Minute)
	assert.NoError(store.Put(ctx, old))
	assert.NoError(store.Put(ctx, fresh))

	_, err := store.Get(ctx, old.ID)
	assert.ErrorIs(err, ErrNotFound)
	_, err = store.Get(ctx, fresh.ID)
	assert.NoError(err)
	assert.Equal(1, store.Len())

	now = now.Add(time.Hour)
	_, err = store.Get(ctx, fresh.ID)
	assert.ErrorIs(err, ErrNotFound)
	assert.Equal(0, store.Len())
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := NewMemoryStore(0, 2)
	var reports []*model.StoredReport
	for _, name := range []string{"a.mid", "b.mid", "c.mid"} {
		r := newReport(name)
		reports = append(reports, r)
		assert.NoError(store.Put(ctx, r))
	}

	assert.Equal(2, store.Len())
	_, err := store.Get(ctx, reports[0].ID)
	assert.ErrorIs(err, ErrNotFound)
	for _, r := range reports[1:] {
		_, err := store.Get(ctx, r.ID)
		assert.NoError(err)
	}

	// storing the same id again does not take another slot
	assert.NoError(store.Put(ctx, reports[2]))
	assert.Equal(2, store.Len())
}

func TestDynamoItem(t *testing.T) {
	assert := assert.New(t)

	created := time.Date(2024, 3, 1, 12, 0, 0, 500, time.UTC)
	r := newReport("a.mid")
	r.CreatedAt = created

	item, err := toItem(r, time.Hour)
	assert.NoError(err)
	assert.Equal(r.ID, *item["PK"].S)
	assert.Equal("1709298000", *item["ExpiresAt"].N)

	got, err := fromItem(item, created.Add(time.Minute))
	assert.NoError(err)
	assert.Equal(r.ID, got.ID)
	assert.Equal("a.mid", got.Filename)
	assert.True(created.Equal(got.CreatedAt))
	assert.Equal(r.Report, got.Report)

	_, err = fromItem(item, created.Add(2*time.Hour))
	assert.ErrorIs(err, ErrNotFound)
}

func TestDynamoItemWithoutTTL(t *testing.T) {
	assert := assert.New(t)

	item, err := toItem(newReport("a.mid"), 0)
	assert.NoError(err)
	assert.NotContains(item, "ExpiresAt")

	delete(item, "Report")
	_, err = fromItem(item, time.Now())
	assert.ErrorContains(err, "has no body")

	item["Report"] = &dynamodb.AttributeValue{S: aws.String("{not json")}
	_, err = fromItem(item, time.Now())
	assert.ErrorContains(err, "could not decode report")
}

func TestNewFromEnv(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("REPORT_STORE", "memory")
	store, err := NewFromEnv()
	assert.NoError(err)
	assert.IsType(&MemoryStore{}, store)

	t.Setenv("REPORT_STORE", "postgres")
	_, err = NewFromEnv()
	assert.EqualError(err, `unknown report store "postgres"`)
}
