package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sahilchouksey/bursary-hub/database"
	"github.com/sahilchouksey/bursary-hub/database/testdb"
	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/utils/cache"
)

func newTestDB(t *testing.T) *gorm.DB {
	return testdb.New(t, database.Models()...)
}

type bursaryOpt func(*model.Bursary)

func withStatus(s model.BursaryStatus) bursaryOpt { return func(b *model.Bursary) { b.Status = s } }
func dueIn(days int) bursaryOpt {
	return func(b *model.Bursary) { b.ApplicationDeadline = database.Day(time.Now().AddDate(0, 0, days)) }
}

var slugSeq int

func seedBursary(t *testing.T, db *gorm.DB, title string, opts ...bursaryOpt) model.Bursary {
	t.Helper()
	slugSeq++
	b := model.Bursary{
		Title:               title,
		Slug:                fmt.Sprintf("%s-%d", model.Slugify(title), slugSeq),
		Description:         title + " description",
		Category:            model.BursaryCategoryMerit,
		Status:              model.BursaryStatusActive,
		Amount:              2500,
		Currency:            "USD",
		Country:             "Kenya",
		ProviderName:        "Acme Trust",
		ApplicationDeadline: database.Day(time.Now().AddDate(0, 0, 30)),
	}
	for _, opt := range opts {
		opt(&b)
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func seedUser(t *testing.T, db *gorm.DB, subject string, role string) model.User {
	t.Helper()
	u := model.User{ExternalID: subject, Email: subject + "@example.com", Name: subject, Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// memoryCache is an in-process stand-in for the redis cache
type memoryCache struct {
	mu     sync.Mutex
	values map[string]interface{}
	err    error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]interface{}{}}
}

func (m *memoryCache) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value
	return true, nil
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *memoryCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok || m.err != nil {
		return cache.ErrNotFound
	}
	if stats, ok := v.(*OverviewStats); ok {
		*(dest.(*OverviewStats)) = *stats
		return nil
	}
	return cache.ErrNotFound
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
