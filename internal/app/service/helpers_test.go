package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/internal/app/schedule"
	"github.com/ikkim/messreview-backend/internal/db"
	"github.com/ikkim/messreview-backend/internal/websocket"
	"github.com/ikkim/messreview-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	util.BcryptCost = bcrypt.MinCost
	m.Run()
}

var ist = time.FixedZone("IST", 5*3600+1800)

// mondayLunch is 13:00 IST on Monday 2026-10-19, inside the lunch window.
var mondayLunch = time.Date(2026, 10, 19, 13, 0, 0, 0, ist)

func fixedClock(t time.Time) *schedule.Clock {
	return schedule.NewClock(ist, func() time.Time { return t })
}

func setupServiceDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, email, name string, role model.UserRole) *model.User {
	user := &model.User{Email: email, PasswordHash: "hash", Name: name, Role: role}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *recordingPublisher) Publish(e websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Events() []websocket.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]websocket.Event(nil), p.events...)
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (s *memoryStorage) Put(_ context.Context, key, _ string, body []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = body
	return "https://cdn.example.com/" + key, nil
}

type memoryRevoker struct {
	revoked map[string]time.Duration
}

func (r *memoryRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if r.revoked == nil {
		r.revoked = make(map[string]time.Duration)
	}
	r.revoked[tokenID] = ttl
	return nil
}
