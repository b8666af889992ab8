package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pharaohs/pitchside/internal/domain"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/multierr"
)

// Bucket names
var (
	bucketSession       = []byte("session")
	bucketFeed          = []byte("feed")
	bucketShortlist     = []byte("shortlist")
	bucketInvitations   = []byte("invitations")
	bucketNotifications = []byte("notifications")
)

var allBuckets = [][]byte{bucketSession, bucketFeed, bucketShortlist, bucketInvitations, bucketNotifications}

// Cache implements domain.Store using BoltDB.
type Cache struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewCache opens the cache for serverURL under baseDir. An empty baseDir
// keeps everything in memory.
func NewCache(baseDir, serverURL string) (*Cache, error) {
	if baseDir == "" {
		// Memory-only mode (no persistence)
		return &Cache{cache: make(map[string][]byte)}, nil
	}

	dir := baseDir
	if serverURL != "" {
		dir = filepath.Join(baseDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "pitchside.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, multierr.Append(err, db.Close())
	}

	return &Cache{db: db, cache: make(map[string][]byte)}, nil
}

// hashServerURL keeps caches for different backends apart
func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *Cache) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *Cache) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *Cache) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *Cache) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *Cache) deletePrefix(bucket []byte, prefix string) {
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Session ===

func (s *Cache) GetSession() (*domain.SessionRecord, bool) {
	var rec domain.SessionRecord
	if !s.get(bucketSession, "current", &rec) || rec.Token == "" {
		return nil, false
	}
	return &rec, true
}

func (s *Cache) SaveSession(rec domain.SessionRecord) error {
	return s.set(bucketSession, "current", rec)
}

func (s *Cache) ClearSession() {
	s.delete(bucketSession, "current")
}

// === Feed (key: page:{n}) ===

func (s *Cache) GetFeed(page int) (*domain.FeedPage, bool) {
	var feed domain.FeedPage
	ok := s.get(bucketFeed, "page:"+strconv.Itoa(page), &feed)
	if !ok {
		return nil, false
	}
	return &feed, true
}

func (s *Cache) SaveFeed(page int, feed *domain.FeedPage) error {
	return s.set(bucketFeed, "page:"+strconv.Itoa(page), feed)
}

// InvalidateFeed drops every cached feed page
func (s *Cache) InvalidateFeed() {
	s.deletePrefix(bucketFeed, "page:")
}

// === Shortlist ===

func (s *Cache) GetShortlist() ([]domain.PlayerProfile, bool) {
	var players []domain.PlayerProfile
	ok := s.get(bucketShortlist, "list", &players)
	return players, ok
}

func (s *Cache) SaveShortlist(players []domain.PlayerProfile) error {
	return s.set(bucketShortlist, "list", players)
}

// === Invitations ===

func (s *Cache) GetInvitations(key string) ([]domain.Invitation, bool) {
	var invitations []domain.Invitation
	ok := s.get(bucketInvitations, key, &invitations)
	return invitations, ok
}

func (s *Cache) SaveInvitations(key string, invitations []domain.Invitation) error {
	return s.set(bucketInvitations, key, invitations)
}

// === Notifications ===

func (s *Cache) GetNotifications() (*domain.NotificationPage, bool) {
	var page domain.NotificationPage
	if !s.get(bucketNotifications, "inbox", &page) {
		return nil, false
	}
	return &page, true
}

func (s *Cache) SaveNotifications(page *domain.NotificationPage) error {
	return s.set(bucketNotifications, "inbox", page)
}

// InvalidateAll wipes every bucket, session included
func (s *Cache) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
