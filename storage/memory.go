package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/allegro/bigcache/v3"
)

const sessionTTL = 24 * time.Hour

// MemoryStorage keeps sessions as JSON blobs in bigcache. Sessions of
// abandoned conversations fall out after sessionTTL.
type MemoryStorage struct {
	cache *bigcache.BigCache
}

func NewMemoryStorage() (*MemoryStorage, error) {
	cache, err := bigcache.NewBigCache(bigcache.DefaultConfig(sessionTTL))
	if err != nil {
		return nil, fmt.Errorf("creating session cache: %w", err)
	}
	return &MemoryStorage{cache: cache}, nil
}

func sessionKey(userId int64) string {
	return strconv.FormatInt(userId, 10)
}

func (m *MemoryStorage) GetSession(userId int64) (*Session, error) {
	b, err := m.cache.Get(sessionKey(userId))
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(b, &session); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &session, nil
}

func (m *MemoryStorage) PutSession(session *Session) error {
	session.UpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return m.cache.Set(sessionKey(session.UserID), data)
}

func (m *MemoryStorage) DeleteSession(userId int64) error {
	err := m.cache.Delete(sessionKey(userId))
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}

func (m *MemoryStorage) AllSessions() ([]Session, error) {
	var sessions []Session
	it := m.cache.Iterator()
	for it.SetNext() {
		entry, err := it.Value()
		if err != nil {
			return nil, fmt.Errorf("iterating sessions: %w", err)
		}
		var session Session
		if err := json.Unmarshal(entry.Value(), &session); err != nil {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (m *MemoryStorage) Close() error {
	return m.cache.Close()
}
