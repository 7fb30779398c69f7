package storage

import "sync"

// MemoryLanguageStorage is an in-memory implementation of LanguageStorage
type MemoryLanguageStorage struct {
	languages map[int64]string
	mutex     sync.RWMutex
}

func NewMemoryLanguageStorage() *MemoryLanguageStorage {
	return &MemoryLanguageStorage{
		languages: make(map[int64]string),
	}
}

func (m *MemoryLanguageStorage) GetLanguage(userId int64) (string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.languages[userId], nil
}

func (m *MemoryLanguageStorage) PutLanguage(userId int64, code string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.languages[userId] = code
	return nil
}

func (m *MemoryLanguageStorage) Close() error {
	return nil
}
