package holder

import (
	"Pollster/storage"
	"sync"
)

// SessionGuard fronts both stores and serializes access per user:
// events of one user are handled one at a time while different users
// proceed concurrently.
type SessionGuard struct {
	sessions storage.SessionStorage
	langs    storage.LanguageStorage
	mutex    sync.Mutex
	locks    map[int64]*sync.Mutex
}

func NewSessionGuard(sessions storage.SessionStorage, langs storage.LanguageStorage) *SessionGuard {
	return &SessionGuard{
		sessions: sessions,
		langs:    langs,
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (g *SessionGuard) userLock(userId int64) *sync.Mutex {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	l, ok := g.locks[userId]
	if !ok {
		l = &sync.Mutex{}
		g.locks[userId] = l
	}
	return l
}

// Lock must be held for the whole handling of one inbound event.
func (g *SessionGuard) Lock(userId int64) {
	g.userLock(userId).Lock()
}

func (g *SessionGuard) Unlock(userId int64) {
	g.userLock(userId).Unlock()
}

func (g *SessionGuard) GetSession(userId int64) (*storage.Session, error) {
	return g.sessions.GetSession(userId)
}

func (g *SessionGuard) PutSession(session *storage.Session) error {
	return g.sessions.PutSession(session)
}

func (g *SessionGuard) DeleteSession(userId int64) error {
	return g.sessions.DeleteSession(userId)
}

func (g *SessionGuard) AllSessions() ([]storage.Session, error) {
	return g.sessions.AllSessions()
}

func (g *SessionGuard) GetLanguage(userId int64) (string, error) {
	return g.langs.GetLanguage(userId)
}

func (g *SessionGuard) PutLanguage(userId int64, code string) error {
	return g.langs.PutLanguage(userId, code)
}

func (g *SessionGuard) Close() error {
	err := g.langs.Close()
	if cerr := g.sessions.Close(); cerr != nil {
		err = cerr
	}
	return err
}
