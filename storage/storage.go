package storage

import "time"

// Answer is one recorded slot of a question set. A zero Answer is an
// empty slot; Photo marks the "photo received" placeholder recorded at
// the sentinel position.
type Answer struct {
	Text  string `bson:"text" json:"text"`
	Photo bool   `bson:"photo" json:"photo"`
}

func (a Answer) Empty() bool {
	return a.Text == "" && !a.Photo
}

// Session is the per-user survey record. Status holds the encoded
// state machine position; the survey package owns its format.
// Answers are keyed by question-set name, slot i holds the answer to
// question i+1.
type Session struct {
	UserID    int64               `bson:"user_id" json:"user_id"`
	Status    string              `bson:"status" json:"status"`
	Company   string              `bson:"company" json:"company"`
	Answers   map[string][]Answer `bson:"answers" json:"answers"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}

type SessionStorage interface {
	// GetSession returns nil when no record exists for the user.
	GetSession(userId int64) (*Session, error)
	PutSession(session *Session) error
	DeleteSession(userId int64) error
	AllSessions() ([]Session, error)
	Close() error
}
