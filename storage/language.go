package storage

// LanguageStorage holds each user's chosen language. The record lives
// independently of the session: it survives survey resets and is only
// overwritten by an explicit language choice.
type LanguageStorage interface {
	// GetLanguage returns "" when the user never chose a language.
	GetLanguage(userId int64) (string, error)
	PutLanguage(userId int64, code string) error
	Close() error
}
