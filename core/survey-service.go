package core

type EventKind int

const (
	EventText EventKind = iota
	EventCommand
	EventPhoto
)

// Event is one classified inbound message from the transport.
type Event struct {
	UserID      int64
	Kind        EventKind
	Text        string // message text, or caption for a photo
	Command     string // command name without the slash
	PhotoFileID string
}

type SurveyService interface {
	HandleEvent(ev Event)
}

// Sender delivers outbound messages; implemented by the transport.
// A nil keyboard means "keep the current one".
type Sender interface {
	SendText(chatId int64, text string, keyboard [][]string) error
	SendPhoto(chatId int64, fileId, caption string) error
}
