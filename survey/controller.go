package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"Pollster/content"
	"Pollster/core"
	"Pollster/holder"
	"Pollster/lib/sl"
	"Pollster/storage"
)

var (
	ErrNoLanguage            = errors.New("no language selected")
	ErrAudienceNotConfigured = errors.New("no audience configured")
)

// Controller drives the survey conversation: it classifies inbound
// events against the session and locale strings, runs the state
// machine and hands completed transcripts to the configured audience.
type Controller struct {
	conf    *core.Config
	log     *slog.Logger
	content *content.Provider
	store   *holder.SessionGuard
	sender  core.Sender
}

func NewController(conf *core.Config, log *slog.Logger, provider *content.Provider, store *holder.SessionGuard, sender core.Sender) (*Controller, error) {
	// a company without an audience is a configuration error, caught
	// at startup rather than on the first completed survey
	for _, company := range provider.Companies() {
		if len(conf.Audiences[company]) == 0 {
			return nil, fmt.Errorf("company %q: %w", company, ErrAudienceNotConfigured)
		}
	}
	return &Controller{
		conf:    conf,
		log:     log.With(sl.Module("survey")),
		content: provider,
		store:   store,
		sender:  sender,
	}, nil
}

// HandleEvent processes one inbound event. Events of the same user are
// serialized; errors never escape past logging, the user is always
// left on a known screen.
func (c *Controller) HandleEvent(ev core.Event) {
	c.store.Lock(ev.UserID)
	defer c.store.Unlock(ev.UserID)

	var err error
	switch ev.Kind {
	case core.EventCommand:
		err = c.handleCommand(ev)
	case core.EventPhoto:
		err = c.handlePhoto(ev)
	default:
		err = c.handleText(ev)
	}
	if err != nil {
		c.log.Error("handling event", sl.User(ev.UserID), sl.Err(err))
	}
}

func (c *Controller) handleCommand(ev core.Event) error {
	switch ev.Command {
	case "start", "lang", "language":
		return c.selectLanguage(ev.UserID)
	case "menu":
		return c.showMenu(ev.UserID)
	case "lst":
		return c.dumpSessions(ev.UserID)
	case "get_id":
		return c.sender.SendText(ev.UserID, strconv.FormatInt(ev.UserID, 10), nil)
	}
	c.log.Debug("ignoring unknown command", sl.User(ev.UserID), slog.String("command", ev.Command))
	return nil
}

// handleText tries the classifiers in fixed order: language labels,
// locale keyboard buttons, company names, then the active poll.
func (c *Controller) handleText(ev core.Event) error {
	if code, ok := c.conf.LanguageByLabel(ev.Text); ok {
		if err := c.store.PutLanguage(ev.UserID, code); err != nil {
			return err
		}
		return c.showMenu(ev.UserID)
	}

	lang, locale, err := c.localeFor(ev.UserID)
	if errors.Is(err, ErrNoLanguage) || errors.Is(err, content.ErrContentNotFound) {
		return c.selectLanguage(ev.UserID)
	}
	if err != nil {
		return err
	}

	switch ev.Text {
	case locale.Keyboards.Settings:
		return c.showSettings(ev.UserID, locale)
	case locale.Keyboards.Back:
		return c.back(ev.UserID, locale, lang)
	case locale.Keyboards.Start:
		return c.showCompanies(ev.UserID, locale)
	}
	if c.content.IsCompany(ev.Text) {
		return c.selectCompany(ev.UserID, locale, ev.Text)
	}
	if ev.Text == locale.Keyboards.StartPoll {
		return c.startPoll(ev.UserID, locale, lang)
	}
	return c.pollingAnswer(ev, locale, lang)
}

func (c *Controller) handlePhoto(ev core.Event) error {
	lang, locale, err := c.localeFor(ev.UserID)
	if errors.Is(err, ErrNoLanguage) || errors.Is(err, content.ErrContentNotFound) {
		return c.selectLanguage(ev.UserID)
	}
	if err != nil {
		return err
	}
	return c.pollingAnswer(ev, locale, lang)
}

// localeFor resolves the user's chosen language and its locale.
func (c *Controller) localeFor(userId int64) (string, content.Locale, error) {
	lang, err := c.store.GetLanguage(userId)
	if err != nil {
		return "", content.Locale{}, err
	}
	if lang == "" {
		return "", content.Locale{}, ErrNoLanguage
	}
	locale, err := c.content.Locale(lang)
	if err != nil {
		return "", content.Locale{}, err
	}
	return lang, locale, nil
}

// loadSession returns the stored session or a fresh one; an absent
// record is the AwaitingMenu state.
func (c *Controller) loadSession(userId int64) (*storage.Session, Status, error) {
	session, err := c.store.GetSession(userId)
	if err != nil {
		return nil, Status{}, err
	}
	if session == nil {
		fresh := Status{Kind: AwaitingMenu}
		return &storage.Session{UserID: userId, Status: fresh.Encode()}, fresh, nil
	}
	status, err := ParseStatus(session.Status)
	if err != nil {
		return session, Status{}, err
	}
	return session, status, nil
}

func (c *Controller) selectLanguage(userId int64) error {
	if err := c.store.DeleteSession(userId); err != nil {
		return err
	}
	labels := c.conf.LanguageLabels()
	keyboard := make([][]string, 0, len(labels))
	for _, label := range labels {
		keyboard = append(keyboard, []string{label})
	}
	return c.sender.SendText(userId, c.conf.LanguagePrompt, keyboard)
}

func (c *Controller) showMenu(userId int64) error {
	if err := c.store.DeleteSession(userId); err != nil {
		return err
	}
	_, locale, err := c.localeFor(userId)
	if errors.Is(err, ErrNoLanguage) || errors.Is(err, content.ErrContentNotFound) {
		return c.selectLanguage(userId)
	}
	if err != nil {
		return err
	}
	keyboard := [][]string{{locale.Keyboards.Settings, locale.Keyboards.Start}}
	return c.sender.SendText(userId, locale.Welcome, keyboard)
}

func (c *Controller) showSettings(userId int64, locale content.Locale) error {
	session, _, err := c.loadSession(userId)
	if err != nil && !errors.Is(err, ErrMalformedStatus) {
		return err
	}
	keyboard := [][]string{{"/lang"}, {locale.Keyboards.Back}}
	if err := c.sender.SendText(userId, locale.Settings, keyboard); err != nil {
		return err
	}
	session.Status = Status{Kind: ShowingSettings}.Encode()
	return c.store.PutSession(session)
}

// showCompanies regenerates the company list. Entering it restarts the
// flow from the top, so the session is rebuilt from scratch.
func (c *Controller) showCompanies(userId int64, locale content.Locale) error {
	companies := c.content.Companies()
	keyboard := make([][]string, 0, len(companies)/2+2)
	for i := 0; i < len(companies); i += 2 {
		end := i + 2
		if end > len(companies) {
			end = len(companies)
		}
		keyboard = append(keyboard, companies[i:end])
	}
	keyboard = append(keyboard, []string{locale.Keyboards.Back})
	if err := c.sender.SendText(userId, locale.Keyboards.Companies, keyboard); err != nil {
		return err
	}
	session := &storage.Session{
		UserID: userId,
		Status: Status{Kind: ShowingCompanies}.Encode(),
	}
	return c.store.PutSession(session)
}

func (c *Controller) selectCompany(userId int64, locale content.Locale, company string) error {
	text := fmt.Sprintf(locale.Keyboards.Selected, company)
	keyboard := [][]string{{locale.Keyboards.Back, locale.Keyboards.StartPoll}}
	if err := c.sender.SendText(userId, text, keyboard); err != nil {
		return err
	}
	session := &storage.Session{
		UserID:  userId,
		Company: company,
		Status:  Status{Kind: ShowingCompanies}.Encode(),
	}
	return c.store.PutSession(session)
}

func (c *Controller) startPoll(userId int64, locale content.Locale, lang string) error {
	session, status, err := c.loadSession(userId)
	if errors.Is(err, ErrMalformedStatus) {
		return c.failSafe(userId, locale)
	}
	if err != nil {
		return err
	}
	if status.Kind != ShowingCompanies {
		c.log.Debug("start poll outside company screen", sl.User(userId))
		return nil
	}
	if session.Company == "" {
		return c.failSafe(userId, locale)
	}
	basic, err := c.content.Questions(content.BasicSet, lang)
	if errors.Is(err, content.ErrContentNotFound) {
		return c.showMenu(userId)
	}
	if err != nil {
		return err
	}
	if err := c.sender.SendText(userId, basic[0], backKeyboard(locale)); err != nil {
		return err
	}
	session.Status = PollingAt(content.BasicSet, 1).Encode()
	return c.store.PutSession(session)
}

func (c *Controller) back(userId int64, locale content.Locale, lang string) error {
	session, status, err := c.loadSession(userId)
	if errors.Is(err, ErrMalformedStatus) {
		return c.failSafe(userId, locale)
	}
	if err != nil {
		return err
	}
	switch status.Kind {
	case ShowingSettings:
		return c.showMenu(userId)
	case ShowingCompanies:
		if session.Company == "" {
			return c.showMenu(userId)
		}
		return c.showCompanies(userId, locale)
	case Polling:
		return c.backInPoll(userId, session, status, locale, lang)
	default:
		// no active flow to step out of
		return c.failSafe(userId, locale)
	}
}

func (c *Controller) backInPoll(userId int64, session *storage.Session, status Status, locale content.Locale, lang string) error {
	if status.Index <= 1 {
		if status.Set == content.BasicSet {
			// leaving the poll entirely: full reset
			if err := c.store.DeleteSession(userId); err != nil {
				return err
			}
			if session.Company == "" {
				return c.showMenu(userId)
			}
			return c.showCompanies(userId, locale)
		}
		// crossing the seam back into the basic set, onto its last question
		basic, err := c.content.Questions(content.BasicSet, lang)
		if errors.Is(err, content.ErrContentNotFound) {
			return c.showMenu(userId)
		}
		if err != nil {
			return err
		}
		last := len(basic)
		if err := c.sender.SendText(userId, basic[last-1], backKeyboard(locale)); err != nil {
			return err
		}
		session.Status = PollingAt(content.BasicSet, last).Encode()
		return c.store.PutSession(session)
	}

	questions, err := c.content.Questions(status.Set, lang)
	if errors.Is(err, content.ErrContentNotFound) {
		return c.showMenu(userId)
	}
	if err != nil {
		return err
	}
	// the stored index already points at the next question to ask, so
	// stepping back lands one question before the one just shown
	prev := status.Index - 2
	if prev < 0 {
		prev = 0
	}
	if prev >= len(questions) {
		return c.failSafe(userId, locale)
	}
	if err := c.sender.SendText(userId, questions[prev], backKeyboard(locale)); err != nil {
		return err
	}
	session.Status = PollingAt(status.Set, prev+1).Encode()
	return c.store.PutSession(session)
}

func (c *Controller) pollingAnswer(ev core.Event, locale content.Locale, lang string) error {
	session, status, err := c.loadSession(ev.UserID)
	if errors.Is(err, ErrMalformedStatus) {
		return c.failSafe(ev.UserID, locale)
	}
	if err != nil {
		return err
	}
	if status.Kind != Polling {
		c.log.Debug("ignoring message outside poll", sl.User(ev.UserID))
		return nil
	}
	return c.processAnswer(ev, session, status, locale, lang)
}

func (c *Controller) processAnswer(ev core.Event, session *storage.Session, status Status, locale content.Locale, lang string) error {
	questions, err := c.content.Questions(status.Set, lang)
	if errors.Is(err, content.ErrContentNotFound) {
		return c.showMenu(ev.UserID)
	}
	if err != nil {
		return err
	}

	if status.Index > len(questions) {
		// sentinel position: everything answered, waiting for the photo
		if ev.PhotoFileID == "" {
			return c.sender.SendText(ev.UserID, locale.SentPhoto, nil)
		}
		return c.finalize(ev, session, locale)
	}

	answer := storage.Answer{Text: ev.Text}
	if ev.PhotoFileID != "" {
		answer = storage.Answer{Photo: true}
	}
	session.Answers = record(session.Answers, status.Set, status.Index, answer)

	switch {
	case status.Set == content.BasicSet && status.Index == len(questions):
		// the basic set is done, continue straight into the company's
		// own questions
		if session.Company == "" {
			return c.failSafe(ev.UserID, locale)
		}
		companyQuestions, err := c.content.Questions(session.Company, lang)
		if errors.Is(err, content.ErrContentNotFound) {
			return c.showMenu(ev.UserID)
		}
		if err != nil {
			return err
		}
		if err := c.sender.SendText(ev.UserID, companyQuestions[0], backKeyboard(locale)); err != nil {
			return err
		}
		session.Status = PollingAt(session.Company, 1).Encode()
	case status.Index < len(questions):
		if err := c.sender.SendText(ev.UserID, questions[status.Index], backKeyboard(locale)); err != nil {
			return err
		}
		session.Status = PollingAt(status.Set, status.Index+1).Encode()
	default:
		// last company question answered; park one past the end and
		// ask for the photo
		if err := c.sender.SendText(ev.UserID, locale.SentPhoto, nil); err != nil {
			return err
		}
		session.Status = PollingAt(status.Set, len(questions)+1).Encode()
	}
	return c.store.PutSession(session)
}

func (c *Controller) failSafe(userId int64, locale content.Locale) error {
	if err := c.sender.SendText(userId, locale.InternalError, nil); err != nil {
		return err
	}
	return c.showMenu(userId)
}

func (c *Controller) dumpSessions(userId int64) error {
	sessions, err := c.store.AllSessions()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return c.sender.SendText(userId, "no sessions", nil)
	}
	dump, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return err
	}
	return c.sender.SendText(userId, string(dump), nil)
}

func backKeyboard(locale content.Locale) [][]string {
	return [][]string{{locale.Keyboards.Back}}
}
