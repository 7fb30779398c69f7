package survey

import (
	"errors"
	"fmt"
	"strings"

	"Pollster/content"
	"Pollster/core"
	"Pollster/lib/sl"
	"Pollster/storage"
)

// finalize renders the transcript, forwards it with the photo to the
// company's audience and resets the user back to the menu. On a
// delivery failure the session is kept so the transcript is not lost.
func (c *Controller) finalize(ev core.Event, session *storage.Session, locale content.Locale) error {
	caption, err := c.renderTranscript(session)
	if err != nil {
		c.log.Error("rendering transcript", sl.User(ev.UserID), sl.Err(err))
		return c.failSafe(ev.UserID, locale)
	}
	if err := c.dispatchTranscript(session.Company, ev.PhotoFileID, caption); err != nil {
		c.log.Error("dispatching transcript", sl.User(ev.UserID), sl.Err(err))
		return c.sender.SendText(ev.UserID, locale.InternalError, nil)
	}
	if err := c.sender.SendText(ev.UserID, locale.SentCallback, nil); err != nil {
		return err
	}
	return c.showMenu(ev.UserID)
}

// renderTranscript pairs every recorded answer with its question in
// the fixed output language, basic set first. Empty slots and photo
// placeholders are left out.
func (c *Controller) renderTranscript(session *storage.Session) (string, error) {
	outputLang := c.conf.OutputLanguage
	outputLocale, err := c.content.Locale(outputLang)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(outputLocale.SentToManager)
	for _, set := range []string{content.BasicSet, session.Company} {
		answers := session.Answers[set]
		if len(answers) == 0 {
			continue
		}
		questions, err := c.content.Questions(set, outputLang)
		if err != nil {
			return "", err
		}
		b.WriteString(set)
		b.WriteString(":\n")
		for i, answer := range answers {
			if answer.Empty() || answer.Photo || i >= len(questions) {
				continue
			}
			b.WriteString(questions[i])
			b.WriteString(outputLocale.Answer)
			b.WriteString(answer.Text)
			b.WriteString("\n\n")
		}
	}
	return b.String(), nil
}

func (c *Controller) dispatchTranscript(company, photoFileId, caption string) error {
	audience := c.conf.Audiences[company]
	if len(audience) == 0 {
		return fmt.Errorf("company %q: %w", company, ErrAudienceNotConfigured)
	}
	var errs []error
	for _, chatId := range audience {
		if err := c.sender.SendPhoto(chatId, photoFileId, caption); err != nil {
			errs = append(errs, fmt.Errorf("forwarding to %d: %w", chatId, err))
		}
	}
	return errors.Join(errs...)
}
