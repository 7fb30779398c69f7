package survey

import (
	"errors"
	"strings"
	"testing"

	"Pollster/storage"
)

func TestRenderTranscriptSkipsPhotoAndEmptySlots(t *testing.T) {
	c, _, _ := newTestController(t)

	session := &storage.Session{
		UserID:  1,
		Company: "Acme",
		Answers: map[string][]storage.Answer{
			"Basic": {{Text: "first"}, {Photo: true}},
			"Acme":  {{}, {Text: "second"}},
		},
	}

	caption, err := c.renderTranscript(session)
	if err != nil {
		t.Fatalf("rendering: %v", err)
	}
	if !strings.HasPrefix(caption, "header-uzb:") {
		t.Fatalf("missing header:\n%s", caption)
	}
	for _, want := range []string{"bq1-uzb => first", "aq2-uzb => second"} {
		if !strings.Contains(caption, want) {
			t.Fatalf("missing %q:\n%s", want, caption)
		}
	}
	for _, skip := range []string{"bq2-uzb", "aq1-uzb"} {
		if strings.Contains(caption, skip) {
			t.Fatalf("slot %q should have been skipped:\n%s", skip, caption)
		}
	}
}

func TestRenderTranscriptUsesOutputLanguage(t *testing.T) {
	c, _, guard := newTestController(t)

	// the user answered in Russian but the transcript is rendered in
	// the fixed output language
	if err := guard.PutLanguage(1, "ru"); err != nil {
		t.Fatalf("storing language: %v", err)
	}
	session := &storage.Session{
		UserID:  1,
		Company: "Acme",
		Answers: map[string][]storage.Answer{
			"Basic": {{Text: "x"}},
		},
	}

	caption, err := c.renderTranscript(session)
	if err != nil {
		t.Fatalf("rendering: %v", err)
	}
	if !strings.Contains(caption, "bq1-uzb") || strings.Contains(caption, "bq1-ru") {
		t.Fatalf("expected output-language questions:\n%s", caption)
	}
}

func TestDispatchTranscriptFansOut(t *testing.T) {
	c, sender, _ := newTestController(t)

	if err := c.dispatchTranscript("Globex", "file-9", "caption"); err != nil {
		t.Fatalf("dispatching: %v", err)
	}
	if len(sender.photos) != 2 {
		t.Fatalf("expected 2 forwards, got %d", len(sender.photos))
	}
	if sender.photos[0].chatId != 900 || sender.photos[1].chatId != 901 {
		t.Fatalf("unexpected recipients: %+v", sender.photos)
	}
}

func TestDispatchTranscriptMissingAudience(t *testing.T) {
	c, sender, _ := newTestController(t)

	err := c.dispatchTranscript("Unknown", "file-9", "caption")
	if !errors.Is(err, ErrAudienceNotConfigured) {
		t.Fatalf("expected ErrAudienceNotConfigured, got %v", err)
	}
	if len(sender.photos) != 0 {
		t.Fatalf("nothing should have been sent, got %+v", sender.photos)
	}
}
