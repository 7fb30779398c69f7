package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const validLocales = `
ru:
  welcome: "welcome"
  settings: "settings"
  sent_photo: "photo"
  sent_callback: "thanks"
  sent_to_manager: "header"
  answer: " - "
  internal_error: "oops"
  keyboards:
    settings: "Settings"
    start: "Start"
    back: "Back"
    start_poll: "Go"
    companies: "Pick one"
    selected: "Picked %s"
`

const validQuestions = `
Basic:
  ru:
    - "q1"
Beta:
  ru:
    - "q2"
Alpha:
  ru:
    - "q3"
`

func writeContent(t *testing.T, locales, questions string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	localesPath := filepath.Join(dir, "locales.yml")
	questionsPath := filepath.Join(dir, "questions.yml")
	if err := os.WriteFile(localesPath, []byte(locales), 0o644); err != nil {
		t.Fatalf("writing locales: %v", err)
	}
	if err := os.WriteFile(questionsPath, []byte(questions), 0o644); err != nil {
		t.Fatalf("writing questions: %v", err)
	}
	return localesPath, questionsPath
}

func TestProviderLoadsValidContent(t *testing.T) {
	localesPath, questionsPath := writeContent(t, validLocales, validQuestions)
	p, err := NewProvider(localesPath, questionsPath, []string{"ru"})
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	locale, err := p.Locale("ru")
	if err != nil {
		t.Fatalf("locale: %v", err)
	}
	if locale.Welcome != "welcome" || locale.Keyboards.Back != "Back" {
		t.Fatalf("unexpected locale: %+v", locale)
	}

	questions, err := p.Questions(BasicSet, "ru")
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 1 || questions[0] != "q1" {
		t.Fatalf("unexpected questions: %v", questions)
	}
}

func TestCompaniesSortedWithoutBasic(t *testing.T) {
	localesPath, questionsPath := writeContent(t, validLocales, validQuestions)
	p, err := NewProvider(localesPath, questionsPath, []string{"ru"})
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	companies := p.Companies()
	if len(companies) != 2 || companies[0] != "Alpha" || companies[1] != "Beta" {
		t.Fatalf("unexpected companies: %v", companies)
	}
	if p.IsCompany(BasicSet) {
		t.Fatalf("basic set must not be a company")
	}
	if !p.IsCompany("Alpha") || p.IsCompany("Gamma") {
		t.Fatalf("company lookup broken")
	}
}

func TestNotFoundErrors(t *testing.T) {
	localesPath, questionsPath := writeContent(t, validLocales, validQuestions)
	p, err := NewProvider(localesPath, questionsPath, []string{"ru"})
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	if _, err := p.Locale("de"); !errors.Is(err, ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
	if _, err := p.Questions("Gamma", "ru"); !errors.Is(err, ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
	if _, err := p.Questions("Alpha", "de"); !errors.Is(err, ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
}

func TestValidationRejectsBrokenContent(t *testing.T) {
	cases := []struct {
		name      string
		locales   string
		questions string
	}{
		{
			name:      "missing locale",
			locales:   `{}`,
			questions: validQuestions,
		},
		{
			name: "empty keyboard",
			locales: `
ru:
  welcome: "welcome"
  keyboards:
    settings: "Settings"
    start: "Start"
    back: ""
    start_poll: "Go"
    companies: "Pick one"
    selected: "Picked %s"
`,
			questions: validQuestions,
		},
		{
			name:    "missing basic set",
			locales: validLocales,
			questions: `
Alpha:
  ru:
    - "q"
`,
		},
		{
			name:    "set missing a language",
			locales: validLocales,
			questions: `
Basic:
  ru:
    - "q1"
Alpha:
  de:
    - "q"
`,
		},
		{
			name:    "empty question list",
			locales: validLocales,
			questions: `
Basic:
  ru: []
`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			localesPath, questionsPath := writeContent(t, tc.locales, tc.questions)
			if _, err := NewProvider(localesPath, questionsPath, []string{"ru"}); err == nil {
				t.Fatalf("expected a validation error")
			}
		})
	}
}

func TestReloadKeepsOldContentOnFailure(t *testing.T) {
	localesPath, questionsPath := writeContent(t, validLocales, validQuestions)
	p, err := NewProvider(localesPath, questionsPath, []string{"ru"})
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	if err := os.WriteFile(questionsPath, []byte(`Alpha: {ru: ["q"]}`), 0o644); err != nil {
		t.Fatalf("rewriting questions: %v", err)
	}
	if err := p.Reload(); err == nil {
		t.Fatalf("expected reload to fail")
	}

	questions, err := p.Questions(BasicSet, "ru")
	if err != nil {
		t.Fatalf("old content lost: %v", err)
	}
	if len(questions) != 1 || questions[0] != "q1" {
		t.Fatalf("old content changed: %v", questions)
	}
}

func TestReloadPicksUpChanges(t *testing.T) {
	localesPath, questionsPath := writeContent(t, validLocales, validQuestions)
	p, err := NewProvider(localesPath, questionsPath, []string{"ru"})
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	updated := validQuestions + `
Gamma:
  ru:
    - "q4"
`
	if err := os.WriteFile(questionsPath, []byte(updated), 0o644); err != nil {
		t.Fatalf("rewriting questions: %v", err)
	}
	if err := p.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !p.IsCompany("Gamma") {
		t.Fatalf("expected new company after reload")
	}
}
