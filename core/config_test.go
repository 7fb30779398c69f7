package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetConfig(t *testing.T) {
	raw := `
env: "dev"
telegram_api_key: "123:abc"
output_language: "uzb"
languages:
  - label: "RU"
    code: "ru"
  - label: "UZ"
    code: "uzb"
content:
  locales: "locales.yml"
  questions: "questions.yml"
  watch: true
audiences:
  Acme:
    - 900
mongo:
  enabled: false
`
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	conf, err := GetConfig(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if conf.Env != "dev" || conf.TelegramApiKey != "123:abc" {
		t.Fatalf("unexpected config: %+v", conf)
	}
	if !conf.Content.Watch || conf.Content.Locales != "locales.yml" {
		t.Fatalf("unexpected content block: %+v", conf.Content)
	}
	if len(conf.Audiences["Acme"]) != 1 || conf.Audiences["Acme"][0] != 900 {
		t.Fatalf("unexpected audiences: %+v", conf.Audiences)
	}
	if conf.LanguagePrompt == "" {
		t.Fatalf("expected default language prompt")
	}

	// the config is a singleton; a second call returns the same instance
	again, err := GetConfig(filepath.Join(t.TempDir(), "other.yml"))
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if again != conf {
		t.Fatalf("expected the cached instance")
	}
}

func TestLanguageHelpers(t *testing.T) {
	conf := &Config{
		Languages: []Language{
			{Label: "RU", Code: "ru"},
			{Label: "UZ", Code: "uzb"},
		},
	}

	code, ok := conf.LanguageByLabel("UZ")
	if !ok || code != "uzb" {
		t.Fatalf("unexpected lookup result: %q %v", code, ok)
	}
	if _, ok := conf.LanguageByLabel("EN"); ok {
		t.Fatalf("unknown label must not resolve")
	}

	labels := conf.LanguageLabels()
	if len(labels) != 2 || labels[0] != "RU" || labels[1] != "UZ" {
		t.Fatalf("unexpected labels: %v", labels)
	}
	codes := conf.LanguageCodes()
	if len(codes) != 2 || codes[0] != "ru" || codes[1] != "uzb" {
		t.Fatalf("unexpected codes: %v", codes)
	}
}
