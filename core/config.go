package core

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"sync"
)

// Language maps a keyboard button label to the language code used
// as a key into the content files.
type Language struct {
	Label string `yaml:"label"`
	Code  string `yaml:"code"`
}

type Config struct {
	Env            string     `yaml:"env" env:"ENV" env-default:"local"`
	TelegramApiKey string     `yaml:"telegram_api_key" env:"TELEGRAM_API_KEY" env-default:""`
	OutputLanguage string     `yaml:"output_language" env-default:"uzb"`
	LanguagePrompt string     `yaml:"language_prompt" env-default:"Пожалуйста, выберите язык"`
	Languages      []Language `yaml:"languages"`
	Content        struct {
		Locales   string `yaml:"locales" env:"LOCALES_PATH" env-default:"locales.yml"`
		Questions string `yaml:"questions" env:"QUESTIONS_PATH" env-default:"questions.yml"`
		Watch     bool   `yaml:"watch" env-default:"false"`
	} `yaml:"content"`
	// Audiences maps a company name to the chat ids that receive
	// completed transcripts for that company.
	Audiences map[string][]int64 `yaml:"audiences"`
	Mongo     struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:""`
	} `yaml:"mongo"`
}

// LanguageByLabel resolves a keyboard button label to a language code.
func (c *Config) LanguageByLabel(label string) (string, bool) {
	for _, l := range c.Languages {
		if l.Label == label {
			return l.Code, true
		}
	}
	return "", false
}

// LanguageLabels returns the button labels in configured order.
func (c *Config) LanguageLabels() []string {
	labels := make([]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		labels = append(labels, l.Label)
	}
	return labels
}

// LanguageCodes returns the language codes in configured order.
func (c *Config) LanguageCodes() []string {
	codes := make([]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		codes = append(codes, l.Code)
	}
	return codes
}

var instance *Config
var once sync.Once

func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
		}
	})
	return instance, err
}

func MustLoad(path string) *Config {
	conf, err := GetConfig(path)
	if err != nil {
		panic(err)
	}
	return conf
}
