package content

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/goccy/go-yaml"
)

// BasicSet is the reserved question set asked before any company's
// own questions. It is never offered as a selectable company.
const BasicSet = "Basic"

var ErrContentNotFound = errors.New("content not found")

type Keyboards struct {
	Settings  string `yaml:"settings"`
	Start     string `yaml:"start"`
	Back      string `yaml:"back"`
	StartPoll string `yaml:"start_poll"`
	Companies string `yaml:"companies"`
	// Selected carries a %s placeholder for the company name.
	Selected string `yaml:"selected"`
}

type Locale struct {
	Welcome       string    `yaml:"welcome"`
	Settings      string    `yaml:"settings"`
	SentPhoto     string    `yaml:"sent_photo"`
	SentCallback  string    `yaml:"sent_callback"`
	SentToManager string    `yaml:"sent_to_manager"`
	Answer        string    `yaml:"answer"`
	InternalError string    `yaml:"internal_error"`
	Keyboards     Keyboards `yaml:"keyboards"`
}

// Provider is the read-only content source: localized UI strings and
// the per-company, per-language question lists. Both files are fully
// validated at load time so a content typo is a startup failure, not
// a mid-conversation one.
type Provider struct {
	localesPath   string
	questionsPath string
	// languages a user may pick, plus the fixed output language
	languages []string

	mutex     sync.RWMutex
	locales   map[string]Locale
	questions map[string]map[string][]string
}

func NewProvider(localesPath, questionsPath string, languages []string) (*Provider, error) {
	p := &Provider{
		localesPath:   localesPath,
		questionsPath: questionsPath,
		languages:     languages,
	}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload re-reads both files and swaps them in atomically. Invalid
// content is rejected and the previous content stays in effect.
func (p *Provider) Reload() error {
	locales, questions, err := load(p.localesPath, p.questionsPath)
	if err != nil {
		return err
	}
	if err := validate(locales, questions, p.languages); err != nil {
		return err
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.locales = locales
	p.questions = questions
	return nil
}

func load(localesPath, questionsPath string) (map[string]Locale, map[string]map[string][]string, error) {
	input, err := os.ReadFile(localesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading locales: %w", err)
	}
	locales := make(map[string]Locale)
	if err := yaml.Unmarshal(input, &locales); err != nil {
		return nil, nil, fmt.Errorf("parsing locales: %w", err)
	}

	input, err = os.ReadFile(questionsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading questions: %w", err)
	}
	questions := make(map[string]map[string][]string)
	if err := yaml.Unmarshal(input, &questions); err != nil {
		return nil, nil, fmt.Errorf("parsing questions: %w", err)
	}

	return locales, questions, nil
}

func validate(locales map[string]Locale, questions map[string]map[string][]string, languages []string) error {
	for _, code := range languages {
		locale, ok := locales[code]
		if !ok {
			return fmt.Errorf("locale %q: missing", code)
		}
		kb := locale.Keyboards
		for name, value := range map[string]string{
			"settings":   kb.Settings,
			"start":      kb.Start,
			"back":       kb.Back,
			"start_poll": kb.StartPoll,
			"companies":  kb.Companies,
			"selected":   kb.Selected,
		} {
			if value == "" {
				return fmt.Errorf("locale %q: keyboard %q is empty", code, name)
			}
		}
	}

	if _, ok := questions[BasicSet]; !ok {
		return fmt.Errorf("questions: set %q is missing", BasicSet)
	}
	for set, byLang := range questions {
		for _, code := range languages {
			list, ok := byLang[code]
			if !ok {
				return fmt.Errorf("questions: set %q has no language %q", set, code)
			}
			if len(list) == 0 {
				return fmt.Errorf("questions: set %q language %q is empty", set, code)
			}
		}
	}
	return nil
}

func (p *Provider) Locale(code string) (Locale, error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	locale, ok := p.locales[code]
	if !ok {
		return Locale{}, fmt.Errorf("locale %q: %w", code, ErrContentNotFound)
	}
	return locale, nil
}

func (p *Provider) Questions(set, code string) ([]string, error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	byLang, ok := p.questions[set]
	if !ok {
		return nil, fmt.Errorf("question set %q: %w", set, ErrContentNotFound)
	}
	list, ok := byLang[code]
	if !ok {
		return nil, fmt.Errorf("question set %q language %q: %w", set, code, ErrContentNotFound)
	}
	return list, nil
}

// Companies returns the selectable set names, sorted, without the
// reserved basic set.
func (p *Provider) Companies() []string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	companies := make([]string, 0, len(p.questions))
	for set := range p.questions {
		if set == BasicSet {
			continue
		}
		companies = append(companies, set)
	}
	sort.Strings(companies)
	return companies
}

// IsCompany reports whether text names a selectable company.
func (p *Provider) IsCompany(text string) bool {
	if text == BasicSet {
		return false
	}
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	_, ok := p.questions[text]
	return ok
}
