// Package models - User preferences persisted by the settings store.
//
// Settings Design:
// - Mirrors the options the extension popup exposes
// - Defaults apply whenever a field is missing so a fresh store is usable
// - Shortcuts are single upper-case letters; anything else falls back to the default
// - The API key never leaves the service unmasked
package models

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// Preference defaults
const (
	DefaultAPIURL         = "https://api-free.deepl.com/v2/translate"
	DefaultTargetLanguage = "EN"

	DefaultShortcutActivate       = "A"
	DefaultShortcutDeactivate     = "K"
	DefaultShortcutTestConnection = "T"
	DefaultShortcutToggle         = "G"
)

// Settings holds the user's relay preferences.
type Settings struct {
	TargetLanguage string    `json:"targetLanguage"`
	APIURL         string    `json:"apiUrl"`
	APIKey         string    `json:"apiKey"`
	IsPluginActive bool      `json:"isPluginActive"`
	Shortcuts      Shortcuts `json:"shortcuts"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Shortcuts are the letters bound, together with a modifier, to extension actions.
type Shortcuts struct {
	Activate       string `json:"activate"`
	Deactivate     string `json:"deactivate"`
	TestConnection string `json:"testConnection"`
	Toggle         string `json:"toggle"`
}

// NewDefaultSettings returns the settings a fresh install starts with.
func NewDefaultSettings() *Settings {
	return &Settings{
		TargetLanguage: DefaultTargetLanguage,
		APIURL:         DefaultAPIURL,
		IsPluginActive: false,
		Shortcuts:      DefaultShortcuts(),
	}
}

func DefaultShortcuts() Shortcuts {
	return Shortcuts{
		Activate:       DefaultShortcutActivate,
		Deactivate:     DefaultShortcutDeactivate,
		TestConnection: DefaultShortcutTestConnection,
		Toggle:         DefaultShortcutToggle,
	}
}

// Validate checks the fields required to reach the provider.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.APIURL) == "" {
		return errors.New("API URL is required")
	}
	if strings.TrimSpace(s.APIKey) == "" {
		return errors.New("API key is required")
	}
	return nil
}

// Normalize trims input, upper-cases the target language and fills defaults.
func (s *Settings) Normalize() {
	s.APIURL = strings.TrimSpace(s.APIURL)
	s.APIKey = strings.TrimSpace(s.APIKey)
	s.TargetLanguage = strings.ToUpper(strings.TrimSpace(s.TargetLanguage))
	if s.TargetLanguage == "" {
		s.TargetLanguage = DefaultTargetLanguage
	}
	s.Shortcuts.Normalize()
}

// Normalize upper-cases each shortcut, replacing anything that is not a
// single letter with its default.
func (sc *Shortcuts) Normalize() {
	sc.Activate = normalizeShortcut(sc.Activate, DefaultShortcutActivate)
	sc.Deactivate = normalizeShortcut(sc.Deactivate, DefaultShortcutDeactivate)
	sc.TestConnection = normalizeShortcut(sc.TestConnection, DefaultShortcutTestConnection)
	sc.Toggle = normalizeShortcut(sc.Toggle, DefaultShortcutToggle)
}

func normalizeShortcut(value, fallback string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	runes := []rune(value)
	if len(runes) != 1 || !unicode.IsLetter(runes[0]) {
		return fallback
	}
	return value
}

// Masked returns a copy safe to hand to clients.
func (s *Settings) Masked() *Settings {
	masked := *s
	masked.APIKey = MaskSecret(s.APIKey)
	return &masked
}

// MaskSecret keeps the last four characters of a secret.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	runes := []rune(secret)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
