// Package models - API request types and input validation.
// This file defines the inbound messages the extension surfaces send to the relay.
//
// Validation Philosophy:
// - Fail fast with clear error messages for invalid input
// - Normalize input data for consistent processing (trimmed strings, upper-case languages)
// - Leave provider credentials optional here; the dispatcher fills them from stored settings
// - Separate validation from normalization for clear error reporting
package models

import (
	"errors"
	"strings"
)

// TranslateRequest asks the relay to translate one piece of text.
//
// Empty TargetLanguage, APIURL and APIKey fall back to the stored settings,
// so a content script only has to send the text it selected.
type TranslateRequest struct {
	Text           string `json:"text"`                     // Text to translate
	TargetLanguage string `json:"targetLanguage,omitempty"` // Target language code (e.g. "DE")
	APIURL         string `json:"apiUrl,omitempty"`         // Provider endpoint
	APIKey         string `json:"apiKey,omitempty"`         // Provider credential
}

// TestConnectionRequest probes the provider with the given or stored credentials.
type TestConnectionRequest struct {
	APIURL string `json:"apiUrl,omitempty"`
	APIKey string `json:"apiKey,omitempty"`
}

// PluginStatusRequest sets the plugin state. A nil IsActive toggles it.
type PluginStatusRequest struct {
	IsActive *bool `json:"isActive,omitempty"`
}

func (r *TranslateRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text is required")
	}
	return nil
}

func (r *TranslateRequest) Normalize() {
	r.TargetLanguage = strings.ToUpper(strings.TrimSpace(r.TargetLanguage))
	r.APIURL = strings.TrimSpace(r.APIURL)
	r.APIKey = strings.TrimSpace(r.APIKey)
}

// ApplyDefaults fills empty provider fields from the stored settings.
func (r *TranslateRequest) ApplyDefaults(settings *Settings) {
	if settings == nil {
		return
	}
	if r.TargetLanguage == "" {
		r.TargetLanguage = settings.TargetLanguage
	}
	if r.APIURL == "" {
		r.APIURL = settings.APIURL
	}
	if r.APIKey == "" {
		r.APIKey = settings.APIKey
	}
}

// Credentials reports which provider field is still missing, if any.
func (r *TranslateRequest) Credentials() error {
	if r.APIURL == "" {
		return errors.New("API URL is not configured")
	}
	if r.APIKey == "" {
		return errors.New("API key is not configured")
	}
	if r.TargetLanguage == "" {
		return errors.New("target language is not configured")
	}
	return nil
}

func (r *TestConnectionRequest) Normalize() {
	r.APIURL = strings.TrimSpace(r.APIURL)
	r.APIKey = strings.TrimSpace(r.APIKey)
}

func (r *TestConnectionRequest) ApplyDefaults(settings *Settings) {
	if settings == nil {
		return
	}
	if r.APIURL == "" {
		r.APIURL = settings.APIURL
	}
	if r.APIKey == "" {
		r.APIKey = settings.APIKey
	}
}
