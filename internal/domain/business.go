package domain

import (
	"bytes"
	"encoding/json"
	"net/mail"
	"strconv"
	"strings"
	"time"
)

// Business is a tenant account on the platform. Logs are attributed to a
// business through its ID.
type Business struct {
	ID        string    `json:"_id"`
	Name      string    `json:"businessName"`
	Email     string    `json:"businessEmail"`
	CreatedAt time.Time `json:"businessCreated_at"`
	APIKey    string    `json:"businessAPIKey"`
}

var businessTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON accepts businessCreated_at as an RFC 3339 or plain date
// string, or as epoch milliseconds. An empty or unreadable value leaves
// CreatedAt zero instead of failing the whole business.
func (b *Business) UnmarshalJSON(data []byte) error {
	type alias Business
	aux := struct {
		*alias
		CreatedAt json.RawMessage `json:"businessCreated_at"`
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	b.CreatedAt = parseBusinessTime(aux.CreatedAt)
	return nil
}

func parseBusinessTime(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}
	if raw[0] != '"' {
		ms, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return time.Time{}
		}
		return time.UnixMilli(ms).UTC()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	for _, layout := range businessTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// CreateBusinessInput carries the registration form. Password is write-only.
type CreateBusinessInput struct {
	Name     string `json:"businessName"`
	Email    string `json:"businessEmail"`
	Password string `json:"businessPassword"`
}

// Normalize trims surrounding whitespace from name and email.
func (in CreateBusinessInput) Normalize() CreateBusinessInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

// ValidateCreateBusinessInput validates a registration form
func ValidateCreateBusinessInput(in CreateBusinessInput) error {
	if in.Name == "" {
		return ErrBusinessNameRequired
	}
	if in.Email == "" {
		return ErrBusinessEmailRequired
	}
	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		return ErrBusinessEmailInvalid
	}
	if in.Password == "" {
		return ErrBusinessPasswordRequired
	}
	return nil
}

const maskRune = "•"

// MaskAPIKey hides a key behind one bullet per character.
func MaskAPIKey(key string) string {
	return strings.Repeat(maskRune, len([]rune(key)))
}

// Masked returns a copy of b with its API key obscured.
func (b Business) Masked() Business {
	b.APIKey = MaskAPIKey(b.APIKey)
	return b
}
