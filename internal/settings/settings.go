package settings

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/weblineafrica/order-sms/internal/message"
)

const DefaultSenderID = "TAARIFA"

var ErrReadOnly = errors.New("settings provider is read-only")

// Settings is the record store admins edit; it is read fresh for every dispatch.
type Settings struct {
	APIKey                    string `json:"api_key"`
	SenderID                  string `json:"sender_id"`
	MessageTemplate           string `json:"message_template"`
	AdminPhone                string `json:"admin_phone"`
	AdminNotificationsEnabled bool   `json:"enable_admin_notifications"`
}

type Provider interface {
	Settings(ctx context.Context) (Settings, error)
}

// Store is a Provider that can also persist edits.
type Store interface {
	Provider
	Save(ctx context.Context, s Settings) error
}

func (s Settings) WithDefaults() Settings {
	if s.SenderID == "" {
		s.SenderID = DefaultSenderID
	}
	s.MessageTemplate = message.CustomerTemplate(s.MessageTemplate)
	return s
}

// Masked hides all but the last four characters of the API key.
func (s Settings) Masked() Settings {
	if n := len(s.APIKey); n > 4 {
		s.APIKey = strings.Repeat("*", n-4) + s.APIKey[n-4:]
	} else if n > 0 {
		s.APIKey = strings.Repeat("*", n)
	}
	return s
}

type Static struct {
	value Settings
}

func NewStatic(s Settings) *Static {
	return &Static{value: s}
}

func (p *Static) Settings(ctx context.Context) (Settings, error) {
	return p.value, ctx.Err()
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Sanitize cleans admin form input: tags are stripped, control characters
// and runs of whitespace collapse to a single space, and values are trimmed.
func Sanitize(in Settings) Settings {
	return Settings{
		APIKey:                    sanitizeText(in.APIKey),
		SenderID:                  sanitizeText(in.SenderID),
		MessageTemplate:           sanitizeText(in.MessageTemplate),
		AdminPhone:                sanitizeText(in.AdminPhone),
		AdminNotificationsEnabled: in.AdminNotificationsEnabled,
	}
}

func sanitizeText(v string) string {
	v = tagPattern.ReplaceAllString(v, "")
	v = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, v)
	return strings.Join(strings.Fields(v), " ")
}
