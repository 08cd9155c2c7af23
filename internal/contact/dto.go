package contact

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
)

const (
	maxNameLength    = 120
	maxSubjectLength = 200
	maxMessageLength = 5000
)

// SubmitInput is the public contact form.
type SubmitInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type MessageDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type MessagePage struct {
	Items      []MessageDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func FromModel(m *models.ContactMessage) MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func (in SubmitInput) normalize() (*models.ContactMessage, map[string]string) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
	problems := map[string]string{}
	switch {
	case msg.Name == "":
		problems["name"] = "is required"
	case len(msg.Name) > maxNameLength:
		problems["name"] = "is too long"
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil || msg.Email == "" {
		problems["email"] = "must be a valid email"
	}
	switch {
	case msg.Subject == "":
		problems["subject"] = "is required"
	case len(msg.Subject) > maxSubjectLength:
		problems["subject"] = "is too long"
	}
	switch {
	case msg.Message == "":
		problems["message"] = "is required"
	case len(msg.Message) > maxMessageLength:
		problems["message"] = "is too long"
	}
	return msg, problems
}
