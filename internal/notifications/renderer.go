package notifications

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	"github.com/angelmondragon/babydeals-backend/pkg/outbox"
	"github.com/angelmondragon/babydeals-backend/pkg/outbox/payloads"
)

const (
	SenderName = "Baby Deals"
	Signature  = "The Baby Deals Team"

	SubjectOfferSubmitted = "🎉 Thanks for submitting your offer!"
	SubjectOfferApproved  = "🚀 Your offer is now LIVE!"
	SubjectAdPaid         = "✨ Your ad campaign is confirmed!"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrUnsupportedEvent marks outbox events that never produce an email.
var ErrUnsupportedEvent = errors.New("no email template for event")

// Email is a rendered transactional message.
type Email struct {
	Template string
	To       string
	ToName   string
	Subject  string
	HTML     string
	Text     string
}

type emailTemplate struct {
	name    string
	subject string
	file    string
}

var emailTemplates = map[enums.OutboxEventType]emailTemplate{
	enums.EventOfferSubmitted: {name: "offer_submitted", subject: SubjectOfferSubmitted, file: "templates/offer_submitted.html"},
	enums.EventOfferApproved:  {name: "offer_approved", subject: SubjectOfferApproved, file: "templates/offer_approved.html"},
	enums.EventAdPaid:         {name: "ad_paid", subject: SubjectAdPaid, file: "templates/ad_paid.html"},
}

// Renderer turns outbox events into vendor emails.
type Renderer struct {
	origin    string
	templates map[enums.OutboxEventType]*template.Template
}

// NewRenderer parses the embedded templates. origin is the public web
// origin used for offer links.
func NewRenderer(origin string) (*Renderer, error) {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		return nil, errors.New("public origin required")
	}
	parsed := make(map[enums.OutboxEventType]*template.Template, len(emailTemplates))
	for eventType, et := range emailTemplates {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", et.file)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", et.name, err)
		}
		parsed[eventType] = tmpl
	}
	return &Renderer{origin: origin, templates: parsed}, nil
}

type offerView struct {
	VendorName string
	Title      string
	PublicLink string
	Signature  string
}

type adView struct {
	VendorName string
	StartDate  string
	EndDate    string
	Amount     string
	Signature  string
}

// Render decodes the event payload and renders its email.
func (r *Renderer) Render(event models.OutboxEvent) (*Email, error) {
	et, ok := emailTemplates[event.EventType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEvent, event.EventType)
	}

	var (
		to, toName, text string
		view             any
	)
	switch event.EventType {
	case enums.EventOfferSubmitted:
		var data payloads.OfferSubmittedEvent
		if _, err := outbox.DecodeEnvelope(event, &data); err != nil {
			return nil, err
		}
		to, toName = data.VendorEmail, data.VendorName
		view = offerView{VendorName: data.VendorName, Title: data.Title, Signature: Signature}
		text = fmt.Sprintf("Thanks for submitting your offer %q! Our team will review it within 24-48 hours.\n\n%s", data.Title, Signature)
	case enums.EventOfferApproved:
		var data payloads.OfferApprovedEvent
		if _, err := outbox.DecodeEnvelope(event, &data); err != nil {
			return nil, err
		}
		link := r.OfferLink(data.OfferID)
		to, toName = data.VendorEmail, data.VendorName
		view = offerView{VendorName: data.VendorName, Title: data.Title, PublicLink: link, Signature: Signature}
		text = fmt.Sprintf("Your offer %q is now live: %s\n\n%s", data.Title, link, Signature)
	case enums.EventAdPaid:
		var data payloads.AdPaidEvent
		if _, err := outbox.DecodeEnvelope(event, &data); err != nil {
			return nil, err
		}
		amount := FormatAmount(data.AmountCents, data.Currency)
		to, toName = data.VendorEmail, data.VendorName
		view = adView{VendorName: data.VendorName, StartDate: data.StartDate, EndDate: data.EndDate, Amount: amount, Signature: Signature}
		text = fmt.Sprintf("Your ad campaign is confirmed.\nStart date: %s\nEnd date: %s\nTotal: %s\n\n%s", data.StartDate, data.EndDate, amount, Signature)
	}

	if strings.TrimSpace(to) == "" {
		return nil, fmt.Errorf("event %s has no recipient", event.ID)
	}

	var buf bytes.Buffer
	if err := r.templates[event.EventType].ExecuteTemplate(&buf, "layout", view); err != nil {
		return nil, fmt.Errorf("render %s: %w", et.name, err)
	}
	return &Email{
		Template: et.name,
		To:       to,
		ToName:   toName,
		Subject:  et.subject,
		HTML:     buf.String(),
		Text:     text,
	}, nil
}

// OfferLink is the public detail URL for an offer.
func (r *Renderer) OfferLink(offerID uuid.UUID) string {
	return r.origin + "/offers?id=" + offerID.String()
}

// FormatAmount renders minor units as "30.00 USD".
func FormatAmount(cents int64, currency string) string {
	value := decimal.NewFromInt(cents).Shift(-2).StringFixed(2)
	return value + " " + strings.ToUpper(currency)
}
