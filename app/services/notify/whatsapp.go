package notify

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

const whatsappSnippetLimit = 120

// Bare 10-digit numbers are assumed to be Indian mobiles.
const defaultCountryCode = "91"

var (
	nonPhoneChars = regexp.MustCompile(`[^0-9+]`)
	nonDigits     = regexp.MustCompile(`\D`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// WhatsAppSender is a best-effort parallel notification channel. Every send
// returns a plain success flag; nothing here raises to the caller, and a
// missing provider client or sender address turns all sends into no-ops.
type WhatsAppSender struct {
	api  messageCreator
	from string
}

func NewWhatsAppSender(cfg config.TwilioConfig) *WhatsAppSender {
	w := &WhatsAppSender{}
	if !cfg.Configured() {
		log.Println("Twilio credentials missing; WhatsApp notifications disabled")
		return w
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	w.api = client.Api
	w.from = NormalizeNumber(cfg.WhatsAppNumber)
	if w.from == "" {
		log.Println("Twilio WhatsApp sender number is not configured correctly")
	}
	return w
}

// NormalizeNumber turns a raw phone string into a WhatsApp channel address.
// Returns "" when no country code can be inferred.
func NormalizeNumber(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "whatsapp:") {
		return raw
	}

	digits := nonPhoneChars.ReplaceAllString(raw, "")
	if digits == "" {
		return ""
	}

	var formatted string
	switch {
	case strings.HasPrefix(digits, "+"):
		formatted = digits
	case strings.HasPrefix(digits, "00"):
		formatted = "+" + digits[2:]
	default:
		plain := nonDigits.ReplaceAllString(digits, "")
		switch {
		case len(plain) == 10:
			formatted = "+" + defaultCountryCode + plain
		case len(plain) == 12 && strings.HasPrefix(plain, defaultCountryCode):
			formatted = "+" + plain
		default:
			log.Printf("Unable to infer country code for phone number %q", raw)
			return ""
		}
	}

	return "whatsapp:" + formatted
}

// Send delivers a plain-text body to the given number. Returns false on any
// problem: unparseable number, missing configuration, or provider failure.
func (w *WhatsAppSender) Send(toNumber, body string) bool {
	if toNumber == "" {
		return false
	}
	to := NormalizeNumber(toNumber)
	if to == "" {
		log.Printf("Skipping WhatsApp send; invalid recipient number %q", toNumber)
		return false
	}
	if w.api == nil || w.from == "" {
		return false
	}
	body = strings.TrimSpace(body)
	if body == "" {
		log.Printf("No body provided for WhatsApp message to %s", to)
		return false
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(w.from)
	params.SetTo(to)
	params.SetBody(body)

	msg, err := w.api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send WhatsApp message to %s: %v", to, err)
		return false
	}
	if msg.Sid != nil {
		log.Printf("WhatsApp message %s queued for %s", *msg.Sid, to)
	}
	return true
}

// snippet collapses whitespace and hard-truncates to limit with an ellipsis.
func snippet(text string, limit int) string {
	compact := strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	runes := []rune(compact)
	if len(runes) <= limit {
		return compact
	}
	return strings.TrimRight(string(runes[:limit]), " ") + "…"
}

func (w *WhatsAppSender) SendAdminAnnouncement(phone, title, preview string) bool {
	message := strings.TrimSpace(fmt.Sprintf(
		"VTS Academy: New update from Admin – %s. %s Read more in your dashboard.",
		title, snippet(preview, whatsappSnippetLimit),
	))
	return w.Send(phone, message)
}

func (w *WhatsAppSender) SendTrainerAnnouncement(phone, trainerName, title, preview string) bool {
	message := strings.TrimSpace(fmt.Sprintf(
		"Trainer %s shared an announcement: %s. %s Check the portal for details.",
		trainerName, title, snippet(preview, whatsappSnippetLimit),
	))
	return w.Send(phone, message)
}

func (w *WhatsAppSender) SendAttendanceUpdate(phone, dateDisplay, status, remarks string) bool {
	info := "No remarks."
	if remarks != "" {
		info = "Remarks: " + remarks
	}
	message := fmt.Sprintf(
		"Attendance %s: You were marked %s. %s Contact your trainer if this is unexpected.",
		dateDisplay, models.AttendanceStatus(status).Display(), info,
	)
	return w.Send(phone, message)
}

func (w *WhatsAppSender) SendDailyTaskUpdate(phone string, assignedToday, completed, remaining int) bool {
	message := fmt.Sprintf(
		"Daily tasks updated: Assigned today %d | Completed %d | Remaining %d. Keep up the progress!",
		assignedToday, completed, remaining,
	)
	return w.Send(phone, message)
}
