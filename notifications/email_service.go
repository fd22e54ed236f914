package notifications

import (
	"fmt"
	"html"
	"strings"
	"time"

	config "github.com/anjiri1684/course_platform/configs"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const brevoBaseURL = "https://api.brevo.com"

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	http        *resty.Client
}

var EmailClient *BrevoService

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func InitEmailService() {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")

	if apiKey == "" || senderEmail == "" || senderName == "" {
		log.Warn().Msg("⚠️ Email service not configured. Missing API Key, Sender Email, or Sender Name.")
		EmailClient = nil
		return
	}

	EmailClient = NewBrevoService(brevoBaseURL, apiKey, senderEmail, senderName)
	log.Info().Str("sender", senderEmail).Msg("✅ Email service initialized successfully.")
}

func NewBrevoService(baseURL, apiKey, senderEmail, senderName string) *BrevoService {
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10*time.Second).
			SetHeader("accept", "application/json").
			SetHeader("api-key", apiKey),
	}
}

func (s *BrevoService) send(toEmail, toName, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	resp, err := s.http.R().
		SetHeader("content-type", "application/json").
		SetBody(payload).
		Post("/v3/smtp/email")
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode() != 201 {
		return fmt.Errorf("brevo returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// SendEmail delivers a transactional email, logging instead of failing.
func SendEmail(toName, toEmail, subject, htmlContent string) {
	if EmailClient == nil {
		log.Debug().Str("subject", subject).Msg("Email client not initialized, skipping email send.")
		return
	}

	if err := EmailClient.send(toEmail, toName, subject, htmlContent); err != nil {
		log.Error().Err(err).Str("to", toEmail).Msg("🔥 Failed to send email")
		return
	}

	log.Info().Str("to", toEmail).Str("subject", subject).Msg("✅ Email sent successfully")
}

func PurchaseConfirmedEmail(courseTitle string, amount string) string {
	return fmt.Sprintf("<h1>Purchase Confirmed</h1><p>Your payment of $%s was successful. <b>%s</b> is now available in your courses.</p>", amount, html.EscapeString(courseTitle))
}

func CourseCompletedEmail(courseTitle string) string {
	return fmt.Sprintf("<h1>Congratulations!</h1><p>You have completed every lecture of <b>%s</b>.</p>", html.EscapeString(courseTitle))
}
