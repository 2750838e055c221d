package mailer

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"quickfeedback/config"
	"quickfeedback/internal/shared/logger"

	"gopkg.in/gomail.v2"
)

// Mailer sends the transactional emails of the service.
type Mailer interface {
	SendVerificationEmail(to, link string) error
	SendPasswordResetEmail(to, link string) error
	SendFeedbackNotification(to string, n FeedbackNotice) error
}

// FeedbackNotice describes a new feedback entry for the site owner.
type FeedbackNotice struct {
	SiteName     string
	Rating       int
	Comment      string
	PageURL      string
	City         string
	Country      string
	Device       string
	Browser      string
	DashboardURL string
}

var (
	mu      sync.RWMutex
	current Mailer
)

// Configure installs an SMTP mailer when a host is set, otherwise one that only logs.
func Configure(cfg config.SMTPConfig) {
	if cfg.Host == "" {
		Use(LogMailer{})
		return
	}
	Use(NewSMTP(cfg))
}

func Use(m Mailer) (restore func()) {
	mu.Lock()
	prev := current
	current = m
	mu.Unlock()
	return func() { Use(prev) }
}

func Get() Mailer {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return LogMailer{}
	}
	return current
}

type SMTP struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTP(cfg config.SMTPConfig) *SMTP {
	return &SMTP{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *SMTP) SendVerificationEmail(to, link string) error {
	subject, text, html := verificationBody(link)
	return s.send(to, subject, text, html)
}

func (s *SMTP) SendPasswordResetEmail(to, link string) error {
	subject, text, html := resetBody(link)
	return s.send(to, subject, text, html)
}

func (s *SMTP) SendFeedbackNotification(to string, n FeedbackNotice) error {
	subject, text, html := feedbackBody(n)
	return s.send(to, subject, text, html)
}

func (s *SMTP) send(to, subject, text, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogMailer writes emails to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) SendVerificationEmail(to, link string) error {
	logger.WithComponent("mailer").Info("verification email", "to", to, "link", link)
	return nil
}

func (LogMailer) SendPasswordResetEmail(to, link string) error {
	logger.WithComponent("mailer").Info("password reset email", "to", to, "link", link)
	return nil
}

func (LogMailer) SendFeedbackNotification(to string, n FeedbackNotice) error {
	subject, _, _ := feedbackBody(n)
	logger.WithComponent("mailer").Info("feedback notification", "to", to, "subject", subject, "rating", n.Rating)
	return nil
}

func verificationBody(link string) (subject, text, html string) {
	subject = "Verify your QuickFeedback account"
	text = fmt.Sprintf("Click the following link to verify your account:\n\n%s\n", link)
	html = fmt.Sprintf(`<p>Click the following link to verify your account:</p><p><a href="%s">Verify account</a></p>`, link)
	return
}

func resetBody(link string) (subject, text, html string) {
	subject = "Reset your QuickFeedback password"
	text = fmt.Sprintf("Use the following link to reset your password. It expires in 1 hour.\n\n%s\n", link)
	html = fmt.Sprintf(`<p>Use the following link to reset your password. It expires in 1 hour.</p><p><a href="%s">Reset password</a></p>`, link)
	return
}

func feedbackBody(n FeedbackNotice) (subject, text, html string) {
	subject = fmt.Sprintf("New feedback received for %s", n.SiteName)

	var b strings.Builder
	fmt.Fprintf(&b, "You've received new feedback for your site %s!\n\n", n.SiteName)
	fmt.Fprintf(&b, "Rating: %d/5\n", n.Rating)
	if n.Comment != "" {
		fmt.Fprintf(&b, "Comment: %s\n", n.Comment)
	} else {
		b.WriteString("No comment provided\n")
	}
	if n.PageURL != "" {
		fmt.Fprintf(&b, "Page: %s\n", n.PageURL)
	}
	if loc := location(n.City, n.Country); loc != "" {
		fmt.Fprintf(&b, "Location: %s\n", loc)
	}
	if n.Device != "" {
		fmt.Fprintf(&b, "Device: %s\n", n.Device)
	}
	if n.Browser != "" {
		fmt.Fprintf(&b, "Browser: %s\n", n.Browser)
	}
	fmt.Fprintf(&b, "\nSee all feedback in your dashboard: %s\n", n.DashboardURL)
	text = b.String()

	var h strings.Builder
	fmt.Fprintf(&h, "<p>You've received new feedback for your site %s!</p>", htmlEscape(n.SiteName))
	fmt.Fprintf(&h, "<p><strong>Rating:</strong> %d/5</p>", n.Rating)
	if n.Comment != "" {
		fmt.Fprintf(&h, "<p><strong>Comment:</strong> %s</p>", htmlEscape(n.Comment))
	}
	if n.PageURL != "" {
		fmt.Fprintf(&h, "<p><strong>Page:</strong> %s</p>", htmlEscape(n.PageURL))
	}
	fmt.Fprintf(&h, `<p><a href="%s">View in Dashboard</a></p>`, n.DashboardURL)
	html = h.String()
	return
}

func location(city, country string) string {
	switch {
	case country == "":
		return ""
	case city == "":
		return country
	default:
		return city + ", " + country
	}
}

func htmlEscape(s string) string {
	return html.EscapeString(s)
}
