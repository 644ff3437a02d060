package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPProvider sends mail through an SMTP relay with gomail.
type SMTPProvider struct {
	config   *SMTPConfig
	dialer   dialer
	renderer *TemplateManager
}

func NewSMTPProvider(config *SMTPConfig, renderer *TemplateManager) *SMTPProvider {
	return &SMTPProvider{
		config:   config,
		dialer:   gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		renderer: renderer,
	}
}

func (p *SMTPProvider) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	switch {
	case email.HTMLBody != "" && email.Body != "":
		m.SetBody("text/plain", email.Body)
		m.AddAlternative("text/html", email.HTMLBody)
	case email.HTMLBody != "":
		m.SetBody("text/html", email.HTMLBody)
	default:
		m.SetBody("text/plain", email.Body)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (p *SMTPProvider) SendWelcome(to, name, username string) error {
	data := TemplateData{
		"Name":     name,
		"Username": username,
		"AppName":  p.config.FromName,
	}

	html, err := p.renderer.Render(TemplateWelcome, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return p.Send(&Email{
		To:       []string{to},
		Subject:  fmt.Sprintf("Welcome to %s", p.config.FromName),
		Body:     fmt.Sprintf("Hi %s, your account %q is ready. You can now sign in and share your feedback.", name, username),
		HTMLBody: html,
	})
}

func (p *SMTPProvider) Validate() error {
	if p.config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.config.Port <= 0 || p.config.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.config.Port)
	}
	if p.config.FromEmail == "" {
		return fmt.Errorf("sender address is required")
	}
	return nil
}
