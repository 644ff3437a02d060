package email

import "fmt"

// Provider sends application mail.
type Provider interface {
	// Send delivers a prepared message.
	Send(email *Email) error

	// SendWelcome greets a newly registered user.
	SendWelcome(to, name, username string) error

	// Validate checks the provider configuration.
	Validate() error
}

// NoopProvider drops every message. It is used when SMTP is not configured.
type NoopProvider struct{}

func (NoopProvider) Send(*Email) error                { return nil }
func (NoopProvider) SendWelcome(_, _, _ string) error { return nil }
func (NoopProvider) Validate() error                  { return nil }

// NewProvider returns an SMTP provider, or NoopProvider when cfg has no host.
func NewProvider(cfg *SMTPConfig) (Provider, error) {
	if cfg == nil || cfg.Host == "" {
		return NoopProvider{}, nil
	}

	renderer := NewTemplateManager()
	if err := renderer.AddTemplate(TemplateWelcome, welcomeTemplate); err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	p := NewSMTPProvider(cfg, renderer)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
