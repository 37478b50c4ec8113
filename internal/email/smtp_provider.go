package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"aveta_backend/internal/models"
	"aveta_backend/internal/quota"
)

// SMTPProvider implements Provider over SMTP via gomail.
type SMTPProvider struct {
	cfg       Config
	templates *templateManager
}

func NewSMTPProvider(cfg Config) (*SMTPProvider, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	tm, err := newTemplateManager()
	if err != nil {
		return nil, err
	}
	return &SMTPProvider{cfg: cfg, templates: tm}, nil
}

func (p *SMTPProvider) SendWelcome(to, username string) error {
	body, err := p.templates.render("welcome", map[string]interface{}{
		"Username":  username,
		"FreeLimit": quota.LimitFor(models.UserPlanFree),
	})
	if err != nil {
		return err
	}
	return p.send(to, "Welcome to Aveta!", body)
}

func (p *SMTPProvider) SendPasswordReset(to, username, resetLink string) error {
	body, err := p.templates.render("password_reset", map[string]interface{}{
		"Username":  username,
		"ResetLink": resetLink,
	})
	if err != nil {
		return err
	}
	return p.send(to, "Reset your Aveta password", body)
}

func (p *SMTPProvider) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.cfg.FromEmail, p.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(p.cfg.SMTPHost, p.cfg.SMTPPort, p.cfg.SMTPUser, p.cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
