package email

// Provider sends the transactional emails of the application. Sends are
// best effort: callers log failures but never fail the triggering
// operation because of them.
type Provider interface {
	SendWelcome(to, username string) error
	SendPasswordReset(to, username, resetLink string) error
}

// Config holds SMTP settings.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromEmail    string
	FromName     string
}
