package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"ats-backend/config"
	"ats-backend/internal/domain"
)

// EmailService handles sending templated emails via SMTP
type EmailService struct {
	host        string
	port        string
	username    string
	password    string
	fromEmail   string
	recruiterTo string
}

// NewEmailService creates a new email service from SMTP configuration.
// In development this points at Mailpit, which needs no authentication.
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		fromEmail:   cfg.EmailFrom,
		recruiterTo: cfg.RecruiterNotifyEmail,
	}
}

type candidateEmailData struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

const candidateCreatedTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Candidate Registered</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Candidate Registered</h1>
        </div>
        <div class="content">
            <div class="field">
                <span class="label">Name:</span> {{.FirstName}} {{.LastName}}
            </div>
            <div class="field">
                <span class="label">Email:</span> {{.Email}}
            </div>
            <div class="field">
                <span class="label">Phone:</span> {{.Phone}}
            </div>
        </div>
    </div>
</body>
</html>`

const candidateWelcomeTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Welcome</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Welcome, {{.FirstName}}!</h1>
        </div>
        <div class="content">
            <p>Hi {{.FirstName}} {{.LastName}},</p>
            <p>Your profile has been registered in our applicant tracking system.
            A recruiter will review your information and contact you shortly.</p>
            <p>Thank you for your interest.</p>
        </div>
    </div>
</body>
</html>`

const candidateUpdatedTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Candidate Updated</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Candidate Profile Updated</h1>
        </div>
        <div class="content">
            <div class="field">
                <span class="label">Name:</span> {{.FirstName}} {{.LastName}}
            </div>
            <div class="field">
                <span class="label">Email:</span> {{.Email}}
            </div>
        </div>
    </div>
</body>
</html>`

// SendCandidateCreated notifies the configured recruiter address about a new
// candidate.
func (s *EmailService) SendCandidateCreated(candidate *domain.Candidate) error {
	subject := fmt.Sprintf("New candidate: %s %s", candidate.FirstName, candidate.LastName)
	return s.send(s.recruiterTo, subject, candidateCreatedTemplate, candidate)
}

// SendCandidateWelcome sends the candidate-facing welcome email.
func (s *EmailService) SendCandidateWelcome(candidate *domain.Candidate) error {
	return s.send(candidate.Email, "Welcome to our applicant tracking system", candidateWelcomeTemplate, candidate)
}

// SendCandidateUpdated notifies the configured recruiter address about a
// profile change.
func (s *EmailService) SendCandidateUpdated(candidate *domain.Candidate) error {
	subject := fmt.Sprintf("Candidate updated: %s %s", candidate.FirstName, candidate.LastName)
	return s.send(s.recruiterTo, subject, candidateUpdatedTemplate, candidate)
}

func (s *EmailService) send(to, subject, tmplSrc string, candidate *domain.Candidate) error {
	tmpl, err := template.New("email").Parse(tmplSrc)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	data := candidateEmailData{
		FirstName: candidate.FirstName,
		LastName:  candidate.LastName,
		Email:     candidate.Email,
		Phone:     candidate.Phone,
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		to,
		subject,
		body.String(),
	))

	// Mailpit runs without authentication; only authenticate when credentials
	// are configured.
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// IsConfigured checks if the email service has a usable SMTP target
func (s *EmailService) IsConfigured() bool {
	return s.host != ""
}
