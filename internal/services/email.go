package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mishraaa-Anant/Automated-HR/internal/config"
	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
)

// EmailResult records the outcome for one recipient.
type EmailResult struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BulkEmailReport summarizes one bulk send.
type BulkEmailReport struct {
	SuccessCount int           `json:"success_count"`
	FailedCount  int           `json:"failed_count"`
	Error        string        `json:"error,omitempty"`
	Results      []EmailResult `json:"results"`
}

// EmailService sends interview invitations and selection notices over
// SMTP. SendBulk mutates the passed candidates in place (meeting link,
// email status) so the caller can persist the updated records.
type EmailService interface {
	SendBulk(candidates []*models.Candidate, jobTitle string) BulkEmailReport
	SendSelectionEmail(toEmail, name, jobRole string) error
	TestConnection() (bool, string)
}

type smtpEmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) EmailService {
	return &smtpEmailService{cfg: cfg}
}

// GenerateJitsiLink builds a unique meeting room URL for a job title.
func GenerateJitsiLink(jobTitle string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	room := strings.ReplaceAll(strings.TrimSpace(jobTitle), " ", "-") + "-" + suffix
	return "https://meet.jit.si/" + room
}

// SendBulk sends invitations to every candidate with an email address
// over one pooled SMTP connection, with per-candidate retries and a
// delay between sends to stay clear of spam filters.
func (s *smtpEmailService) SendBulk(candidates []*models.Candidate, jobTitle string) BulkEmailReport {
	if s.cfg.Email == "" || s.cfg.Password == "" {
		return BulkEmailReport{FailedCount: len(candidates), Error: "SMTP not configured"}
	}

	var withEmail []*models.Candidate
	for _, c := range candidates {
		if c.Email != "" {
			withEmail = append(withEmail, c)
		}
	}
	if len(withEmail) == 0 {
		return BulkEmailReport{Error: "No candidates with valid emails"}
	}

	client, err := s.connect()
	if err != nil {
		return BulkEmailReport{
			FailedCount: len(withEmail),
			Error:       fmt.Sprintf("SMTP connection failed: %v", err),
		}
	}
	defer client.Quit()

	report := BulkEmailReport{}
	for idx, c := range withEmail {
		if c.MeetingLink == "" {
			c.MeetingLink = GenerateJitsiLink(jobTitle)
		}
		interviewTime := c.InterviewTime
		if interviewTime == "" {
			interviewTime = "To be scheduled"
		}
		testLink := c.TestLink
		if testLink == "" {
			testLink = "#"
		}

		body := buildInvitationBody(c.Name, jobTitle, c.MeetingLink, c.ATSScore, interviewTime, testLink)
		subject := fmt.Sprintf("🎉 Interview Invitation - %s Position", jobTitle)

		var lastErr error
		success := false
		for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
			if err := s.send(client, c.Email, subject, body); err != nil {
				lastErr = err
				if attempt < s.cfg.MaxRetries-1 {
					time.Sleep(time.Second)
				}
				continue
			}
			success = true
			break
		}

		if success {
			c.EmailSent = true
			c.EmailStatus = models.EmailSent
			report.SuccessCount++
			report.Results = append(report.Results, EmailResult{
				Name: c.Name, Email: c.Email, Success: true, Message: "Sent",
			})
		} else {
			c.EmailSent = false
			c.EmailStatus = fmt.Sprintf("failed: %v", lastErr)
			report.FailedCount++
			report.Results = append(report.Results, EmailResult{
				Name: c.Name, Email: c.Email, Success: false, Message: lastErr.Error(),
			})
			log.Printf("❌ Failed to email %s: %v", c.Email, lastErr)
		}

		if idx < len(withEmail)-1 {
			time.Sleep(s.cfg.SendDelay)
		}
	}

	return report
}

// SendSelectionEmail notifies one candidate that they were selected.
func (s *smtpEmailService) SendSelectionEmail(toEmail, name, jobRole string) error {
	if s.cfg.Email == "" || s.cfg.Password == "" {
		return fmt.Errorf("SMTP not configured")
	}
	if toEmail == "" {
		return fmt.Errorf("candidate has no email address")
	}

	client, err := s.connect()
	if err != nil {
		return fmt.Errorf("SMTP connection failed: %w", err)
	}
	defer client.Quit()

	subject := fmt.Sprintf("🎊 Congratulations - Selected for %s", jobRole)
	body := fmt.Sprintf(`Dear %s,

Congratulations! We are delighted to inform you that you have been selected for the %s position.

Our HR team will reach out shortly with the offer details and next steps.

Welcome aboard!

Best regards,
Recruitment Team`, name, jobRole)

	return s.send(client, toEmail, subject, body)
}

// TestConnection verifies the SMTP server and credentials.
func (s *smtpEmailService) TestConnection() (bool, string) {
	if s.cfg.Email == "" || s.cfg.Password == "" {
		return false, "SMTP credentials not configured"
	}

	client, err := s.connect()
	if err != nil {
		return false, fmt.Sprintf("SMTP connection failed: %v", err)
	}
	client.Quit()
	return true, "SMTP connection successful"
}

func (s *smtpEmailService) connect() (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server, s.cfg.Port)

	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Server}); err != nil {
		client.Close()
		return nil, fmt.Errorf("STARTTLS failed: %w", err)
	}

	auth := smtp.PlainAuth("", s.cfg.Email, s.cfg.Password, s.cfg.Server)
	if err := client.Auth(auth); err != nil {
		client.Close()
		return nil, fmt.Errorf("auth failed: %w", err)
	}

	return client, nil
}

func (s *smtpEmailService) send(client *smtp.Client, to, subject, body string) error {
	if err := client.Mail(s.cfg.Email); err != nil {
		client.Reset()
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		client.Reset()
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		client.Reset()
		return fmt.Errorf("DATA failed: %w", err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
		s.cfg.Email, to, subject, body)

	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return fmt.Errorf("write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	return nil
}

func buildInvitationBody(name, jobTitle, meetingLink string, atsScore int, interviewTime, testLink string) string {
	return fmt.Sprintf(`Dear %s,

Congratulations! We are pleased to inform you that your application for the %s position has been shortlisted.

Your Profile Score: %d/100

📅 Interview Scheduled: %s
📹 Interview Meeting Link: %s

📝 Technical Assessment (Round 2):
Please complete the mandatory AI-based MCQ test before the interview.
Test Link: %s

Our recruitment team is looking forward to meeting you.

Best regards,
Recruitment Team`, name, jobTitle, atsScore, interviewTime, meetingLink, testLink)
}
