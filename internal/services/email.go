package services

import (
	"context"
	"fmt"
	"log"

	"recruitdesk/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendInterviewInvitation sends the interview invitation email using the
// "interview_invitation" template and the given data.
func (s *emailService) SendInterviewInvitation(ctx context.Context, data *domain.InterviewInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("interview invitation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("interview_invitation", data)
	if err != nil {
		return fmt.Errorf("failed to render interview_invitation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send interview invitation email: %w", err)
	}
	log.Printf("[EMAIL] Interview invitation sent to %s", data.Email)
	return nil
}

// SendInterviewCancellation sends the cancellation notice email using the
// "interview_cancellation" template.
func (s *emailService) SendInterviewCancellation(ctx context.Context, data *domain.InterviewCancellationEmailData) error {
	if data == nil {
		return fmt.Errorf("interview cancellation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("interview_cancellation", data)
	if err != nil {
		return fmt.Errorf("failed to render interview_cancellation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send interview cancellation email: %w", err)
	}
	log.Printf("[EMAIL] Interview cancellation sent to %s", data.Email)
	return nil
}
