package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// InterviewInvitationEmailData holds data for the interview invitation email
// sent to the candidate after a slot is booked.
type InterviewInvitationEmailData struct {
	Email         string
	CandidateName string
	JobTitle      string
	Date          string
	Time          string
	Location      string
}

// InterviewCancellationEmailData holds data for the cancellation notice email.
type InterviewCancellationEmailData struct {
	Email         string
	CandidateName string
	JobTitle      string
	Date          string
	Time          string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendInterviewInvitation(ctx context.Context, data *InterviewInvitationEmailData) error
	SendInterviewCancellation(ctx context.Context, data *InterviewCancellationEmailData) error
}
