package submission

import (
	"io"
	"net/mail"
	"strings"
)

// Resume MIME types accepted by the career form.
const (
	MIMEPDF  = "application/pdf"
	MIMEDoc  = "application/msword"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// AllowedResumeTypes reports whether contentType may be stored.
func AllowedResumeType(contentType string) bool {
	switch strings.TrimSpace(contentType) {
	case MIMEPDF, MIMEDoc, MIMEDocx:
		return true
	default:
		return false
	}
}

// ContactInput carries one contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
	Token   string
}

// ResumeFile describes the uploaded resume without holding its bytes. Open is
// called once per consumer (virus scan, then upload), mirroring how multipart
// file headers are re-opened.
type ResumeFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// CareerInput carries one career application submission.
type CareerInput struct {
	Name        string
	Email       string
	Phone       string
	Position    string
	CoverLetter string
	Token       string
	Resume      ResumeFile
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	return err == nil && addr.Address == strings.TrimSpace(email)
}

func (in ContactInput) validate() *ValidationError {
	fields := map[string]string{}
	if len(strings.TrimSpace(in.Name)) < 2 {
		fields["name"] = "Name must be at least 2 characters"
	}
	if !validEmail(in.Email) {
		fields["email"] = "Invalid email address"
	}
	if len(strings.TrimSpace(in.Message)) < 10 {
		fields["message"] = "Please provide more details"
	}
	if strings.TrimSpace(in.Token) == "" {
		fields["turnstileToken"] = "Please complete the security check"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (in CareerInput) validate(positions map[string]struct{}, maxResumeBytes int64) *ValidationError {
	fields := map[string]string{}
	if len(strings.TrimSpace(in.Name)) < 2 {
		fields["name"] = "Name must be at least 2 characters"
	}
	if !validEmail(in.Email) {
		fields["email"] = "Invalid email address"
	}
	if strings.TrimSpace(in.Position) == "" {
		fields["position_applied"] = "Please select a position"
	} else if _, ok := positions[in.Position]; !ok {
		fields["position_applied"] = "Unknown position"
	}
	if strings.TrimSpace(in.Token) == "" {
		fields["turnstileToken"] = "Please complete the security check"
	}
	switch {
	case in.Resume.Open == nil || in.Resume.Size == 0:
		fields["resume"] = "Resume file is required"
	case in.Resume.Size > maxResumeBytes:
		fields["resume"] = "File size must be less than 5MB"
	case !AllowedResumeType(in.Resume.ContentType):
		fields["resume"] = "Only PDF and DOC files are allowed"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
