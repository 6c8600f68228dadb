package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactSubmission struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Subject       string    `json:"subject"`
	Message       string    `json:"message"`
	CaptchaAnswer string    `json:"captcha_answer"`
	CreatedAt     time.Time `json:"created_at"`
}

type NewsletterSubscriber struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type RateLimitAttempt struct {
	IPAddress   string    `json:"ip_address"`
	Endpoint    string    `json:"endpoint"`
	AttemptedAt time.Time `json:"attempted_at"`
}

type ContactRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Subject       string `json:"subject"`
	Message       string `json:"message"`
	CaptchaAnswer string `json:"captchaAnswer"`
}

type NewsletterRequest struct {
	Email string `json:"email"`
}

// ValidContactSubjects is the fixed set of subjects the contact form accepts.
var ValidContactSubjects = []string{
	"collabs",
	"sales",
	"support",
	"advertising",
	"publishing",
	"marketing",
	"general",
}
