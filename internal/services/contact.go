package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nfluential/storefront-api/internal/errors"
	"github.com/nfluential/storefront-api/internal/models"
	repository "github.com/nfluential/storefront-api/internal/repositories"
	"github.com/nfluential/storefront-api/pkg/sendgrid"
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	captchaPattern = regexp.MustCompile(`^\d{1,3}$`)
)

// rejectedCaptchaAnswer is the arithmetically correct answer to the form's
// challenge. Bots compute it; humans are told to answer wrong. The literal
// must stay rejected for behavioral compatibility.
const rejectedCaptchaAnswer = "11"

type ContactService struct {
	contacts    repository.ContactRepository
	subscribers repository.NewsletterRepository
	limiter     *RateLimiter
	email       sendgrid.EmailService
	inbox       string
	sanitizer   *bluemonday.Policy
}

func NewContactService(contacts repository.ContactRepository, subscribers repository.NewsletterRepository, limiter *RateLimiter, email sendgrid.EmailService, inbox string) *ContactService {
	return &ContactService{
		contacts:    contacts,
		subscribers: subscribers,
		limiter:     limiter,
		email:       email,
		inbox:       inbox,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

// SubscribeNewsletter validates and persists a subscription. Subscribing an
// already-subscribed email reports alreadySubscribed with no error: the
// caller's intent is satisfied either way. The attempt is recorded once
// validation passes, before the insert, so a failed insert still consumes
// quota.
func (s *ContactService) SubscribeNewsletter(ctx context.Context, ip string, req *models.NewsletterRequest) (bool, error) {

	if !emailPattern.MatchString(req.Email) || len(req.Email) > 255 {
		return false, errors.ValidationError("Invalid email")
	}

	s.limiter.Record(ctx, ip, EndpointNewsletter)

	subscriber := &models.NewsletterSubscriber{
		ID:    uuid.New(),
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
	}

	err := s.subscribers.CreateSubscriber(ctx, subscriber)
	if err != nil {
		if err == repository.ErrDuplicateSubscriber {
			return true, nil
		}

		return false, errors.DatabaseError("Failed to create subscriber").WithError(err)
	}

	return false, nil
}

// SubmitContact validates each field in order, short-circuiting on the
// first failure, then persists the submission. Field order and error
// messages are part of the endpoint contract.
func (s *ContactService) SubmitContact(ctx context.Context, ip string, req *models.ContactRequest) (*models.ContactSubmission, error) {

	if strings.TrimSpace(req.Name) == "" || len(req.Name) > 100 {
		return nil, errors.ValidationError("Invalid name")
	}

	if !emailPattern.MatchString(req.Email) || len(req.Email) > 255 {
		return nil, errors.ValidationError("Invalid email")
	}

	if !slices.Contains(models.ValidContactSubjects, req.Subject) {
		return nil, errors.ValidationError("Invalid subject")
	}

	if strings.TrimSpace(req.Message) == "" || len(req.Message) > 2000 {
		return nil, errors.ValidationError("Invalid message")
	}

	if !captchaPattern.MatchString(req.CaptchaAnswer) || req.CaptchaAnswer == rejectedCaptchaAnswer {
		return nil, errors.ValidationError("Invalid captcha")
	}

	s.limiter.Record(ctx, ip, EndpointContact)

	submission := &models.ContactSubmission{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Subject:       req.Subject,
		Message:       strings.TrimSpace(req.Message),
		CaptchaAnswer: req.CaptchaAnswer,
	}

	if err := s.contacts.CreateSubmission(ctx, submission); err != nil {
		return nil, errors.DatabaseError("Failed to submit").WithError(err)
	}

	s.notifyInbox(ctx, submission)

	return submission, nil
}

// notifyInbox forwards the submission to the store inbox. Best effort: a
// delivery failure never surfaces to the submitter.
func (s *ContactService) notifyInbox(ctx context.Context, submission *models.ContactSubmission) {

	if s.email == nil || s.inbox == "" {
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	plain := fmt.Sprintf("From: %s <%s>\nSubject: %s\n\n%s",
		submission.Name, submission.Email, submission.Subject, submission.Message)

	// User-supplied text goes into email HTML, strip anything markup-like.
	html := fmt.Sprintf("<p><strong>From:</strong> %s &lt;%s&gt;</p><p>%s</p>",
		s.sanitizer.Sanitize(submission.Name),
		s.sanitizer.Sanitize(submission.Email),
		s.sanitizer.Sanitize(submission.Message))

	err := s.email.Send(sendCtx, &sendgrid.EmailRequest{
		To:          s.inbox,
		Subject:     fmt.Sprintf("[contact:%s] %s", submission.Subject, submission.Name),
		Content:     plain,
		HTMLContent: html,
	})
	if err != nil {
		slog.Warn("failed to forward contact submission to inbox",
			slog.String("submissionId", submission.ID.String()),
			slog.String("error", err.Error()))
	}
}
