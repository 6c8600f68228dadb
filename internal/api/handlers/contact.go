package handlers

import (
	"net/http"

	appErrors "github.com/nfluential/storefront-api/internal/errors"
	"github.com/nfluential/storefront-api/internal/models"
	service "github.com/nfluential/storefront-api/internal/services"
	"github.com/nfluential/storefront-api/internal/utils"
	"github.com/nfluential/storefront-api/internal/utils/response"
)

const tooManyRequestsMessage = "Too many requests. Please try again later."

// ContactHandler serves the public form endpoint. Response bodies here are
// a wire contract with the storefront: plain JSON objects, not the API
// envelope, and the rate-limit check runs before the body is even read.
type ContactHandler struct {
	contactService *service.ContactService
	limiter        *service.RateLimiter
}

func NewContactHandler(contactService *service.ContactService, limiter *service.RateLimiter) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		limiter:        limiter,
	}
}

func (h *ContactHandler) Submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		ip := utils.ClientIP(r)

		action := r.URL.Query().Get("action")
		if action == "" {
			action = service.EndpointContact
		}

		if action == service.EndpointNewsletter {
			h.newsletter(w, r, ip)
			return
		}

		h.contact(w, r, ip)

	}
}

func (h *ContactHandler) newsletter(w http.ResponseWriter, r *http.Request, ip string) {

	ctx := r.Context()

	if !h.limiter.Check(ctx, ip, service.EndpointNewsletter) {
		response.WriteJson(w, http.StatusTooManyRequests, map[string]string{"error": tooManyRequestsMessage})
		return
	}

	var req models.NewsletterRequest

	if err := utils.DecodeJSONBody(r, &req); err != nil {
		response.WriteJson(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}

	alreadySubscribed, err := h.contactService.SubscribeNewsletter(ctx, ip, &req)

	if err != nil {
		if appErr, ok := appErrors.IsAppError(err); ok && appErr.Code == appErrors.ErrCodeValidation {
			response.WriteJson(w, http.StatusBadRequest, map[string]string{"error": appErr.Message})
			return
		}

		// Anything past validation maps to the generic rejection; internal
		// detail never reaches the client.
		response.WriteJson(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}

	if alreadySubscribed {
		response.WriteJson(w, http.StatusOK, map[string]string{"error": "already_subscribed"})
		return
	}

	response.WriteJson(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *ContactHandler) contact(w http.ResponseWriter, r *http.Request, ip string) {

	ctx := r.Context()

	if !h.limiter.Check(ctx, ip, service.EndpointContact) {
		response.WriteJson(w, http.StatusTooManyRequests, map[string]string{"error": tooManyRequestsMessage})
		return
	}

	var req models.ContactRequest

	if err := utils.DecodeJSONBody(r, &req); err != nil {
		response.WriteJson(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}

	_, err := h.contactService.SubmitContact(ctx, ip, &req)

	if err != nil {
		appErr, ok := appErrors.IsAppError(err)

		switch {
		case ok && appErr.Code == appErrors.ErrCodeValidation:
			response.WriteJson(w, http.StatusBadRequest, map[string]string{"error": appErr.Message})
		case ok && appErr.Code == appErrors.ErrCodeDatabaseError:
			response.WriteJson(w, http.StatusInternalServerError, map[string]string{"error": "Failed to submit"})
		default:
			response.WriteJson(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		}

		return
	}

	response.WriteJson(w, http.StatusOK, map[string]bool{"success": true})
}
