package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutapp "github.com/tradelink/backend/internal/application/checkout"
	partnerapp "github.com/tradelink/backend/internal/application/partner"
	payoutapp "github.com/tradelink/backend/internal/application/payout"
	"github.com/tradelink/backend/internal/domain/settlement"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/interfaces/http/dto"
)

// BaseHandler provides shared response helpers for all HTTP handlers
type BaseHandler struct{}

// getRequestID extracts the request ID set by the RequestID middleware
func (h *BaseHandler) getRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}

// Success sends a 200 response with the given payload
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination metadata
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response with the given payload
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the status derived from the error code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, h.getRequestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeNotFound, message)
}

// Conflict sends a 409 response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeConflict, message)
}

// UnprocessableEntity sends a 422 response
func (h *BaseHandler) UnprocessableEntity(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBusinessRule, message)
}

// InternalError sends a 500 response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeInternal, message)
}

// HandleError maps an application or domain error to the appropriate HTTP
// response. Domain errors carry their own code; application sentinels and
// processor failures are matched explicitly. Anything unrecognized is a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, code, domainErr.Message)
		return
	}

	switch {
	case errors.Is(err, checkoutapp.ErrOrderNotFound),
		errors.Is(err, checkoutapp.ErrCompanyNotFound),
		errors.Is(err, partnerapp.ErrCompanyNotFound),
		errors.Is(err, payoutapp.ErrPayoutNotFound),
		errors.Is(err, payoutapp.ErrOrderNotFound):
		h.Error(c, dto.ErrCodeNotFound, err.Error())
	case errors.Is(err, checkoutapp.ErrConfirmationConflict):
		h.Error(c, dto.ErrCodeConflict, err.Error())
	case errors.Is(err, checkoutapp.ErrBelowProcessorMinimum),
		errors.Is(err, settlement.ErrProcessorAmountBelowMinimum):
		h.Error(c, dto.ErrCodeBelowMinimumCharge, err.Error())
	case errors.Is(err, checkoutapp.ErrIntentMismatch),
		errors.Is(err, checkoutapp.ErrCompanyInactive),
		errors.Is(err, payoutapp.ErrOrderNotPaid),
		errors.Is(err, payoutapp.ErrMissingStripeAccount):
		h.Error(c, dto.ErrCodeBusinessRule, err.Error())
	case errors.Is(err, checkoutapp.ErrWebhookVerificationFailed),
		errors.Is(err, settlement.ErrProcessorInvalidWebhook):
		h.Error(c, dto.ErrCodeWebhookSignature, err.Error())
	case errors.Is(err, checkoutapp.ErrWebhookInvalidPayload):
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
	case errors.Is(err, settlement.ErrProcessorUnavailable):
		h.Error(c, dto.ErrCodeProcessorUnavailable, err.Error())
	default:
		var procErr *settlement.ProcessorError
		if errors.As(err, &procErr) {
			if procErr.Retryable {
				h.Error(c, dto.ErrCodeProcessorUnavailable, procErr.Message)
			} else {
				h.Error(c, dto.ErrCodePaymentProcessor, procErr.Message)
			}
			return
		}
		h.Error(c, dto.ErrCodeInternal, err.Error())
	}
}
