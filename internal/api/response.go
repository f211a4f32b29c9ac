package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"sitrus/server/config"
	"sitrus/server/internal/auth"
	"sitrus/server/internal/catalog"
	"sitrus/server/internal/database"
	"sitrus/server/internal/finance"
	"sitrus/server/internal/telegram"
)

var (
	errInvalidCredentials = errors.New("invalid email or password")
	errMissingToken       = errors.New("missing bearer token")
	errPriceRequired      = errors.New("price is required")
	errInvalidPage        = errors.New("page and pageSize must be whole numbers")
	errInvalidBotToken    = errors.New("invalid bot token format, please check your bot token from @BotFather")
	errTelegramDisabled   = errors.New("telegram is not configured or is disabled")
)

// bindError marks a request body that could not be decoded or validated
type bindError struct {
	err error
}

func (e *bindError) Error() string { return e.err.Error() }
func (e *bindError) Unwrap() error { return e.err }

// bindJSON decodes and validates the request body into dest
func bindJSON(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return &bindError{err: err}
	}
	return nil
}

// apiError is the error body of every failed request
type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, gin.H{"success": true, "data": data, "message": message})
}

// mapError turns an error into its HTTP status and public code
func mapError(err error) apiError {
	var invalidInput *finance.InvalidInputError
	var validationErrs validator.ValidationErrors
	var bindErr *bindError

	switch {
	case errors.As(err, &validationErrs):
		return apiError{http.StatusBadRequest, "invalid_payload", describeValidation(validationErrs)}
	case errors.Is(err, io.EOF):
		return apiError{http.StatusBadRequest, "invalid_payload", "request body is empty"}
	case errors.As(err, &bindErr):
		return apiError{http.StatusBadRequest, "invalid_payload", "invalid request body: " + bindErr.err.Error()}
	case errors.As(err, &invalidInput):
		return apiError{http.StatusUnprocessableEntity, invalidInput.Reason, invalidInput.Error()}
	case errors.Is(err, database.ErrNotFound):
		return apiError{http.StatusNotFound, "not_found", "resource not found"}
	case errors.Is(err, catalog.ErrInvalidPageSize):
		return apiError{http.StatusBadRequest, "invalid_page_size", err.Error()}
	case errors.Is(err, errInvalidPage):
		return apiError{http.StatusBadRequest, "invalid_page", err.Error()}
	case errors.Is(err, errPriceRequired):
		return apiError{http.StatusBadRequest, "invalid_payload", err.Error()}
	case errors.Is(err, errInvalidCredentials):
		return apiError{http.StatusUnauthorized, "invalid_credentials", err.Error()}
	case errors.Is(err, errMissingToken), errors.Is(err, auth.ErrInvalidToken):
		return apiError{http.StatusUnauthorized, "unauthorized", "a valid admin token is required"}
	case errors.Is(err, auth.ErrNotAdmin):
		return apiError{http.StatusForbidden, "forbidden", "admin access required"}
	case errors.Is(err, errInvalidBotToken):
		return apiError{http.StatusBadRequest, "invalid_bot_token", err.Error()}
	case errors.Is(err, errTelegramDisabled), errors.Is(err, telegram.ErrNotConfigured):
		return apiError{http.StatusBadRequest, "telegram_not_configured", err.Error()}
	default:
		return apiError{http.StatusInternalServerError, "internal_error", "an internal error occurred"}
	}
}

// fail logs err and writes the mapped error response. Server errors are
// logged at error level with the action that failed.
func (h *Handler) fail(c *gin.Context, err error, action string) {
	apiErr := mapError(err)
	entry := h.logger.WithError(err).WithField("path", c.FullPath())
	if apiErr.Status >= http.StatusInternalServerError {
		entry.Error(action)
	} else {
		entry.Debug(action)
	}
	c.AbortWithStatusJSON(apiErr.Status, gin.H{"success": false, "error": apiErr})
}

func describeValidation(errs validator.ValidationErrors) string {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		var msg string
		switch fe.Tag() {
		case "required", "notblank":
			msg = fmt.Sprintf("%s is required", field)
		case "email":
			msg = fmt.Sprintf("%s must be a valid email address", field)
		case "url":
			msg = fmt.Sprintf("%s must be a valid URL", field)
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		case "property_type":
			msg = fmt.Sprintf("%s must be one of: %s", field, strings.Join(config.GetTypeKeys(), ", "))
		case "property_status":
			msg = fmt.Sprintf("%s must be one of: %s", field, strings.Join(config.SupportedStatuses, ", "))
		default:
			msg = fmt.Sprintf("%s is invalid", field)
		}
		messages = append(messages, msg)
	}
	return strings.Join(messages, "; ")
}
