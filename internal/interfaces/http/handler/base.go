package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/erp/printagent/internal/domain/printing"
	"github.com/erp/printagent/internal/infrastructure/logger"
	infra "github.com/erp/printagent/internal/infrastructure/printing"
	"github.com/erp/printagent/internal/interfaces/http/dto"
	"github.com/erp/printagent/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// BindJSON binds the request body into req and writes the validation
// response on failure. An empty body leaves req at its zero value.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// HandleError converts service errors to HTTP responses. Print errors keep
// their OS diagnostic in the message and their kind in the envelope.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var printErr *printing.PrintError
	if errors.As(err, &printErr) {
		code := dto.ErrorCodeForKind(printErr.Kind)
		status := dto.GetHTTPStatus(code)
		if status >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Warn("print operation failed",
				zap.String("kind", printErr.Kind.String()),
				zap.Error(err))
		}
		c.JSON(status, dto.NewPrintErrorResponse(code, printErr.Kind.String(), printErr.Error(), requestID))
		return
	}

	if errors.Is(err, infra.ErrEmptyTicket) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(dto.ErrCodeEmptyTicket, err.Error(), requestID))
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusGatewayTimeout, dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "operation timed out", requestID))
		return
	}

	logger.GetGinLogger(c).Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}
