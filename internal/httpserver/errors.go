package httpserver

import (
	"errors"
	"log"
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	Claimed    string `json:"claimed,omitempty"`
	Calculated string `json:"calculated,omitempty"`
	ProductID  string `json:"productId,omitempty"`
}

// writeError maps domain errors to status codes. Policy errors get generic
// messages; storage and unknown errors are logged and never echoed.
func writeError(c *gin.Context, logger *log.Logger, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Printf("http: %s %s error=%v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, errorResponse{Error: body})
}

func classify(err error) (int, errorBody) {
	var mismatch *domain.MismatchError
	var product *domain.ProductError
	switch {
	case errors.As(err, &mismatch):
		code := "total_mismatch"
		if errors.Is(err, domain.ErrAmountMismatch) {
			code = "amount_mismatch"
		}
		return http.StatusUnprocessableEntity, errorBody{
			Code:       code,
			Message:    "your cart changed, please refresh",
			Field:      mismatch.Field,
			Claimed:    mismatch.Claimed.StringFixed(2),
			Calculated: mismatch.Calculated.StringFixed(2),
		}
	case errors.As(err, &product):
		if errors.Is(err, domain.ErrProductUnavailable) {
			return http.StatusUnprocessableEntity, errorBody{Code: "product_unavailable", Message: product.Error(), ProductID: product.ProductID}
		}
		return http.StatusUnprocessableEntity, errorBody{Code: "product_not_found", Message: product.Error(), ProductID: product.ProductID}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, errorBody{Code: "invalid_input", Message: err.Error()}
	case errors.Is(err, domain.ErrRateLimitExceeded):
		return http.StatusTooManyRequests, errorBody{Code: "rate_limited", Message: "please try again later"}
	case errors.Is(err, domain.ErrAccessDenied), errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorBody{Code: "forbidden", Message: "not authorized"}
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, errorBody{Code: "order_not_found", Message: "order not found"}
	case errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound, errorBody{Code: "payment_not_found", Message: "payment not found"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorBody{Code: "not_found", Message: "not found"}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, errorBody{Code: "invalid_transition", Message: err.Error()}
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, errorBody{Code: "already_exists", Message: "already exists"}
	case errors.Is(err, domain.ErrStorage):
		return http.StatusServiceUnavailable, errorBody{Code: "storage_unavailable", Message: "please try again"}
	}
	return http.StatusInternalServerError, errorBody{Code: "internal", Message: "internal error"}
}
