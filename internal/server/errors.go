package server

import (
	"errors"
	"net/http"

	appointmentdomain "github.com/autotech/workshop/internal/appointment/domain"
	bankaccountdomain "github.com/autotech/workshop/internal/bankaccount/domain"
	clientdomain "github.com/autotech/workshop/internal/client/domain"
	dashboarddomain "github.com/autotech/workshop/internal/dashboard/domain"
	employeedomain "github.com/autotech/workshop/internal/employee/domain"
	estimatedomain "github.com/autotech/workshop/internal/estimate/domain"
	inspectiondomain "github.com/autotech/workshop/internal/inspection/domain"
	invoicedomain "github.com/autotech/workshop/internal/invoice/domain"
	paymentdomain "github.com/autotech/workshop/internal/payment/domain"
	repairorderdomain "github.com/autotech/workshop/internal/repairorder/domain"
	vehicledomain "github.com/autotech/workshop/internal/vehicle/domain"
	"github.com/gin-gonic/gin"
)

// envelope is the uniform response body. Handlers return it for both
// success and failure so clients can branch on one field.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware turns the last error a handler recorded into
// the JSON envelope with the mapped status code.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

// mapError classifies domain errors: missing references map to 404,
// business-rule violations to 409, malformed input to 400 and anything
// unrecognized to 500 with a generic message.
func mapError(err error) (int, string) {
	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, err.Error()
	case isConflictError(err):
		return http.StatusConflict, err.Error()
	case isValidationError(err):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, clientdomain.ErrNotFound),
		errors.Is(err, vehicledomain.ErrNotFound),
		errors.Is(err, employeedomain.ErrNotFound),
		errors.Is(err, bankaccountdomain.ErrNotFound),
		errors.Is(err, appointmentdomain.ErrNotFound),
		errors.Is(err, repairorderdomain.ErrNotFound),
		errors.Is(err, inspectiondomain.ErrNotFound),
		errors.Is(err, estimatedomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound):
		return true
	}
	return false
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, clientdomain.ErrDuplicateDNI),
		errors.Is(err, vehicledomain.ErrDuplicatePlate),
		errors.Is(err, bankaccountdomain.ErrInUse),
		errors.Is(err, repairorderdomain.ErrIntakeNotReentrant),
		errors.Is(err, repairorderdomain.ErrHasInvoice),
		errors.Is(err, repairorderdomain.ErrVehicleMismatch),
		errors.Is(err, estimatedomain.ErrNotPending),
		errors.Is(err, estimatedomain.ErrNotAccepted),
		errors.Is(err, estimatedomain.ErrHasInvoice),
		errors.Is(err, invoicedomain.ErrEstimateBilled),
		errors.Is(err, invoicedomain.ErrLinkedToOrder),
		errors.Is(err, invoicedomain.ErrWalkInServices):
		return true
	}
	return false
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, clientdomain.ErrInvalidID),
		errors.Is(err, clientdomain.ErrInvalidName),
		errors.Is(err, clientdomain.ErrInvalidClientType),
		errors.Is(err, vehicledomain.ErrInvalidID),
		errors.Is(err, vehicledomain.ErrInvalidPlate),
		errors.Is(err, vehicledomain.ErrInvalidBrand),
		errors.Is(err, employeedomain.ErrInvalidID),
		errors.Is(err, employeedomain.ErrInvalidName),
		errors.Is(err, employeedomain.ErrInvalidStatus),
		errors.Is(err, bankaccountdomain.ErrInvalidID),
		errors.Is(err, bankaccountdomain.ErrInvalidAlias),
		errors.Is(err, bankaccountdomain.ErrInvalidAccount),
		errors.Is(err, appointmentdomain.ErrInvalidID),
		errors.Is(err, appointmentdomain.ErrInvalidTime),
		errors.Is(err, appointmentdomain.ErrInvalidStatus),
		errors.Is(err, appointmentdomain.ErrClientRequired),
		errors.Is(err, repairorderdomain.ErrInvalidID),
		errors.Is(err, repairorderdomain.ErrInvalidStatus),
		errors.Is(err, repairorderdomain.ErrInvalidTitle),
		errors.Is(err, inspectiondomain.ErrInvalidID),
		errors.Is(err, inspectiondomain.ErrInvalidItem),
		errors.Is(err, inspectiondomain.ErrInvalidItemStatus),
		errors.Is(err, estimatedomain.ErrInvalidID),
		errors.Is(err, estimatedomain.ErrInvalidPercentage),
		errors.Is(err, estimatedomain.ErrInvalidItem),
		errors.Is(err, estimatedomain.ErrInvalidStatus),
		errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidPercentage),
		errors.Is(err, invoicedomain.ErrInvalidItem),
		errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, paymentdomain.ErrInvalidID),
		errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, paymentdomain.ErrInvalidType),
		errors.Is(err, paymentdomain.ErrBankAccountRequired),
		errors.Is(err, dashboarddomain.ErrInvalidMonths):
		return true
	}
	return false
}
