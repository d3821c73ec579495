package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/printdesk/internal/domain/errors"
	"github.com/polkiloo/printdesk/internal/domain/model"
	"github.com/polkiloo/printdesk/internal/server/http/dto"
	"github.com/polkiloo/printdesk/internal/server/http/middleware"
)

// CurrentAdminID extracts authenticated admin identifier from context.
func CurrentAdminID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.AdminIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

// writeDomainError maps domain sentinels onto HTTP responses.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "order not found")
	case errors.Is(err, domainErrors.ErrInvalidSignature):
		abortWithError(c, http.StatusBadRequest, "invalid signature")
	case errors.Is(err, domainErrors.ErrInvalidAmount):
		abortWithError(c, http.StatusBadRequest, "invalid amount")
	case errors.Is(err, domainErrors.ErrInvalidOrder):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domainErrors.ErrCannotCancelPaid):
		abortWithError(c, http.StatusConflict, "cannot cancel paid order")
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, domainErrors.ErrStatusConflict):
		abortWithError(c, http.StatusConflict, "order status changed, reload and retry")
	case errors.Is(err, domainErrors.ErrNoGatewayOrder):
		abortWithError(c, http.StatusConflict, "order has no gateway order")
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "internal error")
	}
}

func toOptions(opts model.PrintingOptions) dto.PrintingOptions {
	return dto.PrintingOptions{
		PageSize:   opts.PageSize,
		ColorMode:  string(opts.ColorMode),
		Sides:      opts.Sides,
		Copies:     opts.Copies,
		PageCount:  opts.PageCount,
		ColorPages: opts.ColorPages,
		Services:   opts.Services,
	}
}

func fromOptions(opts dto.PrintingOptions) model.PrintingOptions {
	return model.PrintingOptions{
		PageSize:   opts.PageSize,
		ColorMode:  model.ColorMode(opts.ColorMode),
		Sides:      opts.Sides,
		Copies:     opts.Copies,
		PageCount:  opts.PageCount,
		ColorPages: opts.ColorPages,
		Services:   opts.Services,
	}
}

func toCustomer(c model.Customer) dto.Customer {
	return dto.Customer{Name: c.Name, Email: c.Email, Phone: c.Phone}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	order.Normalize()
	return dto.OrderResponse{
		ID:               order.ID,
		OrderID:          order.PublicID,
		GatewayOrderID:   order.GatewayOrderID,
		GatewayPaymentID: order.GatewayPaymentID,
		PaymentStatus:    string(order.PaymentStatus),
		OrderStatus:      string(order.Status),
		OrderType:        string(order.Type),
		Customer:         toCustomer(order.Customer),
		FileURL:          order.FileURL,
		FileName:         order.FileName,
		FileURLs:         nonNil(order.FileURLs),
		FileNames:        nonNil(order.FileNames),
		Options:          toOptions(order.Options),
		Amount:           model.FormatAmount(order.Amount),
		Currency:         order.Currency,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}

func toPublicOrderResponse(order *model.Order) dto.PublicOrderResponse {
	order.Normalize()
	return dto.PublicOrderResponse{
		OrderID:       order.PublicID,
		PaymentStatus: string(order.PaymentStatus),
		OrderStatus:   string(order.Status),
		OrderType:     string(order.Type),
		FileNames:     nonNil(order.FileNames),
		Amount:        model.FormatAmount(order.Amount),
		Currency:      order.Currency,
		CreatedAt:     order.CreatedAt,
	}
}

func toPrintJobResponse(job *model.PrintJob) dto.PrintJobResponse {
	return dto.PrintJobResponse{
		ID:                job.ID,
		OrderID:           job.PublicOrderID,
		Customer:          toCustomer(job.Customer),
		FileURLs:          nonNil(job.FileURLs),
		Options:           toOptions(job.Options),
		EstimatedDuration: job.EstimatedDuration,
		Status:            string(job.Status),
		CreatedAt:         job.CreatedAt,
	}
}
