package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/printdesk/internal/domain/errors"
	"github.com/polkiloo/printdesk/internal/domain/model"
	"github.com/polkiloo/printdesk/internal/server/http/dto"
)

// AdminOrderHandler manages back-office order endpoints.
type AdminOrderHandler struct {
	facade AdminOrderFacade
}

// NewAdminOrderHandler constructs AdminOrderHandler.
func NewAdminOrderHandler(facade AdminOrderFacade) *AdminOrderHandler {
	return &AdminOrderHandler{facade: facade}
}

// Get handles GET /api/admin/orders/:id.
func (h *AdminOrderHandler) Get(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// PollPayment handles POST /api/admin/orders/:id/payment/poll.
func (h *AdminOrderHandler) PollPayment(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	res, err := h.facade.PollPayment(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PollResponse{
		PaymentStatus: string(res.PaymentStatus),
		OrderUpdated:  res.OrderUpdated,
	})
}

// UpdateStatus handles PATCH /api/admin/orders/:id/status.
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "status is required")
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Cancel handles POST /api/admin/orders/:id/cancel.
func (h *AdminOrderHandler) Cancel(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := h.facade.CancelOrder(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Delete handles DELETE /api/admin/orders/:id.
func (h *AdminOrderHandler) Delete(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	if err := h.facade.DeleteOrder(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PrintJob handles GET /api/admin/orders/:id/print-job.
func (h *AdminOrderHandler) PrintJob(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	job, err := h.facade.PrintJob(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "print job not found")
			return
		}
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPrintJobResponse(job))
}
