package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/printdesk/internal/domain/model"
	"github.com/polkiloo/printdesk/internal/server/http/dto"
	"github.com/polkiloo/printdesk/internal/usecase"
)

// StorefrontHandler serves checkout, payment callbacks and order tracking.
type StorefrontHandler struct {
	facade StorefrontFacade
}

// NewStorefrontHandler constructs StorefrontHandler.
func NewStorefrontHandler(facade StorefrontFacade) *StorefrontHandler {
	return &StorefrontHandler{facade: facade}
}

// Checkout handles POST /api/checkout.
func (h *StorefrontHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.facade.Checkout(c.Request.Context(), usecase.CheckoutInput{
		Type: model.OrderType(req.Type),
		Customer: model.Customer{
			Name:  strings.TrimSpace(req.Customer.Name),
			Email: strings.TrimSpace(req.Customer.Email),
			Phone: strings.TrimSpace(req.Customer.Phone),
		},
		FileURLs:  req.FileURLs,
		FileNames: req.FileNames,
		Options:   fromOptions(req.Options),
		Amount:    req.Amount,
		Currency:  req.Currency,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CheckoutResponse{
		OrderID:        res.Order.PublicID,
		GatewayOrderID: res.GatewayOrder.ID,
		Amount:         res.Order.Amount,
		Currency:       res.Order.Currency,
		KeyID:          res.KeyID,
	})
}

// PaymentCallback handles POST /api/payments/callback.
func (h *StorefrontHandler) PaymentCallback(c *gin.Context) {
	var req dto.CallbackRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "gateway_order_id, gateway_payment_id and signature are required")
		return
	}

	order, err := h.facade.PaymentCallback(c.Request.Context(), req.GatewayOrderID, req.GatewayPaymentID, req.Signature)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CallbackResponse{
		OrderID:       order.PublicID,
		Amount:        model.FormatAmount(order.Amount),
		Currency:      order.Currency,
		PaymentStatus: string(order.PaymentStatus),
	})
}

// OrderStatus handles GET /api/orders/:publicId.
func (h *StorefrontHandler) OrderStatus(c *gin.Context) {
	order, err := h.facade.OrderByPublicID(c.Request.Context(), c.Param("publicId"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPublicOrderResponse(order))
}
