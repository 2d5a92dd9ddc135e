package httpserver

import (
	"log"
	"net/http"
	"strconv"

	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"
	paymentsvc "storefront/internal/service/payment"

	"github.com/gin-gonic/gin"
)

func listProductsHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, logger, domain.WrapStorage("list products", err))
			return
		}
		out := make([]productResponse, 0, len(products))
		for _, p := range products {
			out = append(out, toProductResponse(p))
		}
		c.JSON(http.StatusOK, newList(out))
	}
}

func getProductHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, logger, domain.WrapStorage("get product", err))
			return
		}
		c.JSON(http.StatusOK, toProductResponse(*p))
	}
}

func createOrderHandler(svc OrderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, logger, domain.InvalidInput("malformed order body"))
			return
		}
		o, err := svc.CreateOrder(c.Request.Context(), callerFrom(c), ordersvc.CreateInput{
			Email:         req.Email,
			FullName:      req.FullName,
			Address:       req.Address,
			PaymentMethod: req.PaymentMethod,
			Subtotal:      req.Subtotal,
			DeliveryTotal: req.DeliveryTotal,
			Total:         req.Total,
			Items:         req.lines(),
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, toOrderResponse(*o))
	}
}

func myOrdersHandler(svc OrderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := queryInt(c, "limit")
		if err != nil {
			writeError(c, logger, err)
			return
		}
		orders, err := svc.GetUserOrders(c.Request.Context(), callerFrom(c), limit)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, newList(toOrderResponses(orders)))
	}
}

func getOrderHandler(svc OrderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.GetOrderByID(c.Request.Context(), callerFrom(c), c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(*o))
	}
}

func orderItemsHandler(svc OrderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.GetOrderItems(c.Request.Context(), callerFrom(c), c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, newList(toItemResponses(items)))
	}
}

func updateOrderStatusHandler(svc OrderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, logger, domain.InvalidInput("malformed status body"))
			return
		}
		o, err := svc.UpdateOrderStatus(c.Request.Context(), callerFrom(c), c.Param("id"), req.Status)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(*o))
	}
}

func adminOrdersHandler(svc OrderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter domain.OrderFilter
		if s := c.Query("status"); s != "" {
			st, ok := domain.ParseOrderStatus(s)
			if !ok {
				writeError(c, logger, domain.InvalidInput("unknown order status %q", s))
				return
			}
			filter.Status = st
		}
		if m := c.Query("paymentMethod"); m != "" {
			method, ok := domain.ParsePaymentMethod(m)
			if !ok {
				writeError(c, logger, domain.InvalidInput("unknown payment method %q", m))
				return
			}
			filter.PaymentMethod = method
		}
		filter.Email = c.Query("email")

		limit, err := queryInt(c, "limit")
		if err != nil {
			writeError(c, logger, err)
			return
		}
		offset, err := queryInt(c, "offset")
		if err != nil {
			writeError(c, logger, err)
			return
		}
		orders, err := svc.GetAllOrders(c.Request.Context(), callerFrom(c), filter, limit, offset)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, newList(toOrderResponses(orders)))
	}
}

func orderPaymentsHandler(svc PaymentService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payments, err := svc.ListOrderPayments(c.Request.Context(), callerFrom(c), c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		out := make([]paymentResponse, 0, len(payments))
		for _, p := range payments {
			out = append(out, toPaymentResponse(p))
		}
		c.JSON(http.StatusOK, newList(out))
	}
}

func createPaymentHandler(svc PaymentService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, logger, domain.InvalidInput("malformed payment body"))
			return
		}
		p, err := svc.CreatePayment(c.Request.Context(), callerFrom(c), paymentsvc.CreateInput{
			OrderID:         req.OrderID,
			PaymentMethod:   req.PaymentMethod,
			PaymentID:       req.PaymentID,
			Amount:          req.Amount,
			Status:          req.Status,
			ProviderDetails: req.ProviderDetails,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, toPaymentResponse(*p))
	}
}

func updatePaymentStatusHandler(svc PaymentService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, logger, domain.InvalidInput("malformed status body"))
			return
		}
		p, err := svc.UpdatePaymentStatus(c.Request.Context(), callerFrom(c), c.Param("id"), req.Status, req.ProviderDetails)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toPaymentResponse(*p))
	}
}

func auditLogsHandler(svc AuditService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := queryInt(c, "limit")
		if err != nil {
			writeError(c, logger, err)
			return
		}
		offset, err := queryInt(c, "offset")
		if err != nil {
			writeError(c, logger, err)
			return
		}
		entries, err := svc.List(c.Request.Context(), callerFrom(c), c.Query("recordId"), limit, offset)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, newList(entries))
	}
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.InvalidInput("%s must be an integer", key)
	}
	return n, nil
}
