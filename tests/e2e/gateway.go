//go:build e2e

package e2e

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"service-booking/internal/domain/payment"

	"github.com/gin-gonic/gin"
)

// FakeGateway serves the subset of the gateway orders/payments API the
// service calls. Payments exist only once a test captures them.
type FakeGateway struct {
	Secret string

	server *httptest.Server

	mu       sync.Mutex
	seq      int
	orders   map[string]int64
	payments map[string]gin.H
	failNext bool
}

func NewFakeGateway() *FakeGateway {
	g := &FakeGateway{Secret: "e2e-gateway-secret"}
	g.Reset()

	r := gin.New()
	r.POST("/v1/orders", g.createOrder)
	r.GET("/v1/payments/:id", g.fetchPayment)
	g.server = httptest.NewServer(r)
	return g
}

func (g *FakeGateway) URL() string { return g.server.URL }

func (g *FakeGateway) Close() { g.server.Close() }

func (g *FakeGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders = map[string]int64{}
	g.payments = map[string]gin.H{}
	g.failNext = false
}

// FailNextOrder makes the next order creation answer 503.
func (g *FakeGateway) FailNextOrder() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failNext = true
}

func (g *FakeGateway) OrderCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.orders)
}

// Capture records a captured payment for orderID and returns the checkout
// signature the customer's browser would post back.
func (g *FakeGateway) Capture(orderID, paymentID string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.payments[paymentID] = gin.H{
		"id":       paymentID,
		"order_id": orderID,
		"status":   "captured",
		"amount":   g.orders[orderID],
	}
	return payment.ComputeSignature(g.Secret, orderID, paymentID)
}

func (g *FakeGateway) createOrder(c *gin.Context) {
	var req struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Receipt  string `json:"receipt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failNext {
		g.failNext = false
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable"})
		return
	}
	g.seq++
	id := fmt.Sprintf("order_E2E%06d", g.seq)
	g.orders[id] = req.Amount
	c.JSON(http.StatusOK, gin.H{
		"id":       id,
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"status":   "created",
	})
}

func (g *FakeGateway) fetchPayment(c *gin.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.payments[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}
