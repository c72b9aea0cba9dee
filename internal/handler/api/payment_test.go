//go:build unit

package api_test

import (
	"net/http"
	"strings"
	"testing"

	"service-booking/internal/domain/payment"
	"service-booking/internal/domain/user"
	"service-booking/internal/handler/api"
	reqdto "service-booking/internal/handler/dto/request"
	resdto "service-booking/internal/handler/dto/response"
	"service-booking/internal/usecase/commands"
	"service-booking/internal/usecase/queries"
	"service-booking/tests/common/builder"
	"service-booking/tests/common/httptest"
	"service-booking/tests/common/testutil"
	commandsmock "service-booking/tests/mock/commands"
	queriesmock "service-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	mockQueries  *queriesmock.MockPaymentQueries
	handler      *api.PaymentHandler
	actor        *identity
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockPaymentQueries(s.mockCtrl)
	s.handler = api.NewPaymentHandler(s.mockCommands, s.mockQueries)
	s.actor = &identity{id: uuid.New(), role: user.RoleCustomer}

	g := s.router.Group("/payments", s.actor.middleware)
	g.POST("/orders", s.handler.CreateOrder)
	g.POST("/verify", s.handler.Verify)
	g.POST("/failed", s.handler.MarkFailed)
	g.POST("/:id/refund", s.handler.Refund)
	g.GET("/booking/:bookingId", s.handler.GetByBooking)
	g.GET("", s.handler.ListByStatus)
	g.GET("/mine", s.handler.ListMine)
	g.GET("/revenue", s.handler.Revenue)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

func (s *PaymentHandlerTestSuite) TestCreateOrder() {
	pb := builder.NewPaymentBuilder()
	view := pb.BuildView()
	req := reqdto.CreateOrderRequest{BookingID: pb.BookingID}

	s.Run("success: returns the order for checkout", func() {
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(), s.actor.id, pb.BookingID).
			Return(&commands.CreateOrderResult{Payment: view, OrderID: *pb.GatewayOrderID, Amount: pb.Amount, KeyID: "rzp_test_key"}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/orders", req, "bearer-token")

		var body resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal("order_TEST0001", body.OrderID)
		s.Equal(int64(40000), body.Amount)
		s.Equal("rzp_test_key", body.KeyID)
		s.Equal("PENDING", body.Payment.Status)
	})

	s.Run("gateway down: pending payment without an order", func() {
		pending := builder.NewPaymentBuilder().WithoutGatewayOrder().BuildView()
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(), s.actor.id, pb.BookingID).
			Return(&commands.CreateOrderResult{Payment: pending, Amount: pb.Amount, KeyID: "rzp_test_key"}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/orders", req, "bearer-token")

		var body resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Empty(body.OrderID)
		s.Equal("PENDING", body.Payment.Status)
		s.Nil(body.Payment.GatewayOrderID)
	})

	s.Run("missing booking id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/orders", map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("maps usecase errors", func() {
		cases := []struct {
			name   string
			err    error
			status int
		}{
			{"already paid", payment.ErrAlreadyCompleted, http.StatusConflict},
			{"not payable", commands.ErrBookingNotPayable, http.StatusConflict},
			{"lock busy", commands.ErrOrderInProgress, http.StatusConflict},
			{"someone else's booking", commands.ErrPaymentAccess, http.StatusForbidden},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateOrder(gomock.Any(), s.actor.id, pb.BookingID).Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/orders", req, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.status, tc.err.Error())
			})
		}
	})
}

func (s *PaymentHandlerTestSuite) TestVerify() {
	pb := builder.NewPaymentBuilder().WithStatus(payment.StatusCompleted)
	view := pb.BuildView()
	req := reqdto.VerifyPaymentRequest{
		GatewayOrderID:   *pb.GatewayOrderID,
		GatewayPaymentID: "pay_TEST0001",
		GatewaySignature: pb.Signature("pay_TEST0001"),
	}

	s.Run("success", func() {
		s.mockCommands.EXPECT().Verify(gomock.Any(), s.actor.id, req).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/verify", req, "bearer-token")

		var body resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("COMPLETED", body.Status)
	})

	s.Run("signature must be 64 hex chars", func() {
		for _, sig := range []string{"abc", strings.Repeat("z", 64), strings.Repeat("a", 65)} {
			m := testutil.DtoMap(s.T(), req, testutil.Field("gatewaySignature", sig))
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/verify", m, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
		}
	})

	s.Run("maps reconciliation errors", func() {
		cases := []struct {
			name   string
			err    error
			status int
		}{
			{"signature mismatch", payment.ErrSignatureMismatch, http.StatusBadRequest},
			{"unknown order", payment.ErrPaymentNotFound, http.StatusNotFound},
			{"not captured", commands.ErrPaymentNotCaptured, http.StatusConflict},
			{"gateway down", commands.ErrGatewayUnavailable, http.StatusBadGateway},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Verify(gomock.Any(), s.actor.id, req).Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/verify", req, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.status, "")
			})
		}
	})
}

func (s *PaymentHandlerTestSuite) TestFailAndRefund() {
	failed := builder.NewPaymentBuilder().WithStatus(payment.StatusFailed).BuildView()

	s.Run("mark failed", func() {
		req := reqdto.FailPaymentRequest{GatewayOrderID: "order_TEST0001", Reason: "card declined"}
		s.mockCommands.EXPECT().MarkFailed(gomock.Any(), s.actor.id, req).Return(failed, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/failed", req, "bearer-token")

		var body resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("FAILED", body.Status)
	})

	s.Run("refund", func() {
		refunded := builder.NewPaymentBuilder().WithStatus(payment.StatusRefunded).BuildView()
		s.mockCommands.EXPECT().Refund(gomock.Any(), refunded.ID).Return(refunded, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/"+refunded.ID.String()+"/refund", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("refund of a pending payment", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().Refund(gomock.Any(), id).Return(nil, payment.ErrNotRefundable).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/"+id.String()+"/refund", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "refunded")
	})
}

func (s *PaymentHandlerTestSuite) TestQueries() {
	view := builder.NewPaymentBuilder().BuildView()

	s.Run("latest by booking", func() {
		s.mockQueries.EXPECT().GetByBookingID(gomock.Any(), view.BookingID, s.actor.id, user.RoleCustomer).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/booking/"+view.BookingID.String(), nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("list defaults to completed", func() {
		s.mockQueries.EXPECT().ListByStatus(gomock.Any(), "COMPLETED", nil, queries.DefaultListLimit).
			Return([]*queries.PaymentView{view}, &queries.Cursor{After: "n"}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments", nil, "bearer-token")

		var body resdto.PaymentListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Payments, 1)
		s.Equal("n", body.NextCursor)
	})

	s.Run("list by explicit status", func() {
		s.mockQueries.EXPECT().ListByStatus(gomock.Any(), "FAILED", nil, 3).Return(nil, nil, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments?status=FAILED&limit=3", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("mine", func() {
		s.mockQueries.EXPECT().ListByCustomer(gomock.Any(), s.actor.id, nil, queries.DefaultListLimit).Return(nil, nil, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/mine", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("revenue", func() {
		s.mockQueries.EXPECT().TotalRevenue(gomock.Any()).Return(&queries.RevenueView{Total: 90000, Count: 2, Currency: "INR"}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/revenue", nil, "bearer-token")

		var body resdto.RevenueResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(resdto.RevenueResponse{Total: 90000, Count: 2, Currency: "INR"}, body)
	})
}
