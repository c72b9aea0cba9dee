//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"service-booking/internal/domain/booking"
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

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	actor        *identity
}

func (s *BookingHandlerTestSuite) SetupTest() {
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.actor = &identity{id: uuid.New(), role: user.RoleCustomer}

	g := s.router.Group("/bookings", s.actor.middleware)
	g.POST("", s.handler.Create)
	g.GET("", s.handler.ListAll)
	g.GET("/mine", s.handler.ListMine)
	g.GET("/assigned", s.handler.ListAssigned)
	g.GET("/:id", s.handler.Get)
	g.PUT("/:id/assign", s.handler.Assign)
	g.PATCH("/:id/status", s.handler.UpdateStatus)
	g.POST("/:id/cancel", s.handler.Cancel)
	g.POST("/:id/feedback", s.handler.AddFeedback)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

type testCaseBooking struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/bookings"
	bb := builder.NewBookingBuilder()
	reqBody := bb.BuildCreateRequestDTO()
	view := bb.BuildView()

	s.Run("success: returns 201 Created with location", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), s.actor.id, reqBody).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(view.ID, body.ID)
		s.Equal("BKGTEST0001", body.BookingNumber)
		s.Equal(int64(50000), body.FinalPrice)
		s.Equal(view.ServiceDate, body.ServiceDate)
		s.Nil(body.EmployeeID)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/bookings/" + view.ID.String()})
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseBooking{
			{name: "missing packageId", mutate: testutil.Field("packageId", nil), expectCode: http.StatusBadRequest},
			{name: "missing serviceDate", mutate: testutil.Field("serviceDate", nil), expectCode: http.StatusBadRequest},
			{name: "serviceDate wrong layout", mutate: testutil.Field("serviceDate", "03/06/2025"), expectCode: http.StatusBadRequest},
			{name: "serviceTime with seconds", mutate: testutil.Field("serviceTime", "10:00:00"), expectCode: http.StatusBadRequest},
			{name: "empty address", mutate: testutil.Field("address", ""), expectCode: http.StatusBadRequest},
			{name: "address at 500 chars", mutate: testutil.Field("address", strings.Repeat("a", 500)), expectCode: http.StatusCreated},
			{name: "address over 500 chars", mutate: testutil.Field("address", strings.Repeat("a", 501)), expectCode: http.StatusBadRequest},
			{name: "pincode too short", mutate: testutil.Field("pincode", "5600"), expectCode: http.StatusBadRequest},
			{name: "pincode not numeric", mutate: testutil.Field("pincode", "56000A"), expectCode: http.StatusBadRequest},
			{name: "no pincode", mutate: testutil.Field("pincode", nil), expectCode: http.StatusCreated},
			{name: "malformed coupon", mutate: testutil.Field("couponCode", "AB"), expectCode: http.StatusBadRequest},
			{name: "lowercase coupon accepted", mutate: testutil.Field("couponCode", "save50"), expectCode: http.StatusCreated},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				if tc.expectCode == http.StatusCreated {
					s.mockCommands.EXPECT().Create(gomock.Any(), s.actor.id, gomock.Any()).Return(view, nil).Times(1)
				}
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				if tc.expectCode == http.StatusCreated {
					httptest.AssertSuccessResponse(s.T(), rec, tc.expectCode, nil)
				} else {
					httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request")
				}
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name   string
			err    error
			status int
		}{
			{name: "not a customer", err: commands.ErrNotCustomer, status: http.StatusBadRequest},
			{name: "inactive customer", err: commands.ErrCustomerInactive, status: http.StatusForbidden},
			{name: "package unavailable", err: commands.ErrPackageUnavailable, status: http.StatusConflict},
			{name: "bad schedule", err: queries.ErrInvalidSchedule, status: http.StatusBadRequest},
			{name: "unexpected failure", err: errors.New("connection reset"), status: http.StatusInternalServerError},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), s.actor.id, reqBody).Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.status, "")
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestGet() {
	view := builder.NewBookingBuilder().BuildView()

	s.Run("success: passes the actor to the query", func() {
		s.actor.role = user.RoleEmployee
		defer func() { s.actor.role = user.RoleCustomer }()

		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID, s.actor.id, user.RoleEmployee).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.PackageName, body.PackageName)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: maps access and not found", func() {
		for err, status := range map[error]int{
			queries.ErrBookingAccess:   http.StatusForbidden,
			booking.ErrBookingNotFound: http.StatusNotFound,
		} {
			s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID, s.actor.id, s.actor.role).Return(nil, err).Times(1)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, status, err.Error())
		}
	})
}

func (s *BookingHandlerTestSuite) TestLists() {
	views := []*queries.BookingView{builder.NewBookingBuilder().BuildView(), builder.NewBookingBuilder().BuildView()}
	next := &queries.Cursor{After: "next-page"}

	s.Run("all bookings with status filter and paging", func() {
		s.mockQueries.EXPECT().
			ListAll(gomock.Any(), "ASSIGNED", &queries.Cursor{After: "abc"}, 5).
			Return(views, next, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?status=ASSIGNED&cursor=abc&limit=5", nil, "bearer-token")

		var body resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Bookings, 2)
		s.Equal("next-page", body.NextCursor)
	})

	s.Run("limit is clamped and defaults apply", func() {
		s.mockQueries.EXPECT().ListAll(gomock.Any(), "", nil, queries.MaxListLimit).Return(nil, nil, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?limit=1000", nil, "bearer-token")

		var body resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body.Bookings)
		s.Empty(body.NextCursor)
	})

	s.Run("unknown status is rejected", func() {
		s.mockQueries.EXPECT().ListAll(gomock.Any(), "PAID", nil, queries.DefaultListLimit).
			Return(nil, nil, booking.ErrUnknownStatus).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?status=PAID", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "unknown booking status")
	})

	s.Run("mine lists by the authenticated customer", func() {
		s.mockQueries.EXPECT().ListByCustomer(gomock.Any(), s.actor.id, nil, queries.DefaultListLimit).Return(views, nil, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/mine", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("assigned lists by the authenticated employee", func() {
		s.mockQueries.EXPECT().ListByEmployee(gomock.Any(), s.actor.id, nil, queries.DefaultListLimit).Return(views[:1], nil, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/assigned", nil, "bearer-token")

		var body resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Bookings, 1)
	})

	s.Run("bad cursor maps to 400", func() {
		s.mockQueries.EXPECT().ListByCustomer(gomock.Any(), s.actor.id, &queries.Cursor{After: "%%%"}, queries.DefaultListLimit).
			Return(nil, nil, queries.ErrInvalidCursor).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/mine?cursor=%25%25%25", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid cursor")
	})
}

func (s *BookingHandlerTestSuite) TestAssign() {
	view := builder.NewBookingBuilder().BuildView()
	employeeID := uuid.New()
	url := "/bookings/" + view.ID.String() + "/assign"

	s.Run("success", func() {
		s.mockCommands.EXPECT().Assign(gomock.Any(), view.ID, employeeID).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqdto.AssignBookingRequest{EmployeeID: employeeID}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("missing employee", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("non-employee assignee", func() {
		s.mockCommands.EXPECT().Assign(gomock.Any(), view.ID, employeeID).Return(nil, booking.ErrNotEmployee).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqdto.AssignBookingRequest{EmployeeID: employeeID}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "employee role")
	})
}

func (s *BookingHandlerTestSuite) TestUpdateStatus() {
	view := builder.NewBookingBuilder().BuildView()
	url := "/bookings/" + view.ID.String() + "/status"

	s.Run("success", func() {
		s.mockCommands.EXPECT().
			UpdateStatus(gomock.Any(), view.ID, s.actor.id, s.actor.role, "in_progress").
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqdto.UpdateBookingStatusRequest{Status: "in_progress"}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("unknown status fails validation", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqdto.UpdateBookingStatusRequest{Status: "PAID"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("illegal transition is a conflict", func() {
		s.mockCommands.EXPECT().
			UpdateStatus(gomock.Any(), view.ID, s.actor.id, s.actor.role, "COMPLETED").
			Return(nil, booking.ErrIllegalTransition).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqdto.UpdateBookingStatusRequest{Status: "COMPLETED"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "transition not allowed")
	})
}

func (s *BookingHandlerTestSuite) TestCancelAndFeedback() {
	view := builder.NewBookingBuilder().BuildView()
	base := "/bookings/" + view.ID.String()

	s.Run("cancel", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), view.ID, s.actor.id, s.actor.role).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/cancel", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("cancel someone else's booking", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), view.ID, s.actor.id, s.actor.role).Return(nil, commands.ErrBookingAccess).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/cancel", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "access denied")
	})

	s.Run("feedback", func() {
		req := reqdto.FeedbackRequest{Rating: 5, Feedback: "Spotless"}
		s.mockCommands.EXPECT().AddFeedback(gomock.Any(), view.ID, s.actor.id, req).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/feedback", req, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("feedback bounds", func() {
		for _, m := range []map[string]any{
			{"rating": 0},
			{"rating": 6},
			{"rating": 3, "feedback": strings.Repeat("a", 1001)},
		} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/feedback", m, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
		}
	})

	s.Run("feedback before completion", func() {
		req := reqdto.FeedbackRequest{Rating: 4}
		s.mockCommands.EXPECT().AddFeedback(gomock.Any(), view.ID, s.actor.id, req).Return(nil, booking.ErrFeedbackNotAllowed).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/feedback", req, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "completed bookings")
	})
}
