//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"service-booking/internal/domain/user"
	"service-booking/internal/handler/dto/request"
	"service-booking/internal/handler/dto/response"
	"service-booking/internal/pkg/ptr"
	"service-booking/internal/usecase/shared"
	"service-booking/tests/common/authtest"
	"service-booking/tests/common/dbtest"
	"service-booking/tests/common/httptest"
	"service-booking/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type bookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(bookingSuite))
}

func (s *bookingSuite) login(email string, role user.Role) (uuid.UUID, string) {
	return authtest.CreateAndLogin(s.T(), s.DB, s.Router, email, string(role))
}

func (s *bookingSuite) TestCreate() {
	s.Run("full price without coupon", func() {
		t := s.T()
		_, token := s.login("asha@example.com", user.RoleCustomer)
		pkg := dbtest.DefaultPackageID(t, s.DB)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/bookings", e2e.NewBookingRequest(pkg, nil), token)
		var b response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &b)

		assert.Equal(t, "/api/bookings/"+b.ID.String(), w.Header().Get("Location"))
		assert.Equal(t, "CREATED", b.Status)
		assert.Equal(t, dbtest.DefaultPackagePrice, b.OriginalPrice)
		assert.Zero(t, b.DiscountAmount)
		assert.Equal(t, b.OriginalPrice, b.FinalPrice)
		assert.Equal(t, dbtest.DefaultServiceName, b.ServiceName)
		assert.Equal(t, "10:30", b.ServiceTime)
		assert.Regexp(t, `^BKG[0-9A-Z]{8}$`, b.BookingNumber)
		assert.Equal(t, 1, dbtest.CountOutboxEvents(t, s.DB, shared.EventBookingCreated))
	})

	s.Run("percentage coupon is redeemed", func() {
		t := s.T()
		_, token := s.login("asha@example.com", user.RoleCustomer)
		dbtest.CreateTestCoupon(t, s.DB, "SAVE10", "PERCENTAGE", 10, 5)

		b := s.CreateBooking(t, token, e2e.NewBookingRequest(dbtest.DefaultPackageID(t, s.DB), ptr.Of("save10")))

		assert.Equal(t, int64(5000), b.DiscountAmount)
		assert.Equal(t, int64(45000), b.FinalPrice)
		require.NotNil(t, b.CouponCode)
		assert.Equal(t, "SAVE10", *b.CouponCode)
		assert.Equal(t, 1, dbtest.CouponUsedCount(t, s.DB, "SAVE10"))
		assert.Equal(t, 1, dbtest.CountOutboxEvents(t, s.DB, shared.EventCouponRedeemed))
	})

	s.Run("rejected coupon still books at full price", func() {
		t := s.T()
		_, token := s.login("asha@example.com", user.RoleCustomer)
		dbtest.CreateTestCoupon(t, s.DB, "ONCE", "FIXED_AMOUNT", 2000, 1)
		pkg := dbtest.DefaultPackageID(t, s.DB)

		first := s.CreateBooking(t, token, e2e.NewBookingRequest(pkg, ptr.Of("ONCE")))
		second := s.CreateBooking(t, token, e2e.NewBookingRequest(pkg, ptr.Of("ONCE")))

		assert.Equal(t, int64(2000), first.DiscountAmount)
		assert.Zero(t, second.DiscountAmount)
		assert.Nil(t, second.CouponCode)
		assert.Equal(t, second.OriginalPrice, second.FinalPrice)
		assert.Equal(t, 1, dbtest.CouponUsedCount(t, s.DB, "ONCE"))
	})

	s.Run("malformed coupon code still books at full price", func() {
		t := s.T()
		_, token := s.login("asha@example.com", user.RoleCustomer)
		pkg := dbtest.DefaultPackageID(t, s.DB)

		for _, code := range []string{"SAVE-50", "AB", "NOSUCHCODE", "  "} {
			b := s.CreateBooking(t, token, e2e.NewBookingRequest(pkg, ptr.Of(code)))
			assert.Zero(t, b.DiscountAmount, code)
			assert.Nil(t, b.CouponCode, code)
			assert.Equal(t, b.OriginalPrice, b.FinalPrice, code)
		}
	})

	s.Run("fixed discount above price is clamped", func() {
		t := s.T()
		_, token := s.login("asha@example.com", user.RoleCustomer)
		cheap := dbtest.CreateTestPackage(t, s.DB, "Tap Fix", 1500)
		dbtest.CreateTestCoupon(t, s.DB, "FLAT20", "FIXED_AMOUNT", 2000, 5)

		b := s.CreateBooking(t, token, e2e.NewBookingRequest(cheap, ptr.Of("FLAT20")))
		assert.Equal(t, int64(1500), b.DiscountAmount)
		assert.Zero(t, b.FinalPrice)
	})

	s.Run("only customers may book", func() {
		t := s.T()
		_, token := s.login("ravi@example.com", user.RoleEmployee)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/bookings",
			e2e.NewBookingRequest(dbtest.DefaultPackageID(t, s.DB), nil), token)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("unknown package", func() {
		t := s.T()
		_, token := s.login("asha@example.com", user.RoleCustomer)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/bookings",
			e2e.NewBookingRequest(uuid.New(), nil), token)
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})
}

// The usage limit must hold when more customers race for a coupon than it allows.
func (s *bookingSuite) TestConcurrentCouponRedemption() {
	t := s.T()
	const (
		limit     = 3
		customers = 8
	)
	dbtest.CreateTestCoupon(t, s.DB, "RUSH", "FIXED_AMOUNT", 1000, limit)
	pkg := dbtest.DefaultPackageID(t, s.DB)

	tokens := make([]string, customers)
	for i := range tokens {
		_, tokens[i] = s.login(fmt.Sprintf("rush%d@example.com", i), user.RoleCustomer)
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		discounted int
	)
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/bookings",
				e2e.NewBookingRequest(pkg, ptr.Of("RUSH")), token)
			if !assert.Equal(t, http.StatusCreated, w.Code, w.Body.String()) {
				return
			}
			var b response.BookingResponse
			assert.NoError(t, httptest.DecodeResponseBody(t, w.Body, &b))
			if b.DiscountAmount > 0 {
				mu.Lock()
				discounted++
				mu.Unlock()
			}
		}(token)
	}
	wg.Wait()

	assert.Equal(t, limit, discounted)
	assert.Equal(t, limit, dbtest.CouponUsedCount(t, s.DB, "RUSH"))
}

func (s *bookingSuite) TestLifecycle() {
	t := s.T()
	customerID, customer := s.login("asha@example.com", user.RoleCustomer)
	employeeID, employee := s.login("ravi@example.com", user.RoleEmployee)
	_, admin := s.login("admin@example.com", user.RoleAdmin)
	_, stranger := s.login("meena@example.com", user.RoleCustomer)

	b := s.CreateBooking(t, customer, e2e.NewBookingRequest(dbtest.DefaultPackageID(t, s.DB), nil))
	assert.Equal(t, customerID, b.CustomerID)
	base := "/api/bookings/" + b.ID.String()

	w := httptest.PerformRequest(t, s.Router, http.MethodGet, base, nil, stranger)
	assert.Equal(t, http.StatusForbidden, w.Code, "other customers cannot read the booking")

	w = httptest.PerformRequest(t, s.Router, http.MethodPut, base+"/assign", request.AssignBookingRequest{EmployeeID: employeeID}, admin)
	httptest.AssertErrorKind(t, w, http.StatusConflict, "INVALID_STATE")

	w = httptest.PerformRequest(t, s.Router, http.MethodPatch, base+"/status", request.UpdateBookingStatusRequest{Status: "ASSIGNED"}, admin)
	httptest.AssertErrorKind(t, w, http.StatusConflict, "INVALID_STATE")
	assert.Equal(t, "CREATED", s.GetBooking(t, customer, b.ID).Status, "unpaid booking stays CREATED")

	order := s.CreateOrder(t, customer, b.ID)
	s.PayOrder(t, customer, order.OrderID)

	w = httptest.PerformRequest(t, s.Router, http.MethodPut, base+"/assign", request.AssignBookingRequest{EmployeeID: employeeID}, admin)
	var assigned response.BookingResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &assigned)
	assert.Equal(t, "ASSIGNED", assigned.Status)
	require.NotNil(t, assigned.EmployeeName)
	assert.Equal(t, "ravi", *assigned.EmployeeName)

	w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/bookings/assigned", nil, employee)
	var list response.BookingListResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &list)
	require.Len(t, list.Bookings, 1)
	assert.Equal(t, b.ID, list.Bookings[0].ID)

	w = httptest.PerformRequest(t, s.Router, http.MethodPost, base+"/feedback", request.FeedbackRequest{Rating: 5}, customer)
	assert.Equal(t, http.StatusConflict, w.Code, "feedback before completion")

	for _, status := range []string{"IN_PROGRESS", "COMPLETED"} {
		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, base+"/status", request.UpdateBookingStatusRequest{Status: status}, employee)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = httptest.PerformRequest(t, s.Router, http.MethodPatch, base+"/status", request.UpdateBookingStatusRequest{Status: "IN_PROGRESS"}, employee)
	httptest.AssertErrorResponse(t, w, http.StatusConflict, "transition not allowed")

	w = httptest.PerformRequest(t, s.Router, http.MethodPost, base+"/feedback", request.FeedbackRequest{Rating: 4, Feedback: "Spotless"}, customer)
	var done response.BookingResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &done)
	require.NotNil(t, done.Rating)
	assert.Equal(t, 4, *done.Rating)
	assert.Equal(t, "COMPLETED", done.Status)

	w = httptest.PerformRequest(t, s.Router, http.MethodPost, base+"/cancel", nil, customer)
	assert.Equal(t, http.StatusConflict, w.Code, "completed bookings cannot be cancelled")
	assert.Equal(t, 3, dbtest.CountOutboxEvents(t, s.DB, shared.EventBookingStatusChanged), "payment, start and completion")
}

func (s *bookingSuite) TestFreeBookingIsAssignable() {
	t := s.T()
	_, customer := s.login("asha@example.com", user.RoleCustomer)
	employeeID, _ := s.login("ravi@example.com", user.RoleEmployee)
	_, admin := s.login("admin@example.com", user.RoleAdmin)
	cheap := dbtest.CreateTestPackage(t, s.DB, "Tap Fix", 1500)
	dbtest.CreateTestCoupon(t, s.DB, "FLAT20", "FIXED_AMOUNT", 2000, 5)

	b := s.CreateBooking(t, customer, e2e.NewBookingRequest(cheap, ptr.Of("FLAT20")))
	require.Zero(t, b.FinalPrice)

	w := httptest.PerformRequest(t, s.Router, http.MethodPut, "/api/bookings/"+b.ID.String()+"/assign",
		request.AssignBookingRequest{EmployeeID: employeeID}, admin)
	var assigned response.BookingResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &assigned)
	assert.Equal(t, "ASSIGNED", assigned.Status)
}

func (s *bookingSuite) TestUnknownStatus() {
	t := s.T()
	_, customer := s.login("asha@example.com", user.RoleCustomer)
	_, admin := s.login("admin@example.com", user.RoleAdmin)
	b := s.CreateBooking(t, customer, e2e.NewBookingRequest(dbtest.DefaultPackageID(t, s.DB), nil))

	w := httptest.PerformRequest(t, s.Router, http.MethodPatch, "/api/bookings/"+b.ID.String()+"/status",
		request.UpdateBookingStatusRequest{Status: "PAID"}, admin)
	httptest.AssertErrorKind(t, w, http.StatusBadRequest, "INVALID_STATUS")

	w = httptest.PerformRequest(t, s.Router, http.MethodPatch, "/api/bookings/"+b.ID.String()+"/status",
		request.UpdateBookingStatusRequest{}, admin)
	httptest.AssertErrorKind(t, w, http.StatusBadRequest, "VALIDATION_FAILED")
}

func (s *bookingSuite) TestCancel() {
	s.Run("owner cancels once", func() {
		t := s.T()
		_, customer := s.login("asha@example.com", user.RoleCustomer)
		b := s.CreateBooking(t, customer, e2e.NewBookingRequest(dbtest.DefaultPackageID(t, s.DB), nil))
		path := "/api/bookings/" + b.ID.String() + "/cancel"

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, path, nil, customer)
		var cancelled response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &cancelled)
		assert.Equal(t, "CANCELLED", cancelled.Status)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, path, nil, customer)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("another customer is refused", func() {
		t := s.T()
		_, customer := s.login("asha@example.com", user.RoleCustomer)
		_, stranger := s.login("meena@example.com", user.RoleCustomer)
		b := s.CreateBooking(t, customer, e2e.NewBookingRequest(dbtest.DefaultPackageID(t, s.DB), nil))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/bookings/"+b.ID.String()+"/cancel", nil, stranger)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "CREATED", s.GetBooking(t, customer, b.ID).Status)
	})
}

func (s *bookingSuite) TestListMinePaging() {
	t := s.T()
	_, customer := s.login("asha@example.com", user.RoleCustomer)
	_, other := s.login("meena@example.com", user.RoleCustomer)
	pkg := dbtest.DefaultPackageID(t, s.DB)
	for range 3 {
		s.CreateBooking(t, customer, e2e.NewBookingRequest(pkg, nil))
	}
	s.CreateBooking(t, other, e2e.NewBookingRequest(pkg, nil))

	w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/bookings/mine?limit=2", nil, customer)
	var page1 response.BookingListResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &page1)
	require.Len(t, page1.Bookings, 2)
	require.NotEmpty(t, page1.NextCursor)

	w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/bookings/mine?limit=2&cursor="+page1.NextCursor, nil, customer)
	var page2 response.BookingListResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &page2)
	require.Len(t, page2.Bookings, 1)
	assert.Empty(t, page2.NextCursor)

	seen := map[uuid.UUID]bool{}
	for _, b := range append(page1.Bookings, page2.Bookings...) {
		assert.False(t, seen[b.ID], "booking repeated across pages")
		seen[b.ID] = true
	}
	assert.True(t, page1.Bookings[0].CreatedAt.After(page1.Bookings[1].CreatedAt) || page1.Bookings[0].CreatedAt.Equal(page1.Bookings[1].CreatedAt))
}
