package orders

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/BearBump/WriteDesk/internal/broker/messages"
	"github.com/BearBump/WriteDesk/internal/cache"
	cachemocks "github.com/BearBump/WriteDesk/internal/cache/mocks"
	"github.com/BearBump/WriteDesk/internal/models"
	"github.com/BearBump/WriteDesk/internal/pricing"
	"github.com/BearBump/WriteDesk/internal/storage/pgorders"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	ordersmocks "github.com/BearBump/WriteDesk/internal/services/orders/mocks"
)

type geoStub struct {
	country string
	err     error
	calls   int
}

func (g *geoStub) Country(ctx context.Context, ip string) (string, error) {
	g.calls++
	return g.country, g.err
}

var wednesdayNoon = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite

	repo    *ordersmocks.MockRepository
	files   *ordersmocks.MockFileStore
	pub     *ordersmocks.MockPublisher
	limiter *cachemocks.MockRateLimiter
	geo     *geoStub
	svc     *Service
}

func (s *ServiceSuite) SetupTest() {
	s.repo = &ordersmocks.MockRepository{}
	s.files = &ordersmocks.MockFileStore{}
	s.pub = &ordersmocks.MockPublisher{}
	s.limiter = &cachemocks.MockRateLimiter{}
	s.geo = &geoStub{country: "United Kingdom"}
	s.svc = s.newService("UTC", wednesdayNoon)
}

func (s *ServiceSuite) newService(tz string, now time.Time) *Service {
	return New(Config{Timezone: tz, SubmitLimit: 3, SubmitWindow: time.Hour, MaxFileBytes: 1024}, Deps{
		Repo:      s.repo,
		Files:     s.files,
		Publisher: s.pub,
		Limiter:   s.limiter,
		Geo:       s.geo,
		Now:       func() time.Time { return now },
		NewID:     func() string { return "01J9ZX" },
	})
}

func validSubmission() models.OrderSubmission {
	return models.OrderSubmission{
		ServiceType:  "writing",
		DocumentType: "essay",
		Subject:      "History",
		Topic:        "The Corn Laws",
		Instructions: "Use at least five sources.",
		Pages:        10,
		Deadline:     "7",
		Name:         "Sam Carter",
		Email:        "sam@example.com",
		ClientIP:     "81.2.69.160",
	}
}

func (s *ServiceSuite) allowSubmit() {
	s.limiter.On("Allow", mock.Anything, "submit:81.2.69.160", int64(3), time.Hour).
		Return(cache.Decision{Allowed: true, Count: 1}, nil).
		Once()
}

func (s *ServiceSuite) TestSubmitOrder_StoresAndPublishes() {
	s.allowSubmit()
	s.repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.Reference == "WD-01J9ZX" &&
			o.Status == models.OrderStatusPendingPayment &&
			o.TotalCents == 11900 &&
			o.Country == "United Kingdom" &&
			o.CustomerPhone == nil
	})).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Order).ID = 42 }).
		Return(nil).
		Once()

	var published messages.OrderSubmitted
	s.pub.On("Publish", mock.Anything, messages.TopicOrderSubmitted, []byte("WD-01J9ZX"), mock.Anything).
		Run(func(args mock.Arguments) {
			s.Require().NoError(json.Unmarshal(args.Get(3).([]byte), &published))
		}).
		Return(nil).
		Once()

	o, err := s.svc.SubmitOrder(context.Background(), validSubmission())
	s.Require().NoError(err)
	s.Require().Equal(uint64(42), o.ID)
	s.Require().Equal("119.00", o.Total().StringFixed(2))

	var q pricing.Quote
	s.Require().NoError(json.Unmarshal(o.QuoteJSON, &q))
	s.Require().Equal(119.0, q.TotalPrice)

	s.Require().Equal(uint64(42), published.OrderID)
	s.Require().Equal("119.00", published.Total)
	s.Require().Equal("sam@example.com", published.CustomerEmail)
	s.Require().False(published.IsRushOrder)

	s.repo.AssertExpectations(s.T())
	s.pub.AssertExpectations(s.T())
	s.limiter.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestSubmitOrder_SanitisesFreeText() {
	s.allowSubmit()
	var stored *models.Order
	s.repo.On("CreateOrder", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.Order) }).
		Return(nil).
		Once()
	s.pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	sub := validSubmission()
	sub.Name = "  <b>Sam</b> O'Brien "
	sub.Instructions = "<script>alert(1)</script>Use APA & cite"
	sub.Phone = "+44 7700 900000"
	sub.ServiceType = " Writing "

	_, err := s.svc.SubmitOrder(context.Background(), sub)
	s.Require().NoError(err)
	s.Require().Equal("Sam O'Brien", stored.CustomerName)
	s.Require().Equal("Use APA & cite", stored.Instructions)
	s.Require().Equal("writing", stored.ServiceType)
	s.Require().NotNil(stored.CustomerPhone)
}

func (s *ServiceSuite) TestSubmitOrder_ValidationErrors() {
	mutate := []func(*models.OrderSubmission){
		func(m *models.OrderSubmission) { m.ServiceType = "tutoring" },
		func(m *models.OrderSubmission) { m.Pages = 0 },
		func(m *models.OrderSubmission) { m.Pages = 501 },
		func(m *models.OrderSubmission) { m.Deadline = "30" },
		func(m *models.OrderSubmission) { m.Name = "<i></i>" },
		func(m *models.OrderSubmission) { m.Email = "" },
		func(m *models.OrderSubmission) { m.Email = "Sam <sam@example.com>" },
		func(m *models.OrderSubmission) { m.Email = "not-an-email" },
		func(m *models.OrderSubmission) { m.Topic = strings.Repeat("x", 201) },
		func(m *models.OrderSubmission) { m.Instructions = strings.Repeat("x", 10001) },
	}
	for i, f := range mutate {
		sub := validSubmission()
		f(&sub)
		_, err := s.svc.SubmitOrder(context.Background(), sub)
		s.Require().ErrorIs(err, ErrInvalidInput, "case %d", i)
	}
	s.repo.AssertNotCalled(s.T(), "CreateOrder", mock.Anything, mock.Anything)
	s.limiter.AssertNotCalled(s.T(), "Allow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestSubmitOrder_RateLimited() {
	s.limiter.On("Allow", mock.Anything, "submit:81.2.69.160", int64(3), time.Hour).
		Return(cache.Decision{Allowed: false, Count: 4, RetryAfter: 30 * time.Minute}, nil).
		Once()

	_, err := s.svc.SubmitOrder(context.Background(), validSubmission())
	s.Require().ErrorIs(err, ErrRateLimited)

	var rl *RateLimitError
	s.Require().True(errors.As(err, &rl))
	s.Require().Equal(30*time.Minute, rl.RetryAfter)
	s.repo.AssertNotCalled(s.T(), "CreateOrder", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestSubmitOrder_DegradesWhenCollaboratorsFail() {
	s.limiter.On("Allow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(cache.Decision{}, errors.New("redis down")).
		Once()
	s.geo.err = errors.New("timeout")
	s.geo.country = ""
	s.repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.Country == models.UnknownCountry
	})).Return(nil).Once()
	s.pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("kafka down")).
		Once()

	o, err := s.svc.SubmitOrder(context.Background(), validSubmission())
	s.Require().NoError(err)
	s.Require().Equal(models.UnknownCountry, o.Country)
	s.repo.AssertExpectations(s.T())
	s.pub.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestSubmitOrder_PrivateIPSkipsGeo() {
	s.limiter.On("Allow", mock.Anything, "submit:10.0.0.7", mock.Anything, mock.Anything).
		Return(cache.Decision{Allowed: true}, nil).
		Once()
	s.repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil).Once()
	s.pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	sub := validSubmission()
	sub.ClientIP = "10.0.0.7"
	o, err := s.svc.SubmitOrder(context.Background(), sub)
	s.Require().NoError(err)
	s.Require().Equal(models.UnknownCountry, o.Country)
	s.Require().Zero(s.geo.calls)
}

func (s *ServiceSuite) TestSubmitOrder_RepoErrorReturned() {
	s.allowSubmit()
	s.repo.On("CreateOrder", mock.Anything, mock.Anything).Return(errors.New("insert order: boom")).Once()

	_, err := s.svc.SubmitOrder(context.Background(), validSubmission())
	s.Require().Error(err)
	s.pub.AssertNotCalled(s.T(), "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestQuote_UsesConfiguredTimezone() {
	// Friday evening in UTC is already Saturday in Kolkata.
	friday := time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC)
	in := pricing.Input{ServiceType: pricing.ServiceWriting, Pages: 3, Deadline: "7"}

	s.Require().Zero(s.newService("UTC", friday).Quote(context.Background(), in).UrgencyDiscount)
	s.Require().Equal(2.1, s.newService("Asia/Kolkata", friday).Quote(context.Background(), in).UrgencyDiscount)
}

func (s *ServiceSuite) TestAttachFile_Stores() {
	s.repo.On("GetOrder", mock.Anything, uint64(7)).
		Return(&models.Order{ID: 7, Reference: "WD-ABC", Status: models.OrderStatusPaid}, nil).
		Once()
	s.files.On("Put", mock.Anything, "orders/WD-ABC/01J9ZX-brief_v2.pdf", mock.Anything, int64(4), "application/pdf").
		Return("http://minio/uploads/orders/WD-ABC/01J9ZX-brief_v2.pdf", nil).
		Once()
	s.repo.On("AddOrderFile", mock.Anything, mock.MatchedBy(func(f *models.OrderFile) bool {
		return f.OrderID == 7 && f.FileName == "brief_v2.pdf" && f.Size == 4
	})).Return(nil).Once()

	f, err := s.svc.AttachFile(context.Background(), 7, models.FileUpload{
		FileName:    "brief v2.pdf",
		ContentType: "application/pdf",
		Size:        4,
		Body:        strings.NewReader("%PDF"),
	})
	s.Require().NoError(err)
	s.Require().Equal("orders/WD-ABC/01J9ZX-brief_v2.pdf", f.ObjectKey)
	s.Require().Equal("http://minio/uploads/orders/WD-ABC/01J9ZX-brief_v2.pdf", f.URL)
	s.repo.AssertExpectations(s.T())
	s.files.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestAttachFile_ExtensionCaseInsensitive() {
	s.repo.On("GetOrder", mock.Anything, uint64(8)).
		Return(&models.Order{ID: 8, Reference: "WD-DEF", Status: models.OrderStatusPendingPayment}, nil).
		Once()
	s.files.On("Put", mock.Anything, "orders/WD-DEF/01J9ZX-SLIDES.PPTX", mock.Anything, int64(3), "").
		Return("u", nil).
		Once()
	s.repo.On("AddOrderFile", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.svc.AttachFile(context.Background(), 8, models.FileUpload{FileName: "SLIDES.PPTX", Size: 3, Body: strings.NewReader("abc")})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestAttachFile_Validation() {
	ctx := context.Background()
	body := func() io.Reader { return strings.NewReader("data") }

	_, err := s.svc.AttachFile(ctx, 0, models.FileUpload{FileName: "a.pdf", Size: 4, Body: body()})
	s.Require().ErrorIs(err, ErrInvalidInput)
	_, err = s.svc.AttachFile(ctx, 1, models.FileUpload{FileName: "a.pdf", Size: 0, Body: body()})
	s.Require().ErrorIs(err, ErrInvalidInput)
	_, err = s.svc.AttachFile(ctx, 1, models.FileUpload{FileName: "a.pdf", Size: 4096, Body: body()})
	s.Require().ErrorIs(err, ErrInvalidInput)
	_, err = s.svc.AttachFile(ctx, 1, models.FileUpload{FileName: "run.exe", Size: 4, Body: body()})
	s.Require().ErrorIs(err, ErrInvalidInput)

	s.repo.On("GetOrder", mock.Anything, uint64(9)).Return(nil, pgorders.ErrNotFound).Once()
	_, err = s.svc.AttachFile(ctx, 9, models.FileUpload{FileName: "a.pdf", Size: 4, Body: body()})
	s.Require().ErrorIs(err, ErrNotFound)

	s.repo.On("GetOrder", mock.Anything, uint64(10)).
		Return(&models.Order{ID: 10, Status: models.OrderStatusCancelled}, nil).
		Once()
	_, err = s.svc.AttachFile(ctx, 10, models.FileUpload{FileName: "a.pdf", Size: 4, Body: body()})
	s.Require().ErrorIs(err, ErrConflict)

	s.files.AssertNotCalled(s.T(), "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestUpdateStatus() {
	ctx := context.Background()
	pending := &models.Order{ID: 5, Reference: "WD-5", Status: models.OrderStatusPendingPayment}

	_, err := s.svc.UpdateStatus(ctx, 5, "shipped")
	s.Require().ErrorIs(err, ErrInvalidInput)

	s.repo.On("GetOrder", mock.Anything, uint64(5)).Return(pending, nil)

	same, err := s.svc.UpdateStatus(ctx, 5, models.OrderStatusPendingPayment)
	s.Require().NoError(err)
	s.Require().Same(pending, same)

	_, err = s.svc.UpdateStatus(ctx, 5, models.OrderStatusCompleted)
	s.Require().ErrorIs(err, ErrConflict)

	s.repo.On("UpdateStatus", mock.Anything, uint64(5), models.OrderStatusPendingPayment, models.OrderStatusPaid).
		Return(&models.Order{ID: 5, Reference: "WD-5", Status: models.OrderStatusPaid}, nil).
		Once()
	paid, err := s.svc.UpdateStatus(ctx, 5, models.OrderStatusPaid)
	s.Require().NoError(err)
	s.Require().Equal(models.OrderStatusPaid, paid.Status)

	s.repo.On("UpdateStatus", mock.Anything, uint64(5), models.OrderStatusPendingPayment, models.OrderStatusCancelled).
		Return(nil, pgorders.ErrStatusConflict).
		Once()
	_, err = s.svc.UpdateStatus(ctx, 5, models.OrderStatusCancelled)
	s.Require().ErrorIs(err, ErrConflict)
}

func (s *ServiceSuite) TestListOrders_ClampsPaging() {
	s.repo.On("ListOrders", mock.Anything, 50, 0).Return([]*models.Order{{ID: 1}}, 1, nil).Once()

	page, err := s.svc.ListOrders(context.Background(), 0, -3)
	s.Require().NoError(err)
	s.Require().Equal(50, page.Limit)
	s.Require().Equal(0, page.Offset)
	s.Require().Equal(1, page.Total)
	s.Require().Len(page.Orders, 1)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}
