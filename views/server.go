package views

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/client"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders the pages and posts the forms through the API.
type Server struct {
	api          API
	location     *time.Location
	now          func() time.Time
	floorFeedURL string
}

type Option func(*Server)

// WithClock fixes the clock used for "today".
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithFloorFeed makes the dashboard reload on every floor event from the
// API websocket at url.
func WithFloorFeed(url string) Option {
	return func(s *Server) { s.floorFeedURL = url }
}

func NewServer(api API, location *time.Location, opts ...Option) *Server {
	s := &Server{api: api, location: location, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) today() time.Time {
	return s.now().In(s.location)
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// Register installs the templates and page routes on r.
func (s *Server) Register(r *gin.Engine) {
	r.SetHTMLTemplate(Templates())

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	r.GET("/dashboard", s.dashboard)
	r.GET("/search", s.search)

	r.GET("/reservations/new", s.newReservation)
	r.POST("/reservations/new", s.createReservation)
	r.GET("/reservations/:reservation_id/edit", s.editReservation)
	r.POST("/reservations/:reservation_id/edit", s.updateReservation)
	r.GET("/reservations/:reservation_id/seat", s.seatForm)
	r.POST("/reservations/:reservation_id/seat", s.seatReservation)
	r.POST("/reservations/:reservation_id/cancel", s.cancelReservation)

	r.GET("/tables/new", s.newTable)
	r.POST("/tables/new", s.createTable)
	r.POST("/tables/:table_id/finish", s.finishTable)
}

type page struct {
	Title        string
	FloorFeedURL string
	Error        string
}

// ReturnTo is where a cancel button on the page comes back to.
type dashboardPage struct {
	page
	*Dashboard
	ReturnTo string
}

type searchPage struct {
	page
	MobileNumber string
	Searched     bool
	Reservations []ReservationRow
	ReturnTo     string
}

type reservationPage struct {
	page
	Action string
	Form   ReservationForm
}

type tablePage struct {
	page
	Form TableForm
}

type seatPage struct {
	page
	*SeatForm
}

func (s *Server) dashboard(c *gin.Context) {
	d, err := LoadDashboard(c.Request.Context(), s.api, c.Query("date"), s.today())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "dashboard", dashboardPage{
		page:      page{Title: "Dashboard", FloorFeedURL: s.floorFeedURL},
		Dashboard: d,
		ReturnTo:  "/dashboard?" + url.Values{"date": {d.Date}}.Encode(),
	})
}

func (s *Server) search(c *gin.Context) {
	mobile := strings.TrimSpace(c.Query("mobile_number"))
	p := searchPage{
		page:         page{Title: "Search"},
		MobileNumber: mobile,
		Searched:     mobile != "",
		ReturnTo:     "/search?" + url.Values{"mobile_number": {mobile}}.Encode(),
	}

	results, err := Search(c.Request.Context(), s.api, mobile)
	if err != nil {
		p.Error = err.Error()
	}
	p.Reservations = results
	c.HTML(http.StatusOK, "search", p)
}

func (s *Server) newReservation(c *gin.Context) {
	c.HTML(http.StatusOK, "reservation_form", reservationPage{
		page:   page{Title: "New Reservation"},
		Action: "/reservations/new",
	})
}

func (s *Server) createReservation(c *gin.Context) {
	var form ReservationForm
	err := bindForm(c, &form)
	var r *models.Reservation
	if err == nil {
		r, err = SubmitReservation(c.Request.Context(), s.api, "", form)
	}
	if err != nil {
		c.HTML(statusFor(err), "reservation_form", reservationPage{
			page:   page{Title: "New Reservation", Error: err.Error()},
			Action: "/reservations/new",
			Form:   form,
		})
		return
	}
	s.toDashboard(c, r.ReservationDate)
}

func (s *Server) editReservation(c *gin.Context) {
	id := c.Param("reservation_id")
	r, err := s.api.ReadReservation(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "reservation_form", reservationPage{
		page:   page{Title: "Edit Reservation"},
		Action: "/reservations/" + url.PathEscape(id) + "/edit",
		Form:   ReservationFormOf(r),
	})
}

func (s *Server) updateReservation(c *gin.Context) {
	id := c.Param("reservation_id")
	var form ReservationForm
	err := bindForm(c, &form)
	var r *models.Reservation
	if err == nil {
		r, err = SubmitReservation(c.Request.Context(), s.api, id, form)
	}
	if err != nil {
		c.HTML(statusFor(err), "reservation_form", reservationPage{
			page:   page{Title: "Edit Reservation", Error: err.Error()},
			Action: "/reservations/" + url.PathEscape(id) + "/edit",
			Form:   form,
		})
		return
	}
	s.toDashboard(c, r.ReservationDate)
}

func (s *Server) seatForm(c *gin.Context) {
	form, err := LoadSeatForm(c.Request.Context(), s.api, c.Param("reservation_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "seat", seatPage{page: page{Title: "Seat Reservation"}, SeatForm: form})
}

func (s *Server) seatReservation(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("reservation_id")

	if err := SubmitSeat(ctx, s.api, id, c.PostForm("table_id")); err != nil {
		form, loadErr := LoadSeatForm(ctx, s.api, id)
		if loadErr != nil {
			s.fail(c, loadErr)
			return
		}
		c.HTML(statusFor(err), "seat", seatPage{
			page:     page{Title: "Seat Reservation", Error: err.Error()},
			SeatForm: form,
		})
		return
	}
	s.toDashboard(c, c.PostForm("date"))
}

// cancelReservation returns to the page the cancel button was on.
func (s *Server) cancelReservation(c *gin.Context) {
	if _, err := CancelReservation(c.Request.Context(), s.api, c.Param("reservation_id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, localPath(c.PostForm("return_to"), "/dashboard"))
}

func (s *Server) newTable(c *gin.Context) {
	c.HTML(http.StatusOK, "table_form", tablePage{page: page{Title: "New Table"}})
}

func (s *Server) createTable(c *gin.Context) {
	var form TableForm
	err := bindForm(c, &form)
	if err == nil {
		_, err = SubmitTable(c.Request.Context(), s.api, form)
	}
	if err != nil {
		c.HTML(statusFor(err), "table_form", tablePage{
			page: page{Title: "New Table", Error: err.Error()},
			Form: form,
		})
		return
	}
	s.toDashboard(c, "")
}

func (s *Server) finishTable(c *gin.Context) {
	date := c.PostForm("date")
	if _, err := FinishTable(c.Request.Context(), s.api, c.Param("table_id"), date, s.today()); err != nil {
		s.fail(c, err)
		return
	}
	s.toDashboard(c, date)
}

// bindForm reads the posted form into dst. A body that cannot be parsed is
// reported like any other rejected form value.
func bindForm(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBind(dst); err != nil {
		utils.InfoLogger.WithField("path", c.Request.URL.Path).Debugf("unreadable form: %v", err)
		return &FormError{Message: "The form could not be read. Please submit it again."}
	}
	return nil
}

func (s *Server) toDashboard(c *gin.Context, date string) {
	target := "/dashboard"
	if date != "" {
		target += "?" + url.Values{"date": {date}}.Encode()
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (s *Server) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		utils.ErrorLogger.WithField("path", c.Request.URL.Path).Errorf("page failed: %v", err)
	}
	c.HTML(code, "error", page{Title: "Error", Error: err.Error()})
}

// statusFor passes 4xx answers from the API through. Rejected form values
// are a 400; API and transport failures a bad gateway.
func statusFor(err error) int {
	var (
		apiErr  *client.APIError
		formErr *FormError
	)
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError:
		return apiErr.StatusCode
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	case errors.Is(err, ErrInvalidDate), errors.As(err, &formErr):
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// localPath keeps redirects on this site.
func localPath(p, fallback string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return fallback
	}
	return p
}
