package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sessionRepo "venuebook/database/repository/session"
	venueRepo "venuebook/database/repository/venue"
	"venuebook/fakeapi"
	"venuebook/handlers"
	"venuebook/middleware"
	"venuebook/models"
	"venuebook/routes"
	"venuebook/services/api"
	"venuebook/services/booking"
	"venuebook/services/session"
	"venuebook/utils"
)

const phone = "+998901234567"

func init() {
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
}

type env struct {
	t       *testing.T
	fake    *fakeapi.Server
	backend *httptest.Server
	repo    *sessionRepo.MemorySessionRepo
	venues  *venueRepo.RedisVenueCache
	router  *gin.Engine
	venue   models.Venue
	cookie  *http.Cookie
	date    string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	fake := fakeapi.New("secret")
	venue := fake.AddVenue(models.Venue{Name: "Arena", Address: "Tashkent", PricePerHour: 10000000, IsActive: true})
	backend := httptest.NewServer(fake.Handler())
	t.Cleanup(backend.Close)

	mr := miniredis.RunT(t)
	cacheClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cacheClient.Close() })

	repo := sessionRepo.NewMemorySessionRepo(time.Hour)
	venues := venueRepo.NewRedisVenueCache(cacheClient, time.Minute)
	hb := &handlers.HandlerBundle{
		Sessions: repo,
		Venues:   venues,
		Flow:     booking.NewBookingFlowService(repo, zap.NewNop()),
		Backend:  session.Config{BaseURL: backend.URL + "/api", HTTPClient: &http.Client{Timeout: 5 * time.Second}},
	}
	r := gin.New()
	r.Use(utils.ErrorHandler(), middleware.RequestLogger(zap.NewNop()))
	routes.RegisterRoutes(r, hb, "*", middleware.BrowserSession(repo, middleware.SessionOptions{
		CookieName: "vb_session", TTL: time.Hour, DefaultLang: "uz",
	}))

	return &env{
		t: t, fake: fake, backend: backend, repo: repo, venues: venues, router: r, venue: venue,
		date: time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
	}
}

// call sends a request as the env's browser, keeping its session cookie.
func (e *env) call(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "vb_session" {
			e.cookie = ck
		}
	}
	return w
}

func (e *env) login() {
	e.t.Helper()
	w := e.call(http.MethodPost, "/api/auth/verify-otp", models.VerifyOTPRequest{PhoneNumber: phone, OTP: fakeapi.OTP})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
}

func (e *env) stored() *sessionRepo.BrowserSession {
	e.t.Helper()
	bs, err := e.repo.Get(context.Background(), e.cookie.Value)
	require.NoError(e.t, err)
	return bs
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestLoginFlow(t *testing.T) {
	e := newEnv(t)

	w := e.call(http.MethodPost, "/api/auth/send-otp", models.SendOTPRequest{PhoneNumber: "90 123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[utils.ErrorResponse](t, w)
	assert.Contains(t, resp.Fields, "phone_number")

	w = e.call(http.MethodPost, "/api/auth/send-otp", models.SendOTPRequest{PhoneNumber: "+998 90 123 45 67"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.call(http.MethodPost, "/api/auth/verify-otp", models.VerifyOTPRequest{PhoneNumber: phone, OTP: "000000"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired OTP.", decode[utils.ErrorResponse](t, w).Message)

	e.login()
	info := decode[map[string]any](t, e.call(http.MethodGet, "/api/session", nil))
	assert.Equal(t, true, info["authenticated"])
	assert.Equal(t, "uz", info["lang"])
	assert.NotEmpty(t, info["access_expires_at"])

	w = e.call(http.MethodPatch, "/api/auth/me", models.UserUpdate{Name: "Aziz"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Aziz", decode[models.User](t, w).Name)

	require.Equal(t, http.StatusOK, e.call(http.MethodPost, "/api/auth/logout", nil).Code)
	assert.True(t, e.stored().Tokens.Empty())
	assert.Equal(t, http.StatusUnauthorized, e.call(http.MethodGet, "/api/auth/me", nil).Code)
}

func TestSelectAndBook(t *testing.T) {
	e := newEnv(t)
	e.login()

	w := e.call(http.MethodGet, "/api/venues/1/availability?date="+e.date, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decode[map[string]any](t, w)
	assert.Len(t, view["slots"], 13)

	e.call(http.MethodPost, "/api/selection/click", gin.H{"start_time": "09:00"})
	w = e.call(http.MethodPost, "/api/selection/click", gin.H{"start_time": "11:00"})
	view = decode[map[string]any](t, w)
	assert.Equal(t, "range", view["kind"])
	assert.Equal(t, "09:00", view["selected_start"])
	assert.Equal(t, "12:00", view["selected_end"])
	assert.Equal(t, "300000.00", view["total_price"])

	w = e.call(http.MethodPost, "/api/bookings", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b := decode[models.Booking](t, w)
	assert.Equal(t, "09:00:00", b.StartTime)
	assert.Equal(t, "12:00:00", b.EndTime)
	assert.Equal(t, models.Amount(30000000), b.TotalPrice)

	view = decode[map[string]any](t, e.call(http.MethodGet, "/api/selection", nil))
	assert.Equal(t, "empty", view["kind"])

	list := decode[models.BookingList](t, e.call(http.MethodGet, "/api/bookings", nil))
	assert.Equal(t, 1, list.Count)

	// The booked hours are now taken.
	e.call(http.MethodGet, "/api/venues/1/availability?date="+e.date, nil)
	w = e.call(http.MethodPost, "/api/selection/click", gin.H{"start_time": "10:00"})
	assert.Equal(t, "empty", decode[map[string]any](t, w)["kind"])
}

func TestBookingRejectedKeepsSelection(t *testing.T) {
	e := newEnv(t)
	e.login()

	e.call(http.MethodGet, "/api/venues/1/availability?date="+e.date, nil)
	e.call(http.MethodPost, "/api/selection/click", gin.H{"start_time": "14:00"})

	// Someone else takes the hour in between.
	other, err := e.fake.IssueTokens("+998907654321")
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPost, e.backend.URL+"/api/bookings/", bytes.NewBufferString(
		`{"venue":1,"booking_date":"`+e.date+`","start_time":"14:00:00","end_time":"15:00:00"}`))
	req.Header.Set("Authorization", "Bearer "+other.Access)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	w := e.call(http.MethodPost, "/api/bookings", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "This time slot is already booked. Please choose a different time.", decode[utils.ErrorResponse](t, w).Message)

	view := decode[map[string]any](t, e.call(http.MethodGet, "/api/selection", nil))
	assert.Equal(t, "single", view["kind"])
	assert.Equal(t, "14:00", view["selected_start"])
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	e := newEnv(t)

	w := e.call(http.MethodPost, "/api/bookings", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", decode[utils.ErrorResponse](t, w).Redirect)

	w = e.call(http.MethodGet, "/api/bookings", nil, "Accept", "text/html")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestExpiredAccessIsRefreshedTransparently(t *testing.T) {
	e := newEnv(t)
	e.login()
	before := e.stored().Tokens

	e.fake.ExpireAccessTokens()
	w := e.call(http.MethodGet, "/api/bookings", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, 1, e.fake.Calls("POST /api/auth/refresh/"))
	assert.Equal(t, 2, e.fake.Calls("GET /api/bookings/"))
	after := e.stored().Tokens
	assert.NotEqual(t, before.Access, after.Access)
	assert.NotEqual(t, before.Refresh, after.Refresh)
}

func TestParallelExpiredCallsKeepSession(t *testing.T) {
	e := newEnv(t)
	e.login()
	e.fake.ExpireAccessTokens()

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			req.AddCookie(e.cookie)
			w := httptest.NewRecorder()
			e.router.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, codes)
	assert.False(t, e.stored().Tokens.Empty())
	assert.Equal(t, http.StatusOK, e.call(http.MethodGet, "/api/auth/me", nil).Code)
}

func TestInvalidRefreshEndsSession(t *testing.T) {
	e := newEnv(t)
	e.login()

	e.fake.ExpireAccessTokens()
	e.fake.RevokeRefresh(e.stored().Tokens.Refresh)

	w := e.call(http.MethodGet, "/api/bookings", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", decode[utils.ErrorResponse](t, w).Redirect)
	assert.True(t, e.stored().Tokens.Empty())

	info := decode[map[string]any](t, e.call(http.MethodGet, "/api/session", nil))
	assert.Equal(t, false, info["authenticated"])
}

func TestVenueDetail(t *testing.T) {
	e := newEnv(t)

	for i := 0; i < 2; i++ {
		w := e.call(http.MethodGet, "/api/venues/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Arena", decode[models.Venue](t, w).Name)
	}
	assert.Equal(t, 1, e.fake.Calls("GET /api/venues/:id/"), "second read comes from the cache")

	w := e.call(http.MethodGet, "/api/venues/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "/venues", decode[utils.ErrorResponse](t, w).Redirect)

	w = e.call(http.MethodGet, "/api/venues/99", nil, "Accept", "text/html")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/venues", w.Header().Get("Location"))

	page := decode[models.VenuePage](t, e.call(http.MethodGet, "/api/venues?search=aren&page=1", nil))
	assert.Equal(t, 1, page.Count)
}

func TestVenueNotFoundDropsCachedCopies(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.venues.Set(ctx, "ru", &models.Venue{ID: 99, Name: "Closed arena"}))

	w := e.call(http.MethodGet, "/api/venues/99", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	_, err := e.venues.Get(ctx, "ru", 99)
	assert.ErrorIs(t, err, venueRepo.ErrCacheMiss)
}

func TestCancelBooking(t *testing.T) {
	e := newEnv(t)
	e.login()

	e.call(http.MethodGet, "/api/venues/1/availability?date="+e.date, nil)
	e.call(http.MethodPost, "/api/selection/click", gin.H{"start_time": "18:00"})
	b := decode[models.Booking](t, e.call(http.MethodPost, "/api/bookings", nil))

	require.True(t, e.fake.SetBookingStatus(b.ID, models.BookingCompleted))
	w := e.call(http.MethodPatch, "/api/bookings/1/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, e.fake.Calls("PATCH /api/bookings/:id/cancel/"))

	require.True(t, e.fake.SetBookingStatus(b.ID, models.BookingConfirmed))
	w = e.call(http.MethodPatch, "/api/bookings/1/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.BookingCancelled, decode[models.Booking](t, w).Status)

	w = e.call(http.MethodGet, "/api/bookings/77", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "/my-bookings", decode[utils.ErrorResponse](t, w).Redirect)
}

func TestLanguageSwitch(t *testing.T) {
	e := newEnv(t)

	w := e.call(http.MethodPut, "/api/lang", gin.H{"lang": "ru"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ru", e.stored().Lang)

	w = e.call(http.MethodPost, "/api/selection/click", gin.H{"start_time": "09:00"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Сначала выберите дату", decode[utils.ErrorResponse](t, w).Message)

	assert.Equal(t, http.StatusBadRequest, e.call(http.MethodPut, "/api/lang", gin.H{"lang": "de"}).Code)
}

func TestBackendUnreachable(t *testing.T) {
	e := newEnv(t)
	e.backend.Close()

	w := e.call(http.MethodGet, "/api/venues", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, api.GenericMessage("uz"), decode[utils.ErrorResponse](t, w).Message)
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	w := e.call(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[utils.HealthStatus](t, w).Status)
}
