package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	accountrepo "github.com/smallbiznis/garagebook/internal/account/repository"
	accountservice "github.com/smallbiznis/garagebook/internal/account/service"
	attachmentrepo "github.com/smallbiznis/garagebook/internal/attachment/repository"
	attachmentservice "github.com/smallbiznis/garagebook/internal/attachment/service"
	"github.com/smallbiznis/garagebook/internal/auth"
	"github.com/smallbiznis/garagebook/internal/clock"
	"github.com/smallbiznis/garagebook/internal/config"
	customerrepo "github.com/smallbiznis/garagebook/internal/customer/repository"
	customerservice "github.com/smallbiznis/garagebook/internal/customer/service"
	dashboardservice "github.com/smallbiznis/garagebook/internal/dashboard/service"
	invoicerepo "github.com/smallbiznis/garagebook/internal/invoice/repository"
	invoiceservice "github.com/smallbiznis/garagebook/internal/invoice/service"
	jobitemrepo "github.com/smallbiznis/garagebook/internal/jobitem/repository"
	jobitemservice "github.com/smallbiznis/garagebook/internal/jobitem/service"
	jobsheetrepo "github.com/smallbiznis/garagebook/internal/jobsheet/repository"
	jobsheetservice "github.com/smallbiznis/garagebook/internal/jobsheet/service"
	"github.com/smallbiznis/garagebook/internal/observability"
	"github.com/smallbiznis/garagebook/internal/providers/pdf"
	"github.com/smallbiznis/garagebook/internal/ratelimit"
	"github.com/smallbiznis/garagebook/internal/testutil"
	vehiclerepo "github.com/smallbiznis/garagebook/internal/vehicle/repository"
	vehicleservice "github.com/smallbiznis/garagebook/internal/vehicle/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "server-test-secret"

type testServer struct {
	*testutil.Fixture
	engine *gin.Engine
	srv    *Server
}

// newTestServer wires the real services over an in-memory database.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := testutil.New(t)
	log := zap.NewNop()
	clk := clock.NewFakeClock(testutil.Now)
	invoicing := config.NewStaticInvoicingConfig(config.DefaultInvoicingConfig())

	accounts := accountrepo.Provide()
	customers := customerrepo.Provide()
	vehicles := vehiclerepo.Provide()
	sheets := jobsheetrepo.Provide()
	items := jobitemrepo.Provide()

	accountSvc := accountservice.New(accountservice.Params{DB: f.DB, Log: log, Clock: clk, Repo: accounts})

	engine := NewEngine(observability.Config{}, nil)
	srv := NewServer(ServerParams{
		Gin:        engine,
		Verifier:   auth.NewHS256Verifier(auth.Options{Secret: testSecret, Audience: "authenticated"}),
		AccountSvc: accountSvc,
		CustomerSvc: customerservice.New(customerservice.Params{
			DB: f.DB, Log: log, GenID: f.GenID, Clock: clk, Repo: customers,
		}),
		VehicleSvc: vehicleservice.New(vehicleservice.Params{
			DB: f.DB, Log: log, GenID: f.GenID, Clock: clk, Repo: vehicles, CustomerRepo: customers,
		}),
		JobSheetSvc: jobsheetservice.New(jobsheetservice.Params{
			DB: f.DB, Log: log, GenID: f.GenID, Clock: clk, Repo: sheets, CustomerRepo: customers, VehicleRepo: vehicles,
		}),
		JobItemSvc: jobitemservice.New(jobitemservice.Params{
			DB: f.DB, Log: log, GenID: f.GenID, Clock: clk, Invoicing: invoicing, Repo: items, JobSheetRepo: sheets,
		}),
		AttachmentSvc: attachmentservice.New(attachmentservice.Params{
			DB: f.DB, Log: log, GenID: f.GenID, Clock: clk, Repo: attachmentrepo.Provide(), JobSheetRepo: sheets,
		}),
		InvoiceSvc: invoiceservice.New(invoiceservice.Params{
			DB:        f.DB,
			Log:       log,
			GenID:     f.GenID,
			Clock:     clk,
			Invoicing: invoicing,
			Renderer: pdf.New(pdf.Params{
				Log:       log,
				Invoicing: invoicing,
				Loader:    pdf.NewHTTPLogoLoader(time.Second),
			}),
			Repo:         invoicerepo.Provide(),
			AccountSvc:   accountSvc,
			AccountRepo:  accounts,
			JobSheetRepo: sheets,
			JobItemRepo:  items,
			CustomerRepo: customers,
			VehicleRepo:  vehicles,
		}),
		DashboardSvc: dashboardservice.NewService(dashboardservice.Params{DB: f.DB, Log: log, JobSheetRepo: sheets}),
	})

	return &testServer{Fixture: f, engine: engine, srv: srv}
}

func token(t *testing.T, accountID uuid.UUID) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Email: "owner@garage.test",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (ts *testServer) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *errorPayload   `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var out envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data), rec.Body.String())
	return data
}

// mustCreate posts body and returns the created record's id.
func (ts *testServer) mustCreate(t *testing.T, path, bearer string, body any) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, path, bearer, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id, ok := decodeData(t, rec)["id"].(string)
	require.True(t, ok, rec.Body.String())
	return id
}

// seedSheet creates a customer, vehicle and job sheet through the API.
func (ts *testServer) seedSheet(t *testing.T, bearer string, exempt bool) (customerID, vehicleID, sheetID string) {
	t.Helper()
	customerID = ts.mustCreate(t, "/api/customers", bearer, map[string]any{
		"name": "Jane Driver", "phone": "07700 900123",
	})
	vehicleID = ts.mustCreate(t, "/api/vehicles", bearer, map[string]any{
		"customerId": customerID, "registration": "ab12 cde", "make": "Ford", "model": "Focus",
		"mileage": 42000, "fuelType": "Petrol",
	})
	sheetID = ts.mustCreate(t, "/api/job-sheets", bearer, map[string]any{
		"customerId": customerID, "vehicleId": vehicleID, "reportedProblems": "Brakes squeal",
		"isVatExempt": exempt,
	})
	return customerID, vehicleID, sheetID
}

type fakeLimiter struct {
	allowed    bool
	retryAfter time.Duration
	err        error
	calls      int
}

func (f *fakeLimiter) Enabled() bool { return true }

func (f *fakeLimiter) Allow(ctx context.Context, accountID uuid.UUID) (ratelimit.Result, error) {
	f.calls++
	return ratelimit.Result{Allowed: f.allowed, Limit: 30, RetryAfter: f.retryAfter}, f.err
}
