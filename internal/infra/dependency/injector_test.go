package dependency_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contacerta/backend/config"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/infra/db"
	"github.com/contacerta/backend/internal/infra/dependency"
	"github.com/contacerta/backend/internal/integration/entrypoint/dto"
)

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{Environment: "test"},
		Database: config.DatabaseConfig{Driver: db.DriverSQLite, URL: "file::memory:"},
		JWT:      config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: time.Minute, RefreshTokenExpiry: time.Hour},
		Billing:  config.BillingConfig{BillingDay: 6, LimitPolicy: "reject"},
	}

	database, err := db.NewConnection(&cfg.Database)
	require.NoError(t, err)
	require.NoError(t, database.Migrate())
	t.Cleanup(func() { _ = database.Close() })

	server := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	injector := dependency.NewInjector(cfg, database, redisClient)
	t.Cleanup(func() { _ = injector.Close() })

	return &apiClient{t: t, engine: injector.Router.Setup(cfg.Server.Environment)}
}

func (c *apiClient) do(method, path string, body any, out any) int {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.engine.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func (c *apiClient) register(email string) dto.AuthResponse {
	c.t.Helper()
	var auth dto.AuthResponse
	status := c.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    email,
		"name":     "Ana",
		"password": "s3cret-pass",
	}, &auth)
	require.Equal(c.t, http.StatusCreated, status)
	c.token = auth.AccessToken
	return auth
}

func TestHealth(t *testing.T) {
	api := newAPI(t)

	var health map[string]string
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", nil, &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "connected", health["database"])
	assert.Equal(t, "connected", health["cache"])
}

func TestAuthFlow(t *testing.T) {
	api := newAPI(t)
	registered := api.register("ana@example.com")

	var duplicate dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "ana@example.com", "name": "Ana", "password": "s3cret-pass",
	}, &duplicate))
	assert.Equal(t, string(domainerror.ErrCodeEmailExists), duplicate.Code)

	var login dto.AuthResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "ana@example.com", "password": "s3cret-pass",
	}, &login))
	assert.Equal(t, registered.User.ID, login.User.ID)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "ana@example.com", "password": "wrong-password",
	}, nil))

	var refreshed dto.TokenResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": login.RefreshToken,
	}, &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)

	// The used refresh token was rotated out
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": login.RefreshToken,
	}, nil))

	var logout dto.MessageResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/v1/auth/logout", map[string]string{
		"refresh_token": refreshed.RefreshToken,
	}, &logout))
	assert.Equal(t, "Successfully logged out", logout.Message)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": refreshed.RefreshToken,
	}, nil))

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/v1/auth/logout", map[string]string{
		"refresh_token": refreshed.RefreshToken,
	}, &logout))
	assert.Equal(t, "Session already ended", logout.Message)

	var weak dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "bia@example.com", "name": "Bia", "password": "1234567",
	}, &weak))
	assert.Equal(t, string(domainerror.ErrCodeWeakPassword), weak.Code)
	assert.Contains(t, weak.Error, "at least 8 characters")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newAPI(t)

	for _, path := range []string{"/api/v1/cards", "/api/v1/expenses", "/api/v1/categories"} {
		var body dto.ErrorResponse
		assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, path, nil, &body), path)
		assert.Equal(t, string(domainerror.ErrCodeMissingToken), body.Code, path)
	}
}

func TestExpenseLifecycleOverHTTP(t *testing.T) {
	api := newAPI(t)
	api.register("ana@example.com")

	var card dto.CardResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/cards", map[string]any{
		"bank":             "Nubank",
		"last_four_digits": "1234",
		"total_limit":      "5000",
	}, &card))
	assert.True(t, card.RemainingLimit.Equal(decimal.NewFromInt(5000)))

	var created dto.ExpenseResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/expenses", map[string]any{
		"amount":            "1000",
		"description":       "Notebook",
		"date":              "2024-01-10",
		"payment_method":    "CREDIT",
		"installment_count": 3,
		"card_id":           card.ID,
	}, &created))
	require.Len(t, created.Installments, 3)
	assert.Equal(t, "333.33", created.Installments[0].Amount.StringFixed(2))
	assert.Equal(t, "333.33", created.Installments[1].Amount.StringFixed(2))
	assert.Equal(t, "333.34", created.Installments[2].Amount.StringFixed(2))
	assert.Len(t, created.InvoiceIDs, 3)

	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/cards/"+card.ID, nil, &card))
	assert.Equal(t, "4000.00", card.RemainingLimit.StringFixed(2))
	assert.Equal(t, "1000.00", card.UsedLimit.StringFixed(2))

	var invoices dto.InvoiceListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/cards/"+card.ID+"/invoices", nil, &invoices))
	require.Len(t, invoices.Invoices, 3)

	var invoice dto.InvoiceDetailResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/invoices/"+invoices.Invoices[0].ID, nil, &invoice))
	require.Len(t, invoice.Installments, 1)
	assert.True(t, invoice.TotalAmount.Equal(invoice.Installments[0].Amount))

	var rejected dto.ErrorResponse
	assert.Equal(t, http.StatusUnprocessableEntity, api.do(http.MethodPost, "/api/v1/expenses", map[string]any{
		"amount":         "4000.01",
		"description":    "Too much",
		"date":           "2024-01-11",
		"payment_method": "CREDIT",
		"card_id":        card.ID,
	}, &rejected))
	assert.Equal(t, string(domainerror.ErrCodeInsufficientLimit), rejected.Code)

	var list dto.ExpenseListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/expenses?cardId="+card.ID, nil, &list))
	assert.Len(t, list.Expenses, 1)

	var inUse dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, api.do(http.MethodDelete, "/api/v1/cards/"+card.ID, nil, &inUse))
	assert.Equal(t, string(domainerror.ErrCodeCardInUse), inUse.Code)

	require.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/v1/expenses/"+created.ID, nil, nil))
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/cards/"+card.ID, nil, &card))
	assert.Equal(t, "5000.00", card.RemainingLimit.StringFixed(2))

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/v1/expenses/"+created.ID, nil, nil))
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/v1/cards/"+card.ID, nil, nil))
}

func TestExpenseValidationOverHTTP(t *testing.T) {
	api := newAPI(t)
	api.register("ana@example.com")

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{
			name: "credit without card",
			body: map[string]any{
				"amount": "10", "description": "Coffee", "date": "2024-01-10", "payment_method": "CREDIT",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   string(domainerror.ErrCodeCardRequired),
		},
		{
			name: "non positive amount",
			body: map[string]any{
				"amount": "0", "description": "Coffee", "date": "2024-01-10", "payment_method": "CASH",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   string(domainerror.ErrCodeInvalidExpenseAmount),
		},
		{
			name: "malformed date",
			body: map[string]any{
				"amount": "10", "description": "Coffee", "date": "10/01/2024", "payment_method": "CASH",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   string(domainerror.ErrCodeInvalidExpenseDate),
		},
		{
			name: "unknown payment method",
			body: map[string]any{
				"amount": "10", "description": "Coffee", "date": "2024-01-10", "payment_method": "BOLETO",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   string(domainerror.ErrCodeMissingExpenseFields),
		},
		{
			name: "installment count above maximum",
			body: map[string]any{
				"amount": "10000000", "description": "Casa", "date": "2024-01-10", "payment_method": "CREDIT",
				"installment_count": 49, "card_id": "6f1c2a9e-1b7d-4c57-9a43-0d2f4e8b7c11",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   string(domainerror.ErrCodeMissingExpenseFields),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body dto.ErrorResponse
			assert.Equal(t, tt.wantStatus, api.do(http.MethodPost, "/api/v1/expenses", tt.body, &body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/v1/expenses/not-a-uuid", nil, nil))
}

func TestCategoriesOverHTTP(t *testing.T) {
	api := newAPI(t)
	api.register("ana@example.com")

	var category dto.CategoryResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/categories", map[string]any{
		"name": "Food", "color": "#FF5733",
	}, &category))

	assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/v1/categories", map[string]any{
		"name": "Food",
	}, nil))

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/expenses", map[string]any{
		"amount": "42.50", "description": "Lunch", "date": "2024-01-10", "payment_method": "PIX",
		"category_id": category.ID,
	}, nil))

	var list dto.CategoryListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/categories?startDate=2024-01-01&endDate=2024-01-31", nil, &list))
	require.Len(t, list.Categories, 1)
	assert.Equal(t, 1, list.Categories[0].ExpenseCount)
	assert.Equal(t, "42.50", list.Categories[0].PeriodTotal.StringFixed(2))

	renamed := "Groceries"
	require.Equal(t, http.StatusOK, api.do(http.MethodPatch, "/api/v1/categories/"+category.ID, map[string]any{
		"name": renamed,
	}, &category))
	assert.Equal(t, renamed, category.Name)

	require.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/v1/categories/"+category.ID, nil, nil))

	var expenses dto.ExpenseListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/expenses", nil, &expenses))
	require.Len(t, expenses.Expenses, 1)
	assert.Nil(t, expenses.Expenses[0].CategoryID)
}

func TestSplitExpenseOverHTTP(t *testing.T) {
	api := newAPI(t)
	friend := api.register("bia@example.com")
	api.register("ana@example.com")

	var split dto.SplitExpenseResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/expenses/split", map[string]any{
		"amount":          "100",
		"description":     "Dinner",
		"date":            "2024-01-10",
		"payment_method":  "PIX",
		"participant_ids": []string{friend.User.ID},
	}, &split))
	require.Len(t, split.Expenses, 2)
	assert.Equal(t, "50.00", split.Expenses[0].Amount.StringFixed(2))
	assert.Equal(t, "CASH", split.Expenses[1].PaymentMethod)
	assert.Equal(t, split.SplitGroupID, *split.Expenses[0].SplitGroupID)
}

func TestInstallmentsOverHTTP(t *testing.T) {
	api := newAPI(t)
	api.register("ana@example.com")

	var card dto.CardResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/cards", map[string]any{
		"bank":             "Inter",
		"last_four_digits": "9876",
		"total_limit":      "3000",
	}, &card))

	var created dto.ExpenseResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/expenses", map[string]any{
		"amount":            "600",
		"description":       "Bicicleta",
		"date":              "2024-03-02",
		"payment_method":    "CREDIT",
		"installment_count": 2,
		"card_id":           card.ID,
	}, &created))

	var list dto.InstallmentListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/expenses/"+created.ID+"/installments", nil, &list))
	require.Len(t, list.Installments, 2)
	assert.Equal(t, created.ID, list.ExpenseID)
	assert.False(t, list.Installments[0].Paid)

	var paid dto.InstallmentResponse
	path := "/api/v1/installments/" + list.Installments[0].ID
	require.Equal(t, http.StatusOK, api.do(http.MethodPatch, path, map[string]any{"paid": true}, &paid))
	assert.True(t, paid.Paid)
	assert.Equal(t, 1, paid.Number)
	require.NotNil(t, paid.InvoiceID)

	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/expenses/"+created.ID+"/installments", nil, &list))
	assert.True(t, list.Installments[0].Paid)
	assert.False(t, list.Installments[1].Paid)

	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/cards/"+card.ID, nil, &card))
	assert.Equal(t, "2400.00", card.RemainingLimit.StringFixed(2))

	var bad dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPatch, path, map[string]any{}, &bad))
	assert.Equal(t, string(domainerror.ErrCodeMissingExpenseFields), bad.Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPatch, "/api/v1/installments/not-a-uuid", map[string]any{"paid": true}, nil))

	var missing dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPatch, "/api/v1/installments/"+created.ID, map[string]any{"paid": true}, &missing))
	assert.Equal(t, string(domainerror.ErrCodeInstallmentMissing), missing.Code)

	api.register("bia@example.com")
	var forbidden dto.ErrorResponse
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPatch, path, map[string]any{"paid": false}, &forbidden))
	assert.Equal(t, string(domainerror.ErrCodeNotAuthorizedExpense), forbidden.Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/v1/expenses/"+created.ID+"/installments", nil, nil))
}
