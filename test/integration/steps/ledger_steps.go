package steps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/contacerta/backend/internal/integration/entrypoint/dto"
)

const defaultPassword = "s3cret-pass"

// call sends an authenticated JSON request outside the scenario's response
// slot and decodes the reply into out.
func (t *testContext) call(method, path string, payload, out any, expectedStatus int) error {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, t.uri+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != expectedStatus {
		var apiErr dto.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s %s: expected status %d, got %d (%s %s)", method, path, expectedStatus, resp.StatusCode, apiErr.Code, apiErr.Error)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (t *testContext) register(email string) (*dto.AuthResponse, error) {
	var auth dto.AuthResponse
	err := t.call(http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Email:    email,
		Name:     "Test User",
		Password: defaultPassword,
	}, &auth, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

func (t *testContext) iAmRegisteredAs(email string) error {
	t.accessToken = ""
	auth, err := t.register(email)
	if err != nil {
		return err
	}

	t.accessToken = auth.AccessToken
	t.refreshToken = auth.RefreshToken
	t.saved["user_id"] = auth.User.ID
	return nil
}

func (t *testContext) anotherUserIsRegisteredAs(email, name string) error {
	token := t.accessToken
	t.accessToken = ""
	defer func() { t.accessToken = token }()

	auth, err := t.register(email)
	if err != nil {
		return err
	}
	t.saved[name] = auth.User.ID
	return nil
}

func (t *testContext) iHaveACard(bank, lastFour, limit, name string) error {
	totalLimit, err := decimal.NewFromString(limit)
	if err != nil {
		return err
	}

	var card dto.CardResponse
	err = t.call(http.MethodPost, "/api/v1/cards", dto.CreateCardRequest{
		Bank:           bank,
		LastFourDigits: lastFour,
		TotalLimit:     totalLimit,
	}, &card, http.StatusCreated)
	if err != nil {
		return err
	}
	t.saved[name] = card.ID
	return nil
}

func (t *testContext) iHaveACategory(categoryName, name string) error {
	var category dto.CategoryResponse
	err := t.call(http.MethodPost, "/api/v1/categories", dto.CreateCategoryRequest{
		Name: categoryName,
	}, &category, http.StatusCreated)
	if err != nil {
		return err
	}
	t.saved[name] = category.ID
	return nil
}

func (t *testContext) theResponseFieldShouldEqualTheAmount(field, amount string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}
	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return equalAmounts(fmt.Sprintf("%v", value), amount)
}

func equalAmounts(actual, expected string) error {
	got, err := decimal.NewFromString(actual)
	if err != nil {
		return fmt.Errorf("'%s' is not an amount: %w", actual, err)
	}
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return err
	}
	if !got.Equal(want) {
		return fmt.Errorf("expected amount %s, got %s", want, got)
	}
	return nil
}

func (t *testContext) theCardShouldHaveRemainingLimit(name, limit string) error {
	var card dto.CardResponse
	if err := t.call(http.MethodGet, "/api/v1/cards/"+t.saved[name], nil, &card, http.StatusOK); err != nil {
		return err
	}
	return equalAmounts(card.RemainingLimit.String(), limit)
}

func (t *testContext) cardInvoices(name string) ([]dto.InvoiceResponse, error) {
	var list dto.InvoiceListResponse
	if err := t.call(http.MethodGet, "/api/v1/cards/"+t.saved[name]+"/invoices", nil, &list, http.StatusOK); err != nil {
		return nil, err
	}
	return list.Invoices, nil
}

func (t *testContext) theCardShouldHaveInvoices(name string, quantity int) error {
	invoices, err := t.cardInvoices(name)
	if err != nil {
		return err
	}
	if len(invoices) != quantity {
		return fmt.Errorf("expected %d invoices on card %s, got %d", quantity, name, len(invoices))
	}
	return nil
}

func (t *testContext) theInvoiceOfCardForShouldTotal(name, referenceMonth, total string) error {
	invoices, err := t.cardInvoices(name)
	if err != nil {
		return err
	}
	for _, invoice := range invoices {
		if invoice.ReferenceMonth == referenceMonth {
			return equalAmounts(invoice.TotalAmount.String(), total)
		}
	}
	return fmt.Errorf("card %s has no invoice for %s", name, referenceMonth)
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return t.countRows(quantity, table, nil)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}
	return t.countRows(quantity, table, criteria)
}

func (t *testContext) countRows(quantity int, table string, criteria map[string]any) error {
	entity, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	if count := entitySlicePtr.Elem().Len(); count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}
