package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/envelope-zero/payday/internal/types"
	v1 "github.com/envelope-zero/payday/pkg/controllers/v1"
	"github.com/envelope-zero/payday/pkg/models"
	"github.com/envelope-zero/payday/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCreateAttribution() {
	income := suite.createTestIncomeEvent("Salary", "2000", types.NewDate(2024, 3, 1))
	payment := suite.createTestPayment("1000", models.PaymentScheduled)

	a := suite.createTestAttribution(payment, income, "500")
	assert.Equal(suite.T(), "500.00", a.Amount.String())
	assert.Equal(suite.T(), models.AttributionManual, a.Type)
	assert.Equal(suite.T(), suite.actor, a.CreatedBy)
	assert.Equal(suite.T(), models.AttributionLive, a.State)

	reloaded := suite.reloadIncomeEvent(income)
	assert.Equal(suite.T(), "500.00", reloaded.AllocatedAmount.String())
	assert.Equal(suite.T(), "1500.00", reloaded.RemainingAmount.String())
}

func (suite *TestSuiteStandard) TestCreateAttributionErrors() {
	income := suite.createTestIncomeEvent("Salary", "2000", types.NewDate(2024, 3, 1))
	payment := suite.createTestPayment("1000", models.PaymentScheduled)
	_ = suite.createTestAttribution(payment, income, "600")

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Payment capacity", v1.AttributionCreate{PaymentID: payment.ID, IncomeEventID: income.ID, Amount: money("500")}, http.StatusUnprocessableEntity},
		{"Zero amount", v1.AttributionCreate{PaymentID: payment.ID, IncomeEventID: income.ID, Amount: money("0")}, http.StatusBadRequest},
		{"Unknown type", v1.AttributionCreate{PaymentID: payment.ID, IncomeEventID: income.ID, Amount: money("5"), AttributionType: "magic"}, http.StatusBadRequest},
		{"Unknown payment", v1.AttributionCreate{PaymentID: uuid.New(), IncomeEventID: income.ID, Amount: money("5")}, http.StatusNotFound},
		{"Unknown income event", v1.AttributionCreate{PaymentID: payment.ID, IncomeEventID: uuid.New(), Amount: money("5")}, http.StatusNotFound},
		{"Broken JSON", `{ "amount": `, http.StatusBadRequest},
		{"Invalid amount", `{ "amount": "five" }`, http.StatusBadRequest},
		{"Empty body", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := suite.request(http.MethodPost, "/v1/attributions", tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)
			assert.NotEmpty(t, test.DecodeError(t, &recorder))
		})
	}

	assert.Equal(suite.T(), "1400.00", suite.reloadIncomeEvent(income).RemainingAmount.String(), "Failed requests must not change the income event")
}

func (suite *TestSuiteStandard) TestCreateAttributionScope() {
	income := suite.createTestIncomeEvent("Salary", "2000", types.NewDate(2024, 3, 1))
	payment := suite.createTestPayment("1000", models.PaymentScheduled)
	body := v1.AttributionCreate{PaymentID: payment.ID, IncomeEventID: income.ID, Amount: money("5")}

	tests := []struct {
		name    string
		headers map[string]string
		status  int
	}{
		{"No headers", map[string]string{}, http.StatusBadRequest},
		{"Invalid actor", map[string]string{"X-Family-ID": suite.family.ID.String(), "X-Actor-ID": "me"}, http.StatusBadRequest},
		{"Other family", map[string]string{"X-Family-ID": uuid.New().String(), "X-Actor-ID": suite.actor.String()}, http.StatusNotFound},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/v1/attributions", body, tt.headers)
		test.AssertHTTPStatus(suite.T(), &recorder, tt.status)
	}
}

func (suite *TestSuiteStandard) TestGetAttribution() {
	income := suite.createTestIncomeEvent("Salary", "2000", types.NewDate(2024, 3, 1))
	payment := suite.createTestPayment("1000", models.PaymentScheduled)
	a := suite.createTestAttribution(payment, income, "500")

	recorder := suite.request(http.MethodGet, fmt.Sprintf("/v1/attributions/%s", a.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AttributionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), a.ID, response.Data.ID)
	assert.Equal(suite.T(), "500.00", response.Data.Amount.String())

	recorder = suite.request(http.MethodGet, "/v1/attributions/not-a-uuid", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	recorder = suite.request(http.MethodGet, fmt.Sprintf("/v1/attributions/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestUpdateAttribution() {
	income := suite.createTestIncomeEvent("Salary", "1500", types.NewDate(2024, 3, 1))
	payment := suite.createTestPayment("1000", models.PaymentScheduled)
	a := suite.createTestAttribution(payment, income, "500")

	recorder := suite.request(http.MethodPatch, fmt.Sprintf("/v1/attributions/%s", a.ID), v1.AttributionUpdate{Amount: money("600")})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AttributionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), "600.00", response.Data.Amount.String())
	assert.Equal(suite.T(), "900.00", suite.reloadIncomeEvent(income).RemainingAmount.String())

	recorder = suite.request(http.MethodPatch, fmt.Sprintf("/v1/attributions/%s", a.ID), v1.AttributionUpdate{Amount: money("1000.01")})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnprocessableEntity)

	recorder = suite.request(http.MethodPatch, fmt.Sprintf("/v1/attributions/%s", a.ID), v1.AttributionUpdate{Amount: money("-1")})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestDeleteAttribution() {
	income := suite.createTestIncomeEvent("Salary", "2000", types.NewDate(2024, 3, 1))
	payment := suite.createTestPayment("1000", models.PaymentScheduled)
	a := suite.createTestAttribution(payment, income, "500")

	recorder := suite.request(http.MethodDelete, fmt.Sprintf("/v1/attributions/%s", a.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AttributionDeleteResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), models.AttributionDeleted, response.Data.State)
	assert.NotNil(suite.T(), response.Data.DeletedAt)
	assert.Equal(suite.T(), suite.actor, *response.Data.DeletedBy)
	assert.NotNil(suite.T(), response.Warnings)
	assert.Len(suite.T(), response.Warnings, 0)
	assert.Equal(suite.T(), "2000.00", suite.reloadIncomeEvent(income).RemainingAmount.String())

	// Tombstoned attributions can still be read
	recorder = suite.request(http.MethodGet, fmt.Sprintf("/v1/attributions/%s", a.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = suite.request(http.MethodDelete, fmt.Sprintf("/v1/attributions/%s", a.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)

	recorder = suite.request(http.MethodPatch, fmt.Sprintf("/v1/attributions/%s", a.ID), v1.AttributionUpdate{Amount: money("5")})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestDeleteAttributionPaid() {
	income := suite.createTestIncomeEvent("Salary", "2000", types.NewDate(2024, 3, 1))
	payment := suite.createTestPayment("1000", models.PaymentPaid)
	a := suite.createTestAttribution(payment, income, "500")

	recorder := suite.request(http.MethodDelete, fmt.Sprintf("/v1/attributions/%s", a.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AttributionDeleteResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Warnings, 1)
}

func (suite *TestSuiteStandard) TestAttributionDatabaseError() {
	id := uuid.New()
	suite.CloseDB()

	recorder := suite.request(http.MethodGet, fmt.Sprintf("/v1/attributions/%s", id), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
	assert.Contains(suite.T(), test.DecodeError(suite.T(), &recorder), models.ErrGeneral.Error())
}

func (suite *TestSuiteStandard) TestAttributionOptions() {
	recorder := suite.request(http.MethodOptions, "/v1/attributions", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, POST", recorder.Header().Get("allow"))

	recorder = suite.request(http.MethodOptions, fmt.Sprintf("/v1/attributions/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET, PATCH, DELETE", recorder.Header().Get("allow"))

	recorder = suite.request(http.MethodPut, fmt.Sprintf("/v1/attributions/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusMethodNotAllowed)
}
