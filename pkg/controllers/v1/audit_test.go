package v1_test

import (
	"fmt"
	"net/http"

	"github.com/envelope-zero/payday/internal/types"
	v1 "github.com/envelope-zero/payday/pkg/controllers/v1"
	"github.com/envelope-zero/payday/pkg/models"
	"github.com/envelope-zero/payday/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestGetAuditRecords() {
	income := suite.createTestIncomeEvent("Salary", "2000", types.NewDate(2024, 3, 1))
	payment := suite.createTestPayment("1000", models.PaymentScheduled)
	first := suite.createTestAttribution(payment, income, "400")
	second := suite.createTestAttribution(payment, income, "100")

	recorder := suite.request(http.MethodDelete, fmt.Sprintf("/v1/attributions/%s", first.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = suite.request(http.MethodGet, "/v1/audit-records", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AuditRecordListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 3)

	recorder = suite.request(http.MethodGet, fmt.Sprintf("/v1/audit-records?entity=%s", first.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 2)
	assert.Equal(suite.T(), models.AuditDelete, response.Data[0].Action)
	assert.Equal(suite.T(), models.AuditCreate, response.Data[1].Action)
	assert.Equal(suite.T(), suite.actor, response.Data[0].ActorID)
	assert.Equal(suite.T(), "400.00", response.Data[0].OldValues["amount"])

	recorder = suite.request(http.MethodGet, fmt.Sprintf("/v1/audit-records?entity=%s", second.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)

	recorder = suite.request(http.MethodGet, "/v1/audit-records?entityType=attribution&limit=1", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)

	recorder = suite.request(http.MethodGet, "/v1/audit-records?entityType=payment", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	assert.JSONEq(suite.T(), `{"data":[]}`, recorder.Body.String())
}

func (suite *TestSuiteStandard) TestGetAuditRecordsFamilyScope() {
	income := suite.createTestIncomeEvent("Salary", "2000", types.NewDate(2024, 3, 1))
	payment := suite.createTestPayment("1000", models.PaymentScheduled)
	_ = suite.createTestAttribution(payment, income, "400")

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/audit-records", "", map[string]string{
		"X-Family-ID": uuid.New().String(),
		"X-Actor-ID":  suite.actor.String(),
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	assert.JSONEq(suite.T(), `{"data":[]}`, recorder.Body.String())
}

func (suite *TestSuiteStandard) TestGetAuditRecordsErrors() {
	tests := []struct {
		name  string
		query string
	}{
		{"Invalid entity", "entity=attribution"},
		{"Invalid limit", "limit=many"},
	}

	for _, tt := range tests {
		recorder := suite.request(http.MethodGet, "/v1/audit-records?"+tt.query, "")
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	}

	recorder := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/audit-records", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetAuditRecordsDatabaseError() {
	suite.CloseDB()

	recorder := suite.request(http.MethodGet, "/v1/audit-records", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}
