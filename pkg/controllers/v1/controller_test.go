package v1_test

import (
	"net/http"

	v1 "github.com/envelope-zero/payday/pkg/controllers/v1"
	"github.com/envelope-zero/payday/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestGet() {
	recorder := suite.request(http.MethodGet, "/v1", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.Response
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), "http://example.com/v1/attributions", response.Links.Attributions)
	assert.Equal(suite.T(), "http://example.com/v1/audit-records", response.Links.AuditRecords)
}

func (suite *TestSuiteStandard) TestOptions() {
	recorder := suite.request(http.MethodOptions, "/v1", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET", recorder.Header().Get("allow"))
}
