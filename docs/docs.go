// Package docs Wildlife Watch API.
//
// Documentation of the Wildlife Watch API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//     Host: https://wildlife-watch-api.herokuapp.com
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - apikey
//
//    SecurityDefinitions:
//    apikey:
//      type: apiKey
//      in: header
//      name: apikey
//    basic:
//      type: basic
//    bearer:
//      type: apiKey
//      in: header
//      name: Authorization
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/wildlife-watch-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/categories reports categoriesID
// Lists the animal types a report may use.
// responses:
//   200: categoriesResponse

// The animal types in dropdown order
// swagger:response categoriesResponse
type categoriesResponseWrapper struct {
	// in:body
	Body []models.CategoryInfo
}

// swagger:route GET /api/v1/reports reports recentReportsID
// Lists the most recent reports, newest reportTime first.
// responses:
//   200: reportsResponse
//   502: errorResponse

// swagger:route GET /api/v1/reports/all reports allReportsID
// Lists every report in insertion order.
// responses:
//   200: reportsResponse
//   502: errorResponse

// A list of reports
// swagger:response reportsResponse
type reportsResponseWrapper struct {
	// in:body
	Body []models.Report
}

// swagger:parameters recentReportsID
type recentReportsParams struct {
	// in:query
	// minimum: 1
	// maximum: 100
	Limit int `json:"limit"`
}

// swagger:parameters allReportsID
type allReportsParams struct {
	// in:query
	Page int `json:"page"`
	// in:query
	Limit int `json:"limit"`
}

// swagger:route POST /api/v1/reports reports createReportID
// Stores one sighting.
// responses:
//   201: reportResponse
//   400: errorResponse
//   502: errorResponse

// swagger:route PATCH /api/v1/reports/{report_id} admin updateReportID
// Overwrites a report's sighting fields.
// security:
//   basic:
//   bearer:
// responses:
//   200: reportResponse
//   404: errorResponse

// swagger:route DELETE /api/v1/reports/{report_id} admin deleteReportID
// Removes a report.
// security:
//   basic:
//   bearer:
// responses:
//   204:
//   404: errorResponse

// A single stored report
// swagger:response reportResponse
type reportResponseWrapper struct {
	// in:body
	Body models.Report
}

// swagger:parameters createReportID updateReportID
type reportBodyParams struct {
	// in:body
	Body models.WildlifeReport
}

// swagger:parameters updateReportID deleteReportID
type reportIDParam struct {
	// in:path
	// required: true
	ReportID int64 `json:"report_id"`
}

// swagger:route POST /api/v1/auth/token admin createTokenID
// Exchanges admin basic credentials for a bearer token.
// security:
//   basic:
// responses:
//   200: tokenResponse
//   401: errorResponse

// A signed admin token
// swagger:response tokenResponse
type tokenResponseWrapper struct {
	// in:body
	Body struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expiresAt"`
	}
}

// An error message
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorMessageResponse
}
