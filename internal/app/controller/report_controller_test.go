package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportController_DailyReport(t *testing.T) {
	app := setupTestApp(t)
	_, adminToken := app.signUpAdmin(t)
	_, userToken := app.signUp(t, "asha@iitb.ac.in", "Asha")

	w := app.do(t, http.MethodGet, "/reports/daily?date=2026-10-19", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "mess-report-2026-10-19.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())

	assertErrorCode(t, app.do(t, http.MethodGet, "/reports/daily?date=bad", adminToken, nil), http.StatusBadRequest, "MENU_INVALID_DATE")
	assertErrorCode(t, app.do(t, http.MethodGet, "/reports/daily", userToken, nil), http.StatusForbidden, "AUTHZ_FORBIDDEN")
}
