package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/messreview-backend/internal/app/service"
	apperrors "github.com/ikkim/messreview-backend/internal/errors"
	"github.com/ikkim/messreview-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reportService service.ReportService
}

func NewReportController(reportService service.ReportService) *ReportController {
	return &ReportController{
		reportService: reportService,
	}
}

// DailyReport downloads the day's ratings workbook
// GET /api/v1/reports/daily?date=YYYY-MM-DD
func (ctrl *ReportController) DailyReport(c *gin.Context) {
	date := c.Query("date")

	data, err := ctrl.reportService.BuildDailyReport(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			apperrors.BadRequest(c, apperrors.MenuInvalidDate, "Date must be in YYYY-MM-DD format")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to build daily report", err, map[string]interface{}{
			"date": date,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ReportBuildFailed, "Could not build the report")
		return
	}

	name := "mess-report.xlsx"
	if date != "" {
		name = fmt.Sprintf("mess-report-%s.xlsx", date)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}
