package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/perfumeoud/retailapi/internal/repository"
	"github.com/perfumeoud/retailapi/internal/service"
)

// HandleGiftCardReport handles GET /v1/admin/reports/gift-cards
func HandleGiftCardReport(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	svc := service.NewReportService(repos, logger)

	return func(c *gin.Context) {
		start, err := time.Parse("2006-01-02", c.Query("start"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date, expected YYYY-MM-DD"})
			return
		}
		end, err := time.Parse("2006-01-02", c.Query("end"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date, expected YYYY-MM-DD"})
			return
		}
		// End date is inclusive: bump to the next day's midnight
		end = end.AddDate(0, 0, 1)

		report, err := svc.GenerateReport(c.Request.Context(), start, end)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, report)
	}
}
