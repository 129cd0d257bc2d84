package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"pollster-backend/cache"
	"pollster-backend/service"

	"github.com/gin-gonic/gin"
)

var reportCache *cache.ReportCache

// InitReportCache enables the short-TTL report cache when Redis is
// reachable and ENABLE_REPORT_CACHE is set
func InitReportCache() {
	if os.Getenv("ENABLE_REPORT_CACHE") != "true" {
		return
	}

	client, err := cache.GetClient()
	if err != nil {
		log.Printf("Report cache disabled: %v", err)
		return
	}

	ttl := 30 * time.Second
	if ttlStr := os.Getenv("REPORT_CACHE_TTL_SECONDS"); ttlStr != "" {
		if secs, err := strconv.Atoi(ttlStr); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	reportCache = cache.NewReportCache(client, ttl)
	log.Printf("Report cache enabled, TTL %s", ttl)
}

// GetPollReport returns the aggregated tally for a poll. Only the
// owning company may read it.
func GetPollReport(c *gin.Context) {
	pollID, ok := parsePollID(c)
	if !ok {
		return
	}

	companyStr := c.Query("company_id")
	if companyStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_id is required"})
		return
	}
	companyID, err := strconv.ParseUint(companyStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID format"})
		return
	}

	// The ownership check runs on cached reports too: a hit is only
	// served when the cached poll belongs to the requesting company.
	if reportCache != nil {
		if cached, err := reportCache.Get(c.Request.Context(), pollID); err == nil {
			if cached.Poll.CompanyID != uint(companyID) {
				c.JSON(http.StatusForbidden, gin.H{"error": "Poll belongs to another company"})
				return
			}
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	report, err := reportService.Report(c.Request.Context(), pollID, uint(companyID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPollNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		case errors.Is(err, service.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "Poll belongs to another company"})
		default:
			log.Printf("Report generation failed for poll %d: %v", pollID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		}
		return
	}

	if reportCache != nil {
		if err := reportCache.Set(c.Request.Context(), pollID, report); err != nil {
			log.Printf("Failed to cache report for poll %d: %v", pollID, err)
		}
	}

	c.JSON(http.StatusOK, report)
}
