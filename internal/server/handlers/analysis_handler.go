package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/service/analysis"
	"github.com/mamadbah2/smallerp/internal/service/export"
)

const (
	defaultTrendMonths = 6
	maxTrendMonths     = 36
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// AnalysisHandler exposes the financial analysis over HTTP.
type AnalysisHandler struct {
	svc      *analysis.Service
	location *time.Location
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

// NewAnalysisHandler constructs the HTTP handler adapter. location decides
// which month "now" falls in when a request omits it.
func NewAnalysisHandler(svc *analysis.Service, location *time.Location, currency string, logger *zap.Logger) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &AnalysisHandler{svc: svc, location: location, currency: currency, logger: logger, now: time.Now}
}

// Costs handles GET /api/v1/costs.
func (h *AnalysisHandler) Costs(c *gin.Context) {
	period, ok := h.period(c)
	if !ok {
		return
	}
	summary, err := h.svc.Costs(c.Request.Context(), period)
	h.respond(c, summary, err)
}

// Revenue handles GET /api/v1/revenue.
func (h *AnalysisHandler) Revenue(c *gin.Context) {
	period, ok := h.period(c)
	if !ok {
		return
	}
	summary, err := h.svc.Revenue(c.Request.Context(), period)
	h.respond(c, summary, err)
}

// Portfolio handles GET /api/v1/portfolio.
func (h *AnalysisHandler) Portfolio(c *gin.Context) {
	period, ok := h.period(c)
	if !ok {
		return
	}
	summary, err := h.svc.Portfolio(c.Request.Context(), period)
	h.respond(c, summary, err)
}

// ProductProfit handles GET /api/v1/products/:id/profit.
func (h *AnalysisHandler) ProductProfit(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	period, ok := h.period(c)
	if !ok {
		return
	}
	profit, err := h.svc.ProductProfit(c.Request.Context(), id, period)
	h.respond(c, profit, err)
}

// ProductCost handles GET /api/v1/products/:id/cost.
func (h *AnalysisHandler) ProductCost(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	period, ok := h.period(c)
	if !ok {
		return
	}
	cost, err := h.svc.ProductCost(c.Request.Context(), id, period)
	h.respond(c, cost, err)
}

// ProductMargin handles GET /api/v1/products/:id/margin.
func (h *AnalysisHandler) ProductMargin(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	month, ok := h.month(c, "month")
	if !ok {
		return
	}
	margin, err := h.svc.ProductMargin(c.Request.Context(), id, month)
	h.respond(c, margin, err)
}

// Overhead handles GET /api/v1/overhead.
func (h *AnalysisHandler) Overhead(c *gin.Context) {
	month, ok := h.month(c, "month")
	if !ok {
		return
	}
	report, err := h.svc.Overhead(c.Request.Context(), month)
	h.respond(c, report, err)
}

// OwnerShares handles GET /api/v1/owners/profit-shares.
func (h *AnalysisHandler) OwnerShares(c *gin.Context) {
	month, ok := h.month(c, "month")
	if !ok {
		return
	}
	dist, err := h.svc.OwnerShares(c.Request.Context(), month)
	h.respond(c, dist, err)
}

// OwnerSharesForPeriod handles GET /api/v1/owners/profit-shares/period.
func (h *AnalysisHandler) OwnerSharesForPeriod(c *gin.Context) {
	period, ok := h.period(c)
	if !ok {
		return
	}
	dist, err := h.svc.OwnerSharesForPeriod(c.Request.Context(), period)
	h.respond(c, dist, err)
}

// Bills handles GET /api/v1/bills/status.
func (h *AnalysisHandler) Bills(c *gin.Context) {
	month, ok := h.month(c, "month")
	if !ok {
		return
	}
	asOf := h.now()
	if raw := c.Query("as_of"); raw != "" {
		t, dateOnly, err := models.ParseDate(raw)
		if err != nil {
			h.badRequest(c, fmt.Errorf("as_of: %w", err))
			return
		}
		if dateOnly {
			t = models.EndOfDay(t)
		}
		asOf = t
	}
	report, err := h.svc.Bills(c.Request.Context(), month, asOf)
	h.respond(c, report, err)
}

// Trends handles GET /api/v1/trends.
func (h *AnalysisHandler) Trends(c *gin.Context) {
	end, ok := h.month(c, "end")
	if !ok {
		return
	}
	n := defaultTrendMonths
	if raw := c.Query("months"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxTrendMonths {
			h.badRequest(c, fmt.Errorf("months must be between 1 and %d", maxTrendMonths))
			return
		}
		n = v
	}
	points, err := h.svc.Trends(c.Request.Context(), end, n)
	h.respond(c, gin.H{"end": end, "months": n, "points": points}, err)
}

// Export handles GET /api/v1/reports/export and streams an xlsx workbook.
func (h *AnalysisHandler) Export(c *gin.Context) {
	period, ok := h.period(c)
	if !ok {
		return
	}
	report, err := h.svc.PeriodReport(c.Request.Context(), period)
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if _, err := export.WriteTo(&buf, report, h.currency); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(period)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Validation handles GET /api/v1/validation.
func (h *AnalysisHandler) Validation(c *gin.Context) {
	problems, err := h.svc.Validation(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": len(problems) == 0, "problems": problems})
}

// period reads start and end. Both absent means the current month.
func (h *AnalysisHandler) period(c *gin.Context) (models.Period, bool) {
	start, end := c.Query("start"), c.Query("end")
	if start == "" && end == "" {
		return models.MonthPeriod(h.currentMonth()), true
	}
	if start == "" || end == "" {
		h.badRequest(c, errors.New("start and end must be given together"))
		return models.Period{}, false
	}
	period, err := models.ParsePeriod(start, end)
	if err != nil {
		h.badRequest(c, err)
		return models.Period{}, false
	}
	return period, true
}

func (h *AnalysisHandler) month(c *gin.Context, key string) (models.Month, bool) {
	raw := c.Query(key)
	if raw == "" {
		return h.currentMonth(), true
	}
	m, err := models.ParseMonth(raw)
	if err != nil {
		h.badRequest(c, fmt.Errorf("%s: %w", key, err))
		return "", false
	}
	return m, true
}

func (h *AnalysisHandler) productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.badRequest(c, fmt.Errorf("invalid product id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}

func (h *AnalysisHandler) currentMonth() models.Month {
	return models.MonthOf(h.now().In(h.location))
}

func (h *AnalysisHandler) respond(c *gin.Context, body any, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

func (h *AnalysisHandler) badRequest(c *gin.Context, err error) {
	h.logger.Debug("rejected request", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *AnalysisHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, analysis.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("analysis request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute analysis"})
}
