package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"supplyspend/internal/domain/reports"
	"supplyspend/internal/infrastructure/export"
	"supplyspend/internal/infrastructure/http/v1/dto"
	"supplyspend/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CategoryReporter computes category budget reports.
type CategoryReporter interface {
	ComputeCategoryReport(ctx context.Context, req reports.CategoryReportRequest) (*reports.CategoryReport, error)
}

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service CategoryReporter
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service CategoryReporter) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetCategoryBudget handles GET /reports/category-budget
func (h *ReportsHandler) GetCategoryBudget(c *gin.Context) {
	report, ok := h.compute(c)
	if !ok {
		return
	}
	h.OK(c, dto.FromCategoryReport(report))
}

// ExportCategoryBudget handles GET /reports/category-budget/export
func (h *ReportsHandler) ExportCategoryBudget(c *gin.Context) {
	report, ok := h.compute(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCategoryReport(&buf, report); err != nil {
		h.Error(c, fmt.Errorf("render category report workbook: %w", err))
		return
	}

	filename := fmt.Sprintf("category-budget-%s.xlsx", report.Period.String())
	logger.Debug(c.Request.Context(), "category report exported",
		"period", report.Period.String(),
		"bytes", buf.Len(),
	)

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ReportsHandler) compute(c *gin.Context) (*reports.CategoryReport, bool) {
	var req dto.CategoryBudgetReportRequest
	if !h.BindQuery(c, &req) {
		return nil, false
	}

	domainReq, err := req.ToDomain()
	if err != nil {
		h.Error(c, err)
		return nil, false
	}

	report, err := h.service.ComputeCategoryReport(c.Request.Context(), domainReq)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	return report, true
}
