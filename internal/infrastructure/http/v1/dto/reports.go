package dto

import (
	"time"

	"supplyspend/internal/core/apperror"
	"supplyspend/internal/core/id"
	"supplyspend/internal/domain/ledger"
	"supplyspend/internal/domain/quality"
	"supplyspend/internal/domain/reports"
)

// --- Category Budget Report ---

// CategoryBudgetReportRequest represents query parameters of the category budget report.
type CategoryBudgetReportRequest struct {
	Month       int    `form:"month"`
	Year        int    `form:"year"`
	BudgetMonth string `form:"budget_month"`

	CustomerID        string `form:"customer_id"`
	LocationID        string `form:"location_id"`
	CompanyLocationID string `form:"company_location_id"`
}

// ToDomain converts the request into a service request.
// Malformed ids are validation errors; period checks are left to the service.
func (r CategoryBudgetReportRequest) ToDomain() (reports.CategoryReportRequest, error) {
	req := reports.CategoryReportRequest{
		Month:       r.Month,
		Year:        r.Year,
		BudgetMonth: r.BudgetMonth,
	}

	var err error
	if req.CustomerID, err = id.ParseOptional(r.CustomerID); err != nil {
		return req, apperror.NewValidation("customer_id must be a UUID").WithDetail("customer_id", r.CustomerID)
	}
	if req.LocationID, err = id.ParseOptional(r.LocationID); err != nil {
		return req, apperror.NewValidation("location_id must be a UUID").WithDetail("location_id", r.LocationID)
	}
	if req.CompanyLocationID, err = id.ParseOptional(r.CompanyLocationID); err != nil {
		return req, apperror.NewValidation("company_location_id must be a UUID").
			WithDetail("company_location_id", r.CompanyLocationID)
	}
	return req, nil
}

// CategoryBudgetReportResponse represents the category budget report.
type CategoryBudgetReportResponse struct {
	Period         string                   `json:"period"`
	Month          int                      `json:"month"`
	Year           int                      `json:"year"`
	ExplicitPeriod bool                     `json:"explicitPeriod"`
	LocationID     *string                  `json:"locationId"`
	Categories     []CategoryBudgetResponse `json:"categories"`
	Summary        CategoryReportSummary    `json:"summary"`
	Warnings       []quality.Warning        `json:"warnings"`
	GeneratedAt    string                   `json:"generatedAt"`
}

// CategoryBudgetResponse is one budgeted category.
type CategoryBudgetResponse struct {
	Category     string `json:"category"`
	HasBudget    bool   `json:"hasBudget"`
	Budget       string `json:"budget"`
	BudgetSource string `json:"budgetSource"`

	GrossQuantity    int64 `json:"grossQuantity"`
	RefundedQuantity int64 `json:"refundedQuantity"`
	NetQuantity      int64 `json:"netQuantity"`

	GrossValue    string `json:"grossValue"`
	RefundedValue string `json:"refundedValue"`
	NetValue      string `json:"netValue"`

	AveragePrice       string `json:"averagePrice"`
	OrderCount         int    `json:"orderCount"`
	RefundedOrderCount int    `json:"refundedOrderCount"`
	RefundRate         string `json:"refundRate"`

	RemainingBudget   string `json:"remainingBudget"`
	BudgetUtilization string `json:"budgetUtilization"`

	Products []ProductRollupResponse `json:"products"`
}

// ProductRollupResponse is one product of a category.
type ProductRollupResponse struct {
	ProductID   string `json:"productId"`
	VariantID   string `json:"variantId,omitempty"`
	ProductName string `json:"productName"`
	SKU         string `json:"sku,omitempty"`
	Vendor      string `json:"vendor,omitempty"`

	GrossQuantity    int64  `json:"grossQuantity"`
	RefundedQuantity int64  `json:"refundedQuantity"`
	NetQuantity      int64  `json:"netQuantity"`
	GrossValue       string `json:"grossValue"`
	RefundedValue    string `json:"refundedValue"`
	NetValue         string `json:"netValue"`
	AveragePrice     string `json:"averagePrice"`
	OrderCount       int    `json:"orderCount"`
}

// CategoryReportSummary holds the report totals.
type CategoryReportSummary struct {
	TotalOrders          int    `json:"totalOrders"`
	OrdersWithRefunds    int    `json:"ordersWithRefunds"`
	GrossValue           string `json:"grossValue"`
	RefundedValue        string `json:"refundedValue"`
	NetValue             string `json:"netValue"`
	RefundRate           string `json:"refundRate"`
	TotalBudget          string `json:"totalBudget"`
	BudgetedNetValue     string `json:"budgetedNetValue"`
	BudgetSource         string `json:"budgetSource"`
	CategoryCount        int    `json:"categoryCount"`
	UnbudgetedCategories int    `json:"unbudgetedCategories"`
}

// FromCategoryReport converts domain report to response DTO.
func FromCategoryReport(r *reports.CategoryReport) *CategoryBudgetReportResponse {
	resp := &CategoryBudgetReportResponse{
		Period:         r.Period.String(),
		Month:          r.Period.Month,
		Year:           r.Period.Year,
		ExplicitPeriod: r.ExplicitPeriod,
		LocationID:     OptionalID(r.LocationID),
		Categories:     make([]CategoryBudgetResponse, len(r.Categories)),
		Warnings:       r.Warnings,
		GeneratedAt:    r.GeneratedAt.UTC().Format(time.RFC3339),
	}
	if resp.Warnings == nil {
		resp.Warnings = []quality.Warning{}
	}

	for i, c := range r.Categories {
		resp.Categories[i] = CategoryBudgetResponse{
			Category:           c.Category,
			HasBudget:          c.HasBudget,
			Budget:             Money(c.Budget),
			BudgetSource:       string(c.BudgetSource),
			GrossQuantity:      c.GrossQuantity,
			RefundedQuantity:   c.RefundedQuantity,
			NetQuantity:        c.NetQuantity,
			GrossValue:         Money(c.GrossValue),
			RefundedValue:      Money(c.RefundedValue),
			NetValue:           Money(c.NetValue),
			AveragePrice:       Money(c.AveragePrice),
			OrderCount:         c.OrderCount,
			RefundedOrderCount: c.RefundedOrderCount,
			RefundRate:         Money(c.RefundRate),
			RemainingBudget:    Money(c.RemainingBudget),
			BudgetUtilization:  Money(c.BudgetUtilization),
			Products:           fromProductRollups(c.Products),
		}
	}

	s := r.Summary
	resp.Summary = CategoryReportSummary{
		TotalOrders:          s.TotalOrders,
		OrdersWithRefunds:    s.OrdersWithRefunds,
		GrossValue:           Money(s.GrossValue),
		RefundedValue:        Money(s.RefundedValue),
		NetValue:             Money(s.NetValue),
		RefundRate:           Money(s.RefundRate),
		TotalBudget:          Money(s.TotalBudget),
		BudgetedNetValue:     Money(s.BudgetedNetValue),
		BudgetSource:         string(s.BudgetSource),
		CategoryCount:        s.CategoryCount,
		UnbudgetedCategories: s.UnbudgetedCategories,
	}

	return resp
}

func fromProductRollups(products []ledger.ProductRollup) []ProductRollupResponse {
	out := make([]ProductRollupResponse, len(products))
	for i, p := range products {
		out[i] = ProductRollupResponse{
			ProductID:        p.ProductID.String(),
			ProductName:      p.ProductName,
			SKU:              p.SKU,
			Vendor:           p.Vendor,
			GrossQuantity:    p.GrossQuantity,
			RefundedQuantity: p.RefundedQuantity,
			NetQuantity:      p.NetQuantity,
			GrossValue:       Money(p.GrossValue),
			RefundedValue:    Money(p.RefundedValue),
			NetValue:         Money(p.NetValue),
			AveragePrice:     Money(p.AveragePrice),
			OrderCount:       p.OrderCount,
		}
		if !id.IsNil(p.VariantID) {
			out[i].VariantID = p.VariantID.String()
		}
	}
	return out
}
