package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gstledger/internal/csvexport"
	"gstledger/internal/domain"
	"gstledger/internal/service"
)

// ReportHandler handles statutory and management report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// parseReportFilters extracts common report filter parameters from query params.
func parseReportFilters(c *gin.Context) (*domain.ReportFilters, error) {
	filters := &domain.ReportFilters{View: domain.ReportViewBoth}

	if fromStr := c.Query("from"); fromStr != "" {
		t, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid 'from' date: must be YYYY-MM-DD")
		}
		filters.From = &t
	}
	if toStr := c.Query("to"); toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid 'to' date: must be YYYY-MM-DD")
		}
		filters.To = &t
	}

	if viewStr := c.Query("view"); viewStr != "" {
		view := domain.ReportView(viewStr)
		if !view.Valid() {
			return nil, fmt.Errorf("invalid 'view': must be one of sales, purchase, both")
		}
		filters.View = view
	}

	if typeStr := c.Query("bill_type"); typeStr != "" {
		t := domain.BillType(typeStr)
		if !t.Valid() {
			return nil, fmt.Errorf("invalid 'bill_type'")
		}
		filters.BillType = &t
	}

	if pidStr := c.Query("party_id"); pidStr != "" {
		pid, err := uuid.Parse(pidStr)
		if err != nil {
			return nil, fmt.Errorf("invalid 'party_id': must be a valid UUID")
		}
		filters.PartyID = &pid
	}

	return filters, nil
}

// Register handles GET /api/v1/reports/register
// @Summary      GSTR-1-style document register
// @Description  Lists bills in the period with per-rate tax breakdown and B2B/B2C classification
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Param        view query string false "sales, purchase, or both" default(both)
// @Param        bill_type query string false "Restrict to one document type"
// @Param        party_id query string false "Party UUID"
// @Success      200 {object} APIResponse{data=[]domain.RegisterRow}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/register [get]
func (h *ReportHandler) Register(c *gin.Context) {
	filters, err := parseReportFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	rows, err := h.reportService.Register(c.Request.Context(), filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rows)
}

// NetTax handles GET /api/v1/reports/net-tax
// @Summary      Net tax position
// @Description  GSTR-3B-style outward tax vs input tax credit; composition turnover tax under the composition scheme
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse{data=domain.NetTaxSummary}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/net-tax [get]
func (h *ReportHandler) NetTax(c *gin.Context) {
	filters, err := parseReportFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	summary, err := h.reportService.NetTax(c.Request.Context(), filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}

// HSNSummary handles GET /api/v1/reports/hsn-summary
// @Summary      HSN summary report
// @Description  Aggregates line items by HSN code and rate with per-item breakdown
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Param        view query string false "sales, purchase, or both" default(both)
// @Success      200 {object} APIResponse{data=[]domain.HSNRow}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/hsn-summary [get]
func (h *ReportHandler) HSNSummary(c *gin.Context) {
	filters, err := parseReportFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	rows, err := h.reportService.HSNSummary(c.Request.Context(), filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rows)
}

// PaymentRegister handles GET /api/v1/reports/payments
// @Summary      Payment register
// @Description  Lists payments with applied-to text, unapplied remainder, and derived status
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Param        view query string false "sales, purchase, or both" default(both)
// @Param        party_id query string false "Party UUID"
// @Success      200 {object} APIResponse{data=[]domain.PaymentRegisterRow}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/payments [get]
func (h *ReportHandler) PaymentRegister(c *gin.Context) {
	filters, err := parseReportFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	rows, err := h.reportService.PaymentRegister(c.Request.Context(), filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rows)
}

// Aging handles GET /api/v1/reports/aging
// @Summary      Outstanding aging report
// @Description  Per-bill outstanding with days since last payment and per-party oldest pending age
// @Tags         reports
// @Produce      json
// @Param        view query string false "sales or purchase" default(sales)
// @Param        as_of query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success      200 {object} APIResponse{data=[]domain.AgingRow}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/aging [get]
func (h *ReportHandler) Aging(c *gin.Context) {
	view := domain.ReportView(c.DefaultQuery("view", string(domain.ReportViewSales)))
	if view != domain.ReportViewSales && view != domain.ReportViewPurchase {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid 'view': must be sales or purchase")
		return
	}

	asOf := time.Now()
	if asOfStr := c.Query("as_of"); asOfStr != "" {
		t, err := time.Parse("2006-01-02", asOfStr)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid 'as_of': must be YYYY-MM-DD")
			return
		}
		asOf = t
	}

	rows, err := h.reportService.Aging(c.Request.Context(), view, asOf)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rows)
}

// ExportRegister handles GET /api/v1/reports/register/export
func (h *ReportHandler) ExportRegister(c *gin.Context) {
	filters, err := parseReportFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	if err := h.reportService.ExportRegisterCSV(c.Request.Context(), filters, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename("register", "csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportHSN handles GET /api/v1/reports/hsn-summary/export
func (h *ReportHandler) ExportHSN(c *gin.Context) {
	filters, err := parseReportFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	f, err := h.reportService.ExportHSNXLSX(c.Request.Context(), filters)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename("hsn_summary", "xlsx")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
