package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gstledger/internal/domain"
	"gstledger/internal/handler"
	"gstledger/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupBillRouter(svc *mocks.MockBillService) *gin.Engine {
	h := handler.NewBillHandler(svc)
	r := gin.New()
	r.GET("/bills/propose-number", h.ProposeNumber)
	r.POST("/bills", h.Create)
	r.GET("/bills/:id", h.GetByID)
	r.DELETE("/bills/:id", h.Delete)
	return r
}

func TestBillHandler_Create_Success(t *testing.T) {
	svc := new(mocks.MockBillService)
	r := setupBillRouter(svc)

	created := &domain.Bill{
		ID:          uuid.New(),
		BillType:    domain.BillTypeSalesInvoice,
		Number:      "INV25-26/1",
		TotalAmount: decimal.NewFromInt(1180),
	}
	svc.On("Create", mock.Anything, mock.AnythingOfType("*service.BillInput")).Return(created, nil)

	body := map[string]any{
		"bill_type": "sales_invoice",
		"date":      time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
		"party_id":  uuid.New(),
		"lines":     []map[string]any{{"item_id": uuid.New(), "nos": "10"}},
	}
	buf, _ := json.Marshal(body)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/bills", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), "INV25-26/1")
	svc.AssertExpectations(t)
}

func TestBillHandler_Create_DuplicateNumber(t *testing.T) {
	svc := new(mocks.MockBillService)
	r := setupBillRouter(svc)

	svc.On("Create", mock.Anything, mock.AnythingOfType("*service.BillInput")).
		Return(nil, &domain.DuplicateNumberError{Number: "INV25-26/7", OwnerType: domain.BillTypeSalesInvoice})

	body := map[string]any{
		"bill_type": "sales_invoice",
		"number":    "INV25-26/7",
		"date":      time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
		"party_id":  uuid.New(),
		"lines":     []map[string]any{{"item_id": uuid.New(), "nos": "1"}},
	}
	buf, _ := json.Marshal(body)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/bills", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "DUPLICATE_NUMBER")
}

func TestBillHandler_GetByID_InvalidID(t *testing.T) {
	svc := new(mocks.MockBillService)
	r := setupBillRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/bills/not-a-uuid", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ID")
	svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestBillHandler_Delete_Referenced(t *testing.T) {
	svc := new(mocks.MockBillService)
	r := setupBillRouter(svc)

	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(domain.ErrBillReferenced)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/bills/%s", id), http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBillHandler_ProposeNumber(t *testing.T) {
	svc := new(mocks.MockBillService)
	r := setupBillRouter(svc)

	svc.On("ProposeNumber", mock.Anything, domain.BillTypeQuotation, mock.AnythingOfType("time.Time")).
		Return("QT25-26/4", nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/bills/propose-number?bill_type=quotation&date=2025-06-15", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "QT25-26/4")
}
