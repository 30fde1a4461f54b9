package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/dotpay-gateway/internal/auth"
	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
	"github.com/josh-kwaku/dotpay-gateway/internal/service/checkout"
)

type mockCheckouts struct {
	startReq   checkout.StartRequest
	startRes   *checkout.StartResult
	gateway    checkout.Gateway
	form       *checkout.Form
	err        error
	startCalls int
}

func (m *mockCheckouts) Start(_ context.Context, _ uuid.UUID, req checkout.StartRequest) (*checkout.StartResult, error) {
	m.startCalls++
	m.startReq = req
	return m.startRes, m.err
}

func (m *mockCheckouts) Form(_ context.Context, _ uuid.UUID, gateway checkout.Gateway) (*checkout.Form, error) {
	m.gateway = gateway
	return m.form, m.err
}

func withSession(r *http.Request) *http.Request {
	return r.WithContext(auth.ContextWithSessionID(r.Context(), uuid.New()))
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCheckoutStart(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
		wantCalls  int
	}{
		{
			name:       "valid request",
			body:       `{"order_id":42,"email":"jan@example.com","channel":11,"product_name":"Kubek"}`,
			wantStatus: http.StatusCreated,
			wantCalls:  1,
		},
		{
			name:       "malformed json",
			body:       `{"order_id":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "missing order id",
			body:       `{"email":"jan@example.com","channel":11}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "missing email",
			body:       `{"order_id":42,"channel":11}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "unknown order",
			body:       `{"order_id":7,"email":"jan@example.com"}`,
			err:        fmt.Errorf("Start: %w", domain.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "RESOURCE_NOT_FOUND",
			wantCalls:  1,
		},
		{
			name:       "order already paid",
			body:       `{"order_id":7,"email":"jan@example.com"}`,
			err:        fmt.Errorf("Start: %w", domain.ErrInvalidRequest),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "ORDER_NOT_PAYABLE",
			wantCalls:  1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockCheckouts{
				startRes: &checkout.StartResult{Gateway: checkout.GatewayTransfer, Redirect: "/dotpay/form?gateway=transfer"},
				err:      tc.err,
			}
			h := NewCheckoutHandler(svc)

			req := withSession(httptest.NewRequest(http.MethodPost, "/dotpay/payments", strings.NewReader(tc.body)))
			rec := httptest.NewRecorder()
			h.Start(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCalls, svc.startCalls)
			resp := decodeResponse(t, rec)
			if tc.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tc.wantCode, resp.Error.Code)
				return
			}
			assert.True(t, resp.Success)
			assert.Equal(t, int64(42), svc.startReq.OrderID)
			assert.Equal(t, 11, svc.startReq.Channel)
			assert.Equal(t, "jan@example.com", svc.startReq.Email)
		})
	}
}

func TestCheckoutStart_NoSession(t *testing.T) {
	h := NewCheckoutHandler(&mockCheckouts{})

	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/dotpay/payments", strings.NewReader(`{"order_id":1}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "MISSING_SESSION", decodeResponse(t, rec).Error.Code)
}

func TestCheckoutForm(t *testing.T) {
	svc := &mockCheckouts{form: &checkout.Form{
		Action: "https://ssl.dotpay.pl/test_payment/",
		Fields: map[string]string{"id": "123456", "chk": "abc"},
	}}
	h := NewCheckoutHandler(svc)

	req := withSession(httptest.NewRequest(http.MethodGet, "/dotpay/form?gateway=transfer", nil))
	rec := httptest.NewRecorder()
	h.Form(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, checkout.GatewayTransfer, svc.gateway)

	var resp struct {
		Data checkout.Form `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "abc", resp.Data.Fields["chk"])
	assert.Equal(t, "https://ssl.dotpay.pl/test_payment/", resp.Data.Action)
}

func TestCheckoutForm_Errors(t *testing.T) {
	t.Run("unknown gateway", func(t *testing.T) {
		h := NewCheckoutHandler(&mockCheckouts{})
		rec := httptest.NewRecorder()
		h.Form(rec, withSession(httptest.NewRequest(http.MethodGet, "/dotpay/form?gateway=paypal", nil)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "UNKNOWN_GATEWAY", decodeResponse(t, rec).Error.Code)
	})

	t.Run("session without order", func(t *testing.T) {
		h := NewCheckoutHandler(&mockCheckouts{err: fmt.Errorf("Form: %w", domain.ErrSessionNotFound)})
		rec := httptest.NewRecorder()
		h.Form(rec, withSession(httptest.NewRequest(http.MethodGet, "/dotpay/form", nil)))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "SESSION_EXPIRED", decodeResponse(t, rec).Error.Code)
	})
}
