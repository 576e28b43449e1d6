package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/erp-mx/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context",
			setup: func(c *gin.Context) {
				c.Set("request_id", "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set("X-Request-ID", "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(t)
			tt.setup(c)

			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.SuccessWithMeta(c, []string{"a", "b"}, 41, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestHandleErrorConflict(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	orderID := uuid.New()
	h.HandleError(c, &shared.ConflictError{
		Entity:   "sales_order",
		EntityID: orderID,
		Expected: "PENDING",
		Actual:   "APPROVED",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeConflict, resp.Error.Code)

	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sales_order", details["entity"])
	assert.Equal(t, orderID.String(), details["entity_id"])
	assert.Equal(t, "PENDING", details["expected"])
	assert.Equal(t, "APPROVED", details["actual"])
}

func TestHandleErrorPartialWrite(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	supplierID := uuid.New()
	h.HandleError(c, &shared.PartialWriteError{
		Entity:             "purchase_order",
		EntityID:           uuid.New(),
		CreatedSupplierIDs: []uuid.UUID{supplierID},
		Cause:              errors.New("connection reset"),
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodePartialWrite, resp.Error.Code)

	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	created, ok := details["created_supplier_ids"].([]any)
	require.True(t, ok)
	require.Len(t, created, 1)
	assert.Equal(t, supplierID.String(), created[0])
}

func TestHandleErrorDomainErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity},
		{"concurrent modification", shared.NewDomainError("CONCURRENT_MODIFICATION", "quote was modified by another request"), http.StatusConflict},
		{"validation", shared.NewDomainError("INVALID_INPUT", "name is required"), http.StatusBadRequest},
		{"unknown error type", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(t)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
		})
	}
}

func TestParseIDParam(t *testing.T) {
	c, _ := newTestContext(t)
	id := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	parsed, ok := parseIDParam(c, "id")
	assert.True(t, ok)
	assert.Equal(t, id, parsed)

	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	_, ok = parseIDParam(c, "id")
	assert.False(t, ok)
}
