package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"reliquia-backend/services"
	"reliquia-backend/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// serve runs a single handler, optionally as an authenticated user.
func serve(handler gin.HandlerFunc, method, route, target string, body any, userID *uuid.UUID) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, route, func(c *gin.Context) {
		if userID != nil {
			c.Set(utils.ContextUserID, *userID)
		}
		c.Next()
	}, handler)

	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{services.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("book: %w", services.ErrSlotTaken), http.StatusConflict},
		{services.ErrClosedDate, http.StatusUnprocessableEntity},
		{services.ErrComboWithDiscount, http.StatusBadRequest},
		{services.ErrProtectedUser, http.StatusForbidden},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrNothingOwed, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(func(c *gin.Context) {
				respondServiceError(c, zap.NewNop(), tt.err)
			}, http.MethodGet, "/", "/", nil, nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.err.Error(), decodeBody(t, rec)["error"])
		})
	}
}

func TestRespondServiceError_HidesInternal(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rec := serve(func(c *gin.Context) {
		respondServiceError(c, zap.New(core), errors.New("pq: connection refused"))
	}, http.MethodGet, "/x", "/x", nil, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeBody(t, rec)["error"])
	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
}

func TestParseIDParam(t *testing.T) {
	rec := serve(func(c *gin.Context) {
		if _, ok := parseIDParam(c, "id"); ok {
			c.Status(http.StatusNoContent)
		}
	}, http.MethodGet, "/:id", "/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(func(c *gin.Context) {
		if _, ok := parseIDParam(c, "id"); ok {
			c.Status(http.StatusNoContent)
		}
	}, http.MethodGet, "/:id", "/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCurrentUser_Missing(t *testing.T) {
	c := &AppointmentController{logger: zap.NewNop()}
	rec := serve(c.GetMyAppointments, http.MethodGet, "/", "/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
