package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consolahealth/studenthealth/internal/pkg/apperrors"
)

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, errorBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) { HandleAPIError(c, err) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"student not found", apperrors.ErrStudentNotFound, http.StatusNotFound, "RES_001"},
		{"wrapped record not found", fmt.Errorf("get: %w", apperrors.ErrHealthRecordNotFound), http.StatusNotFound, "RES_001"},
		{"bad request", apperrors.NewBadRequestError("cannot sort by \"x\""), http.StatusBadRequest, "VAL_002"},
		{"duplicate student number", apperrors.ErrStudentIDAlreadyExists, http.StatusConflict, "RES_002"},
		{"conflict", apperrors.NewConflictError("busy"), http.StatusConflict, "RES_004"},
		{"database", fmt.Errorf("list students: %w", &pgconn.PgError{Code: "42P01", Message: "relation \"students\" does not exist"}), http.StatusInternalServerError, "SRV_002"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "SRV_001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serveError(t, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleAPIError_ValidationDetails(t *testing.T) {
	err := apperrors.NewValidationError("invalid health record", map[string]string{"weight": "weight must be a number"})
	w, body := serveError(t, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", body.Error.Code)
	assert.Equal(t, "invalid health record", body.Error.Message)
	assert.Equal(t, "weight must be a number", body.Error.Details["weight"])
}

func TestHandleAPIError_HidesInternals(t *testing.T) {
	_, body := serveError(t, errors.New("password=secret"))
	assert.NotContains(t, body.Error.Message, "secret")
}

func TestHandleAPIError_DatabaseErrorHidesQuery(t *testing.T) {
	_, body := serveError(t, &pgconn.PgError{Code: "42703", Message: "column \"secret_col\" does not exist"})
	assert.Equal(t, "SRV_002", body.Error.Code)
	assert.Equal(t, "Database error", body.Error.Message)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestBindingValidators(t *testing.T) {
	require.NoError(t, RegisterBindingValidators())

	type query struct {
		Sort string `form:"sort" binding:"omitempty,sort_key"`
	}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		var q query
		if err := c.ShouldBindQuery(&q); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.String(http.StatusOK, q.Sort)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?sort=-checkup_date", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?sort=drop%20table", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Sort")
}
