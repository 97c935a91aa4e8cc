package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/roster/internal/app/models/dto"
	"github.com/yigit/roster/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code     string      `json:"code"`
		Message  string      `json:"message"`
		Field    string      `json:"field"`
		Severity string      `json:"severity"`
		Details  interface{} `json:"details"`
	} `json:"error"`
}

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, errorBody) {
	t.Helper()
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { HandleAPIError(c, err) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"student not found", apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "student not found"},
		{"group not found wrapped", fmt.Errorf("lookup: %w", apperrors.ErrGroupNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "group not found"},
		{"guard conflict", apperrors.ErrGroupHasStudents, http.StatusBadRequest, dto.ErrorCodeConflict, "cannot delete group with existing students"},
		{"validation", apperrors.NewValidationError(errors.New("unsupported media type"), "unsupported media type"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "unsupported media type"},
		{"form too large", apperrors.NewValidationError(apperrors.ErrPayloadTooLarge, "payload too large"), http.StatusBadRequest, dto.ErrorCodePayloadTooLarge, "payload too large"},
		{"bad request", apperrors.NewBadRequestError("invalid student id"), http.StatusBadRequest, dto.ErrorCodeInvalidRequest, "invalid student id"},
		{"stored image", apperrors.ErrInvalidStoredImage, http.StatusInternalServerError, dto.ErrorCodeStorageInvariant, "invalid image format stored on server"},
		{"body limit", &http.MaxBytesError{Limit: 10}, http.StatusBadRequest, dto.ErrorCodePayloadTooLarge, "payload too large"},
		{"store failure", errors.New("dial tcp 10.0.0.1:5432: connection refused"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serveError(t, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, body.Success)
			assert.Equal(t, string(tt.code), body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}

func TestHandleAPIErrorSurfacesStoreText(t *testing.T) {
	_, body := serveError(t, errors.New("connection refused"))
	assert.Equal(t, "connection refused", body.Error.Details)
}

func TestHandleAPIErrorCarriesField(t *testing.T) {
	err := apperrors.NewValidationError(errors.New("empty payload"), "empty payload").
		WithDetails(map[string]interface{}{"field": "studentPhoto"})

	_, body := serveError(t, err)
	assert.Equal(t, "studentPhoto", body.Error.Field)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS(CORSConfig{AllowedOrigins: []string{"*"}, MaxAge: 3600}))
	r.DELETE("/api/groups/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/groups/1", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORSActualRequest(t *testing.T) {
	r := gin.New()
	r.Use(CORS(CORSConfig{AllowedOrigins: []string{"*"}}))
	r.GET("/api/groups", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/groups", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("much too long")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(dto.ErrorCodePayloadTooLarge))
}

func TestBindJSON(t *testing.T) {
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req dto.GroupRequest
		if !BindJSON(c, &req) {
			return
		}
		c.String(http.StatusOK, req.Name)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"name":"IP-11"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "IP-11", w.Body.String())

	w = post(`{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name is required")

	w = post(`{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
