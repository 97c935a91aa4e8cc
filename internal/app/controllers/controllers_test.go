package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/roster/internal/app/forms"
	"github.com/yigit/roster/internal/app/models/dto"
	"github.com/yigit/roster/internal/app/repositories/memstore"
	"github.com/yigit/roster/internal/app/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadyReportsEachStore(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("server selection timeout") })

	tests := []struct {
		name   string
		stores map[string]Pinger
		status int
	}{
		{name: "all up", stores: map[string]Pinger{"postgres": ok, "mongo": ok}, status: http.StatusOK},
		{name: "mongo down", stores: map[string]Pinger{"postgres": ok, "mongo": down}, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/ready", NewHealthController(tt.stores).Ready)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.status, w.Code)

			var resp dto.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "ok", resp.Services["postgres"])
			if tt.status != http.StatusOK {
				assert.Equal(t, "unavailable", resp.Status)
				assert.Equal(t, "server selection timeout", resp.Services["mongo"])
			}
		})
	}
}

func TestPathIDValidation(t *testing.T) {
	students := memstore.NewStudents()
	ctrl := NewStudentController(services.NewStudentService(students), forms.Options{MaxPhotoBytes: 1024})

	r := gin.New()
	r.GET("/students/:id", ctrl.GetStudentByID)
	r.DELETE("/students/:id", ctrl.DeleteStudent)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/students/-1", http.StatusBadRequest},
		{http.MethodGet, "/students/1.5", http.StatusBadRequest},
		{http.MethodGet, "/students/0", http.StatusNotFound},
		{http.MethodDelete, "/students/12", http.StatusOK},
		{http.MethodDelete, "/students/x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestGroupStoreFailureSurfacesText(t *testing.T) {
	groups := memstore.NewGroups()
	groups.Err = errors.New("connection reset by peer")
	ctrl := NewGroupController(services.NewGroupService(groups, memstore.NewStudents()))

	r := gin.New()
	r.GET("/groups", ctrl.GetAllGroups)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/groups", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "connection reset by peer")
}
