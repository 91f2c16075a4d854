package server

import (
	"fmt"
	"net/http"
	"testing"

	"tiepbuoc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAreas(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s, "operator", true)

	t.Run("creates an area", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/admin/areas", map[string]string{
			"name":        "Quảng Trị",
			"description": "Miền Trung",
		}, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "Quảng Trị", body["name"])
		assert.Equal(t, true, body["is_active"])
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/admin/areas",
			map[string]string{"name": "   "}, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("lists areas", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/admin/areas", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["areas"].([]any), 1)
	})

	t.Run("updates an area", func(t *testing.T) {
		var area models.Area
		require.NoError(t, s.db.Where("name = ?", "Quảng Trị").First(&area).Error)

		resp, body := doJSON(t, app, http.MethodPut,
			fmt.Sprintf("/api/admin/areas/%d", area.ID),
			map[string]any{"is_active": false}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["is_active"])
		assert.Equal(t, "Quảng Trị", body["name"])
	})
}
