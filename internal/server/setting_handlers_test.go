package server

import (
	"net/http"
	"testing"

	"tiepbuoc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s, "operator", true)

	t.Run("stores and lists a setting", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, "/api/admin/settings/allow_new_signups",
			map[string]any{"value": false}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := doJSON(t, app, http.MethodGet, "/api/admin/settings", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		settings := body["settings"].([]any)
		require.Len(t, settings, 1)
		entry := settings[0].(map[string]any)
		assert.Equal(t, models.SettingAllowNewSignups, entry["key"])
		assert.Equal(t, "false", entry["value"])
	})

	t.Run("the stored flag gates public submissions", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/public/applications", donorPayload(), "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodPut, "/api/admin/settings/allow_new_signups",
			map[string]any{"value": true}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodPost, "/api/public/applications", donorPayload(), "")
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("requires a value", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, "/api/admin/settings/allow_new_signups",
			map[string]any{}, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
