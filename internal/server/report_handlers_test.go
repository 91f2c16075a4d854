package server

import (
	"net/http"
	"testing"
	"time"

	"tiepbuoc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardReport(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s, "operator", true)

	now := time.Now()
	donor := seedDonor(t, s, "Anh Laptop", "0901111111", models.SupportLaptop)
	require.NoError(t, s.db.Create(&models.Laptop{
		DonorID:     &donor.ID,
		Status:      models.ItemStatusDelivered,
		DeliveredAt: &now,
	}).Error)
	seedStudent(t, s, "Trần Thị B", "0911111111")

	resp, body := doJSON(t, app, http.MethodGet, "/api/admin/reports/dashboard", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Seven daily buckets ending today.
	weekly := body["weekly_data"].([]any)
	require.Len(t, weekly, 7)
	today := weekly[6].(map[string]any)
	assert.EqualValues(t, 1, today["laptops"])

	summary := body["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["active_donors"])
	assert.EqualValues(t, 1, summary["active_students"])

	distribution := body["distribution"].(map[string]any)
	assert.EqualValues(t, 1, distribution["laptop"])
}
