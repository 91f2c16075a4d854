package server

import (
	"fmt"
	"net/http"
	"testing"

	"tiepbuoc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInventorySummary(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s, "operator", true)

	require.NoError(t, s.db.Create(&models.Laptop{Status: models.ItemStatusAvailable}).Error)
	require.NoError(t, s.db.Create(&models.Laptop{Status: models.ItemStatusAvailable}).Error)
	require.NoError(t, s.db.Create(&models.Laptop{Status: models.ItemStatusDelivered}).Error)
	require.NoError(t, s.db.Create(&models.TuitionPledge{Status: models.PledgeStatusPledged, Amount: "500000"}).Error)

	resp, body := doJSON(t, app, http.MethodGet, "/api/admin/inventory/summary", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	laptops := body["laptops"].(map[string]any)
	assert.EqualValues(t, 2, laptops["available"])
	assert.EqualValues(t, 1, laptops["delivered"])

	pledges := body["tuition_pledges"].(map[string]any)
	assert.EqualValues(t, 1, pledges["pledged"])
}

func TestUpdateLaptop(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s, "operator", true)

	laptop := &models.Laptop{Status: models.ItemStatusAvailable}
	require.NoError(t, s.db.Create(laptop).Error)
	student := seedStudent(t, s, "Trần Thị B", "0911111111")
	path := fmt.Sprintf("/api/admin/inventory/laptops/%d", laptop.ID)

	t.Run("assigning stamps the date and links the student", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPut, path, map[string]any{
			"status":     models.ItemStatusAssigned,
			"student_id": student.ID,
		}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, models.ItemStatusAssigned, body["status"])

		var stored models.Laptop
		require.NoError(t, s.db.First(&stored, laptop.ID).Error)
		require.NotNil(t, stored.AssignedAt)
		require.NotNil(t, stored.StudentID)
		assert.Equal(t, student.ID, *stored.StudentID)
	})

	t.Run("delivery stamps its own date", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, path, map[string]any{
			"status": models.ItemStatusDelivered,
		}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stored models.Laptop
		require.NoError(t, s.db.First(&stored, laptop.ID).Error)
		require.NotNil(t, stored.DeliveredAt)
		require.NotNil(t, stored.AssignedAt, "earlier stamps survive later transitions")
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, path, map[string]any{"status": "lost"}, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("installed is not a laptop status", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, path, map[string]any{
			"status": models.ItemStatusInstalled,
		}, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown laptop returns 404", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, "/api/admin/inventory/laptops/9999",
			map[string]any{"status": models.ItemStatusAssigned}, token)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdateComponent(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s, "operator", true)

	component := &models.Component{Status: models.ItemStatusReserved, Note: "RAM 8GB"}
	require.NoError(t, s.db.Create(component).Error)
	path := fmt.Sprintf("/api/admin/inventory/components/%d", component.ID)

	resp, _ := doJSON(t, app, http.MethodPut, path, map[string]any{
		"status": models.ItemStatusInstalled,
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.Component
	require.NoError(t, s.db.First(&stored, component.ID).Error)
	assert.Equal(t, models.ItemStatusInstalled, stored.Status)
	require.NotNil(t, stored.InstalledAt)
}

func TestUpdateTuitionPledge(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s, "operator", true)

	pledge := &models.TuitionPledge{Status: models.PledgeStatusPledged, Amount: "500000"}
	require.NoError(t, s.db.Create(pledge).Error)
	path := fmt.Sprintf("/api/admin/inventory/tuition-pledges/%d", pledge.ID)

	t.Run("paying stamps the date", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, path, map[string]any{
			"status": models.PledgeStatusPaid,
			"amount": "600000",
		}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stored models.TuitionPledge
		require.NoError(t, s.db.First(&stored, pledge.ID).Error)
		assert.Equal(t, models.PledgeStatusPaid, stored.Status)
		assert.Equal(t, "600000", stored.Amount)
		require.NotNil(t, stored.PaidAt)
	})

	t.Run("rejects item statuses on pledges", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, path, map[string]any{
			"status": models.ItemStatusAvailable,
		}, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListLaptopsFilters(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s, "operator", true)

	donor := seedDonor(t, s, "Anh Laptop", "0901111111", models.SupportLaptop)
	require.NoError(t, s.db.Create(&models.Laptop{DonorID: &donor.ID, Status: models.ItemStatusAvailable}).Error)
	require.NoError(t, s.db.Create(&models.Laptop{Status: models.ItemStatusDelivered}).Error)

	t.Run("filters by status", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/admin/inventory/laptops?status=available", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["total"])
	})

	t.Run("filters by donor", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet,
			fmt.Sprintf("/api/admin/inventory/laptops?donor_id=%d", donor.ID), nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["total"])
	})
}
