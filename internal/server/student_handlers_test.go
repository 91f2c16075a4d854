package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"tiepbuoc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStudent(t *testing.T, s *Server, name, phone string) *models.Student {
	t.Helper()
	student := &models.Student{
		FullName:   name,
		Phone:      phone,
		NeedLaptop: true,
		IsActive:   true,
	}
	require.NoError(t, s.db.Create(student).Error)
	return student
}

func TestGetStudent(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s, "operator", true)
	student := seedStudent(t, s, "Trần Thị B", "0911111111")

	resp, body := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/admin/students/%d", student.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, student.DisplayCode(), body["code"])
	entry := body["student"].(map[string]any)
	assert.Equal(t, "Trần Thị B", entry["full_name"])
}

func TestUpdateStudent(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s, "operator", true)
	student := seedStudent(t, s, "Trần Thị B", "0911111111")
	path := fmt.Sprintf("/api/admin/students/%d", student.ID)

	t.Run("marking support received stamps the date once", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, path, map[string]any{
			"laptop_received": true,
		}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stored models.Student
		require.NoError(t, s.db.First(&stored, student.ID).Error)
		require.True(t, stored.LaptopReceived)
		require.NotNil(t, stored.LaptopReceivedAt)
		firstStamp := *stored.LaptopReceivedAt

		// A second identical update must not move the timestamp.
		time.Sleep(10 * time.Millisecond)
		resp, _ = doJSON(t, app, http.MethodPut, path, map[string]any{
			"laptop_received": true,
		}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		require.NoError(t, s.db.First(&stored, student.ID).Error)
		require.NotNil(t, stored.LaptopReceivedAt)
		assert.True(t, stored.LaptopReceivedAt.Equal(firstStamp))
	})

	t.Run("clearing a received flag clears the date", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, path, map[string]any{
			"laptop_received": false,
		}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stored models.Student
		require.NoError(t, s.db.First(&stored, student.ID).Error)
		assert.False(t, stored.LaptopReceived)
		assert.Nil(t, stored.LaptopReceivedAt)
	})

	t.Run("updates situational fields", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, path, map[string]any{
			"academic_year": "12",
			"need_tuition":  true,
		}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stored models.Student
		require.NoError(t, s.db.First(&stored, student.ID).Error)
		assert.Equal(t, "12", stored.AcademicYear)
		assert.True(t, stored.NeedTuition)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, path, map[string]any{"full_name": ""}, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListStudents(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s, "operator", true)

	laptopOnly := seedStudent(t, s, "Cần Laptop", "0911111111")
	tuition := &models.Student{FullName: "Cần Học Phí", Phone: "0922222222", NeedTuition: true, IsActive: true}
	require.NoError(t, s.db.Create(tuition).Error)

	t.Run("filters by need", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/admin/students?need_type=tuition", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["total"])
	})

	t.Run("searches by name", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/admin/students?search=Laptop", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["total"])
		students := body["students"].([]any)
		assert.EqualValues(t, laptopOnly.ID, students[0].(map[string]any)["id"])
	})
}

func TestDeactivateStudent(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createAdmin(t, s, "operator", true)
	student := seedStudent(t, s, "Trần Thị B", "0911111111")

	resp, _ := doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/admin/students/%d", student.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.Student
	require.NoError(t, s.db.First(&stored, student.ID).Error)
	assert.False(t, stored.IsActive)

	// Deactivated students disappear from the public list.
	resp, body := doJSON(t, app, http.MethodGet, "/api/public/students", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["students"])
}
