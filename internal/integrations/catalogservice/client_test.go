package catalogservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(srv.URL, 2*time.Second, noopLogger{})
	return client, srv
}

func TestClient_GetCompany(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/companies/1", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 1,
			"name": "Салон Аврора",
			"timezone": "Europe/Moscow",
			"manager_ids": [100],
			"staff": [
				{"id": 7, "name": "Анна", "service_ids": [3, 4], "is_active": true}
			],
			"working_hours": {
				"monday": {"is_open": true, "open_time": "09:00", "close_time": "20:00"},
				"sunday": {"is_open": false}
			}
		}`))
	}))
	defer srv.Close()

	company, err := client.GetCompany(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), company.ID)
	assert.Equal(t, "Салон Аврора", company.Name)
	assert.Equal(t, []int64{100}, company.ManagerIDs)
	require.Len(t, company.Staff, 1)
	assert.Equal(t, int64(7), company.Staff[0].ID)
	assert.True(t, company.Staff[0].IsActive)

	monday := company.WorkingHoursForDay(time.Monday)
	require.True(t, monday.IsOpen)
	require.NotNil(t, monday.OpenTime)
	assert.Equal(t, "09:00", *monday.OpenTime)

	sunday := company.WorkingHoursForDay(time.Sunday)
	assert.False(t, sunday.IsOpen)
}

func TestClient_GetCompany_NotFound(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := client.GetCompany(context.Background(), 999)
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestClient_GetService(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/companies/1/services/3", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 3,
			"company_id": 1,
			"name": "Стрижка",
			"duration_minutes": 45,
			"price": 1500,
			"staff_ids": [7]
		}`))
	}))
	defer srv.Close()

	service, err := client.GetService(context.Background(), 1, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(3), service.ID)
	assert.Equal(t, "Стрижка", service.Name)
	assert.Equal(t, 45, service.DurationMinutes)
	require.NotNil(t, service.Price)
	assert.Equal(t, 1500.0, *service.Price)
}

func TestClient_GetService_NotFound(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := client.GetService(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestClient_GetServiceDurations(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/companies/1/services/durations", r.URL.Path)
		assert.Equal(t, "3,4", r.URL.Query().Get("ids"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 3, "duration_minutes": 45},
			{"id": 4, "duration_minutes": 30}
		]`))
	}))
	defer srv.Close()

	durations, err := client.GetServiceDurations(context.Background(), 1, []int64{3, 4})
	require.NoError(t, err)

	require.Len(t, durations, 2)
	assert.Equal(t, int64(3), durations[0].ID)
	assert.Equal(t, 45, durations[0].DurationMinutes)
	assert.Equal(t, 30, durations[1].DurationMinutes)
}

func TestClient_GetCompany_ServerError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("database down"))
	}))
	defer srv.Close()

	_, err := client.GetCompany(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_GetCompany_BadRequest(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := client.GetCompany(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_GetCompany_MalformedJSON(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": `))
	}))
	defer srv.Close()

	_, err := client.GetCompany(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_GetCompany_ServiceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, 500*time.Millisecond, noopLogger{})

	_, err := client.GetCompany(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInternal)
}
