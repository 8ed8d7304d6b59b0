package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"mappo-toolkit/internal/platform/httpclient"
	"mappo-toolkit/internal/ports/calendar"
	"mappo-toolkit/internal/ports/device"
	"mappo-toolkit/internal/ports/permissions"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBridge imita el servidor nativo del shell.
func fakeBridge(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()

	var (
		mu      sync.Mutex
		devices []string
	)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			devices = append(devices, r.Header.Get(DeviceHeader))
			mu.Unlock()
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/permissions/{capability}/request", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]bool{"granted": chi.URLParam(r, "capability") != "calendar"})
	})
	r.Get("/permissions/{capability}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]bool{"granted": true})
	})
	r.Post("/camera/picture", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Quality float64 `json:"quality"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Quality != 0.7 {
			http.Error(w, "bad quality", http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]string{"uri": "file:///bridge/1.jpg"})
	})
	r.Post("/gallery", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "storage full", http.StatusInsufficientStorage)
	})
	r.Post("/links/can-open", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			URL string `json:"url"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeJSON(w, map[string]bool{"can_open": in.URL == "tel:123"})
	})
	r.Post("/links/open", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/calendars", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"id": "c1", "title": "Personal", "modifiable": true}})
	})
	r.Post("/calendars/{id}/events", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": "ev-" + chi.URLParam(r, "id")})
	})
	r.Get("/calendars/{id}/events", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("from") == "" || r.URL.Query().Get("to") == "" {
			http.Error(w, "range required", http.StatusBadRequest)
			return
		}
		writeJSON(w, []map[string]any{{
			"id":    "ev-1",
			"title": "Tour",
			"start": "2024-03-10T10:00:00Z",
			"end":   "2024-03-10T11:30:00Z",
		}})
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), devices...)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.True(t, errors.Is(err, ErrBridgeNotConfigured))
}

func TestClient_DevicePorts(t *testing.T) {
	ts, devices := fakeBridge(t)
	base, err := NewClient(Config{BaseURL: ts.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	c := base.ForDevice("phone-7")
	ctx := context.Background()

	granted, err := c.Request(ctx, permissions.Camera)
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = c.Request(ctx, permissions.Calendar)
	require.NoError(t, err)
	assert.False(t, granted)

	granted, err = c.Status(ctx, permissions.Camera)
	require.NoError(t, err)
	assert.True(t, granted)

	pic, err := c.TakePicture(ctx, device.CaptureOptions{Quality: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "file:///bridge/1.jpg", pic.URI)

	err = c.Save(ctx, pic.URI)
	assert.True(t, errors.Is(err, ErrBridgeUpstream))
	assert.True(t, httpclient.IsStatus(err, http.StatusInsufficientStorage))

	ok, err := c.CanOpen(ctx, "tel:123")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.CanOpen(ctx, "whatsapp://send")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, c.Open(ctx, "tel:123"))

	seen := devices()
	require.NotEmpty(t, seen)
	for _, d := range seen {
		assert.Equal(t, "phone-7", d)
	}
}

func TestClient_Calendar(t *testing.T) {
	ts, _ := fakeBridge(t)
	base, err := NewClient(Config{BaseURL: ts.URL})
	require.NoError(t, err)
	c := base.ForDevice("phone-7")
	ctx := context.Background()

	cals, err := c.ListCalendars(ctx)
	require.NoError(t, err)
	assert.Equal(t, []calendar.Calendar{{ID: "c1", Title: "Personal", Modifiable: true}}, cals)

	start := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	id, err := c.CreateEvent(ctx, "c1", calendar.EventInput{Title: "Tour", Start: start, End: start.Add(90 * time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, "ev-c1", id)

	evs, err := c.ListEvents(ctx, "c1", start.Add(-time.Hour), start.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "c1", evs[0].CalendarID)
	assert.Equal(t, start, evs[0].Start)
}
