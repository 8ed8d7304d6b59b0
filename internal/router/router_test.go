package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mappo-toolkit/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTP_EndToEnd_CaptureToHome(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	deviceID := "device-1"

	// 1) Capturar antes de activar => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/camera/capture", deviceID, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 capture while idle, got %d", st)
		}
	}

	// 2) Activar (el dispositivo simulado concede todo)
	{
		st, body := doReq(t, ts.URL, "POST", "/camera/activate", deviceID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 activate, got %d body=%s", st, string(body))
		}
		var resp struct {
			State string `json:"state"`
		}
		_ = json.Unmarshal(body, &resp)
		assert.Equal(t, "active", resp.State)
	}

	// 3) Foto + confirmación
	photoID := capturePhoto(t, ts.URL, deviceID)
	{
		st, body := doReq(t, ts.URL, "POST", "/camera/confirm", deviceID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 confirm, got %d body=%s", st, string(body))
		}
		var resp struct {
			Photo   struct{ ID string } `json:"photo"`
			Gallery struct {
				Status string `json:"status"`
			} `json:"gallery"`
		}
		_ = json.Unmarshal(body, &resp)
		assert.Equal(t, photoID, resp.Photo.ID)
		assert.Equal(t, "delivered", resp.Gallery.Status)
	}

	// 4) Inicio la muestra
	{
		st, body := doReq(t, ts.URL, "GET", "/home", deviceID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 home, got %d body=%s", st, string(body))
		}
		var resp struct {
			Photos []struct {
				ID string `json:"id"`
			} `json:"photos"`
		}
		_ = json.Unmarshal(body, &resp)
		require.Len(t, resp.Photos, 1)
		assert.Equal(t, photoID, resp.Photos[0].ID)
	}

	// 5) Otro dispositivo no ve nada
	{
		st, body := doReq(t, ts.URL, "GET", "/home", "device-2", nil)
		require.Equal(t, http.StatusOK, st)
		var resp struct {
			Photos []json.RawMessage `json:"photos"`
		}
		_ = json.Unmarshal(body, &resp)
		assert.Empty(t, resp.Photos)
	}

	// 6) Borrar
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/home/photos/"+photoID, deviceID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete photo, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "DELETE", "/home/photos/"+photoID, deviceID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 deleting twice, got %d", st)
		}
	}
}

func TestHTTP_RequiresDeviceHeader(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "GET", "/camera", "", nil)
	assert.Equal(t, http.StatusBadRequest, st)

	st, _ = doReq(t, ts.URL, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, st)
}

func TestHTTP_Scanner_LockDiscardsRepeats(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	deviceID := "scanner-1"

	st, body := doReq(t, ts.URL, "POST", "/scanner/start", deviceID, nil)
	require.Equal(t, http.StatusOK, st, string(body))

	type recognition struct {
		Accepted bool `json:"accepted"`
		Result   *struct {
			Kind string `json:"kind"`
		} `json:"result"`
		Link *struct {
			Status    string `json:"status"`
			OpenedURL string `json:"opened_url"`
		} `json:"link"`
	}

	ev := map[string]any{"payload": "example.com/menu", "code_type": "qr"}

	st, body = doReq(t, ts.URL, "POST", "/scanner/events", deviceID, ev)
	require.Equal(t, http.StatusOK, st, string(body))
	var first recognition
	require.NoError(t, json.Unmarshal(body, &first))
	assert.True(t, first.Accepted)
	require.NotNil(t, first.Result)
	assert.Equal(t, "link", first.Result.Kind)
	require.NotNil(t, first.Link)
	assert.Equal(t, "delivered", first.Link.Status)
	assert.Equal(t, "https://example.com/menu", first.Link.OpenedURL)

	// mismo frame enseguida => bloqueado
	st, body = doReq(t, ts.URL, "POST", "/scanner/events", deviceID, ev)
	require.Equal(t, http.StatusOK, st)
	var second recognition
	require.NoError(t, json.Unmarshal(body, &second))
	assert.False(t, second.Accepted)

	st, body = doReq(t, ts.URL, "GET", "/scanner", deviceID, nil)
	require.Equal(t, http.StatusOK, st)
	var snap struct {
		State string `json:"state"`
	}
	_ = json.Unmarshal(body, &snap)
	assert.Equal(t, "locked", snap.State)

	// la cámara la tiene el escáner
	st, _ = doReq(t, ts.URL, "POST", "/camera/activate", deviceID, nil)
	assert.Equal(t, http.StatusServiceUnavailable, st)

	st, _ = doReq(t, ts.URL, "POST", "/scanner/stop", deviceID, nil)
	require.Equal(t, http.StatusOK, st)
	st, _ = doReq(t, ts.URL, "POST", "/camera/activate", deviceID, nil)
	assert.Equal(t, http.StatusOK, st)
}

func TestHTTP_Calendar_ValidatesBeforeScheduling(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	deviceID := "calendar-1"

	{
		st, body := doReq(t, ts.URL, "POST", "/calendar/events", deviceID, map[string]any{
			"title": "Tour",
			"start": "not-a-date",
		})
		require.Equal(t, http.StatusBadRequest, st)
		var resp struct {
			Error  string `json:"error"`
			Reason string `json:"reason"`
		}
		_ = json.Unmarshal(body, &resp)
		assert.Equal(t, "invalid_input", resp.Error)
		assert.Equal(t, "invalid_date_time", resp.Reason)
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/calendar/events", deviceID, map[string]any{
			"title": "   ",
			"start": "2024-03-10 10:00",
		})
		require.Equal(t, http.StatusBadRequest, st)
		assert.Contains(t, string(body), "missing_title")
	}

	start := time.Now().Add(48 * time.Hour).Format("2006-01-02 15:04")
	{
		st, body := doReq(t, ts.URL, "POST", "/calendar/events", deviceID, map[string]any{
			"title":    "Tour",
			"location": "Plaza",
			"start":    start,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 schedule, got %d body=%s", st, string(body))
		}
		var resp struct {
			EventID string `json:"event_id"`
			Request struct {
				Start time.Time `json:"start"`
				End   time.Time `json:"end"`
			} `json:"request"`
		}
		_ = json.Unmarshal(body, &resp)
		assert.NotEmpty(t, resp.EventID)
		assert.Equal(t, 90*time.Minute, resp.Request.End.Sub(resp.Request.Start))
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/home", deviceID, nil)
		require.Equal(t, http.StatusOK, st)
		var resp struct {
			Upcoming []struct {
				Title string `json:"title"`
			} `json:"upcoming"`
		}
		_ = json.Unmarshal(body, &resp)
		require.Len(t, resp.Upcoming, 1)
		assert.Equal(t, "Tour", resp.Upcoming[0].Title)
	}
}

func TestHTTP_Comms_WhatsAppFallsBackOnce(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	deviceID := "comms-1"

	st, body := doReq(t, ts.URL, "POST", "/comms/whatsapp", deviceID, map[string]any{
		"number":  "+54 9 11 5555-0000",
		"message": "hola",
	})
	require.Equal(t, http.StatusOK, st, string(body))
	var resp struct {
		Status       string `json:"status"`
		OpenedURL    string `json:"opened_url"`
		UsedFallback bool   `json:"used_fallback"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "delivered", resp.Status)
	assert.True(t, resp.UsedFallback)
	assert.Equal(t, "https://wa.me/5491155550000?text=hola", resp.OpenedURL)

	st, _ = doReq(t, ts.URL, "POST", "/comms/call", deviceID, map[string]any{"number": "abc"})
	assert.Equal(t, http.StatusBadRequest, st)
}

func TestHTTP_Permissions_EnsureAndList(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	deviceID := "perm-1"

	st, _ := doReq(t, ts.URL, "POST", "/permissions/teleport/ensure", deviceID, nil)
	assert.Equal(t, http.StatusNotFound, st)

	st, body := doReq(t, ts.URL, "POST", "/permissions/calendar/ensure", deviceID, nil)
	require.Equal(t, http.StatusOK, st, string(body))
	assert.Contains(t, string(body), `"granted"`)

	st, body = doReq(t, ts.URL, "GET", "/permissions", deviceID, nil)
	require.Equal(t, http.StatusOK, st)
	var list []struct {
		Capability string `json:"capability"`
		Status     string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	got := map[string]string{}
	for _, p := range list {
		got[p.Capability] = p.Status
	}
	assert.Equal(t, "granted", got["calendar"])
	assert.Equal(t, "unknown", got["camera"])
}

func capturePhoto(t *testing.T, baseURL, deviceID string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/camera/capture", deviceID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 capture, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("capture: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, deviceID string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if deviceID != "" {
		req.Header.Set("X-Device-ID", deviceID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}
