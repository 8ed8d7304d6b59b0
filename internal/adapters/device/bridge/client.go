// Package bridge habla con el puente nativo del shell móvil: un servidor HTTP
// local que expone permisos, cámara, galería, calendario y apertura de URLs.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mappo-toolkit/internal/platform/httpclient"
	"mappo-toolkit/internal/ports/calendar"
	"mappo-toolkit/internal/ports/device"
	"mappo-toolkit/internal/ports/permissions"
)

var (
	ErrBridgeNotConfigured = errors.New("device bridge not configured")
	ErrBridgeUpstream      = errors.New("device bridge upstream error")
)

const DeviceHeader = "X-Device-ID"

type Config struct {
	BaseURL string
	// Los diálogos del SO pueden tardar; <0 desactiva el timeout.
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client implementa todos los puertos de dispositivo contra el puente.
type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrBridgeNotConfigured
	}
	hc, err := httpclient.New(cfg.BaseURL, cfg.Timeout, cfg.Transport)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

// ForDevice devuelve un cliente que identifica al dispositivo en cada request.
func (c *Client) ForDevice(deviceID string) *Client {
	return &Client{http: c.http.WithHeader(DeviceHeader, deviceID)}
}

type grantResponse struct {
	Granted bool `json:"granted"`
}

func (c *Client) Status(ctx context.Context, cap permissions.Capability) (bool, error) {
	var out grantResponse
	if err := c.http.DoJSON(ctx, http.MethodGet, "/permissions/"+url.PathEscape(string(cap)), nil, &out); err != nil {
		return false, upstream(err)
	}
	return out.Granted, nil
}

func (c *Client) Request(ctx context.Context, cap permissions.Capability) (bool, error) {
	var out grantResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, "/permissions/"+url.PathEscape(string(cap))+"/request", nil, &out); err != nil {
		return false, upstream(err)
	}
	return out.Granted, nil
}

type pictureRequest struct {
	Quality float64 `json:"quality"`
}

type pictureResponse struct {
	URI string `json:"uri"`
}

func (c *Client) TakePicture(ctx context.Context, opts device.CaptureOptions) (device.Picture, error) {
	var out pictureResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, "/camera/picture", pictureRequest{Quality: opts.Quality}, &out); err != nil {
		return device.Picture{}, upstream(err)
	}
	return device.Picture{URI: out.URI}, nil
}

type uriRequest struct {
	URI string `json:"uri"`
}

func (c *Client) Save(ctx context.Context, uri string) error {
	if err := c.http.DoJSON(ctx, http.MethodPost, "/gallery", uriRequest{URI: uri}, nil); err != nil {
		return upstream(err)
	}
	return nil
}

type linkRequest struct {
	URL string `json:"url"`
}

type canOpenResponse struct {
	CanOpen bool `json:"can_open"`
}

func (c *Client) CanOpen(ctx context.Context, u string) (bool, error) {
	var out canOpenResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, "/links/can-open", linkRequest{URL: u}, &out); err != nil {
		return false, upstream(err)
	}
	return out.CanOpen, nil
}

func (c *Client) Open(ctx context.Context, u string) error {
	if err := c.http.DoJSON(ctx, http.MethodPost, "/links/open", linkRequest{URL: u}, nil); err != nil {
		return upstream(err)
	}
	return nil
}

type calendarDTO struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Modifiable bool   `json:"modifiable"`
}

type eventRequest struct {
	Title    string    `json:"title"`
	Location string    `json:"location"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Notes    string    `json:"notes"`
}

type eventDTO struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func (c *Client) ListCalendars(ctx context.Context) ([]calendar.Calendar, error) {
	var out []calendarDTO
	if err := c.http.DoJSON(ctx, http.MethodGet, "/calendars", nil, &out); err != nil {
		return nil, upstream(err)
	}
	cals := make([]calendar.Calendar, 0, len(out))
	for _, d := range out {
		cals = append(cals, calendar.Calendar{ID: d.ID, Title: d.Title, Modifiable: d.Modifiable})
	}
	return cals, nil
}

func (c *Client) CreateEvent(ctx context.Context, calendarID string, in calendar.EventInput) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	path := "/calendars/" + url.PathEscape(calendarID) + "/events"
	err := c.http.DoJSON(ctx, http.MethodPost, path, eventRequest{
		Title:    in.Title,
		Location: in.Location,
		Start:    in.Start,
		End:      in.End,
		Notes:    in.Notes,
	}, &out)
	if err != nil {
		return "", upstream(err)
	}
	if strings.TrimSpace(out.ID) == "" {
		return "", fmt.Errorf("%w: missing event id", ErrBridgeUpstream)
	}
	return out.ID, nil
}

func (c *Client) ListEvents(ctx context.Context, calendarID string, from, to time.Time) ([]calendar.Event, error) {
	q := url.Values{}
	q.Set("from", from.UTC().Format(time.RFC3339))
	q.Set("to", to.UTC().Format(time.RFC3339))
	path := "/calendars/" + url.PathEscape(calendarID) + "/events?" + q.Encode()

	var out []eventDTO
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, upstream(err)
	}
	evs := make([]calendar.Event, 0, len(out))
	for _, d := range out {
		evs = append(evs, calendar.Event{
			ID:         d.ID,
			CalendarID: calendarID,
			Title:      d.Title,
			Location:   d.Location,
			Start:      d.Start,
			End:        d.End,
		})
	}
	return evs, nil
}

func upstream(err error) error {
	return fmt.Errorf("%w: %w", ErrBridgeUpstream, err)
}
