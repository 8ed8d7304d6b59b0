package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"
)

type ctxKey string

const deviceKey ctxKey = "device_id"

const DeviceHeader = "X-Device-ID"

var validDeviceID = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// DeviceContext lee X-Device-ID y lo deja en el contexto.
// Sin header (o con uno inválido) el request sigue igual; los handlers
// deciden si lo exigen.
func DeviceContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(DeviceHeader))
		if id == "" || !validDeviceID.MatchString(id) {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), deviceKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithDeviceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, deviceKey, id)
}

func DeviceID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(deviceKey).(string)
	return v, ok && v != ""
}

// RequireDevice corta con 400 si no hay dispositivo identificado.
func RequireDevice(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := DeviceID(r.Context()); !ok {
			http.Error(w, "X-Device-ID header required", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}
