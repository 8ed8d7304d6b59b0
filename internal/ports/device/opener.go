package device

import "context"

// URLOpener abre URLs/schemes (tel:, sms:, https:, whatsapp:) en el dispositivo.
type URLOpener interface {
	CanOpen(ctx context.Context, url string) (bool, error)
	Open(ctx context.Context, url string) error
}
