package device

import "context"

type Camera interface {
	TakePicture(ctx context.Context, opts CaptureOptions) (Picture, error)
}
