package simulated

import (
	"context"
	"sync"

	"mappo-toolkit/internal/ports/permissions"
)

// PermissionProvider simula los diálogos del SO: cada Request responde
// según Answers (true si no hay respuesta configurada).
type PermissionProvider struct {
	mu       sync.Mutex
	answers  map[permissions.Capability]bool
	granted  map[permissions.Capability]bool
	requests map[permissions.Capability]int
}

func NewPermissionProvider(answers map[permissions.Capability]bool) *PermissionProvider {
	a := map[permissions.Capability]bool{}
	for k, v := range answers {
		a[k] = v
	}
	return &PermissionProvider{
		answers:  a,
		granted:  map[permissions.Capability]bool{},
		requests: map[permissions.Capability]int{},
	}
}

func (p *PermissionProvider) Status(_ context.Context, c permissions.Capability) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.granted[c], nil
}

func (p *PermissionProvider) Request(ctx context.Context, c permissions.Capability) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests[c]++
	ans, ok := p.answers[c]
	if !ok {
		ans = true
	}
	p.granted[c] = ans
	return ans, nil
}

// SetAnswer cambia la respuesta futura y, como en el SO, el estado actual
// (el usuario lo cambió desde ajustes).
func (p *PermissionProvider) SetAnswer(c permissions.Capability, granted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.answers[c] = granted
	p.granted[c] = granted
}

func (p *PermissionProvider) Requests(c permissions.Capability) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[c]
}
