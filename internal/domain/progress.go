package domain

import (
	"context"
	"sync/atomic"

	"evaldriver.dev/pkg/evaldriver/internal/controller"
	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

// Progress counts finished pipeline steps across all workers.
type Progress struct {
	ui    controller.UI
	total int
	done  atomic.Int64
}

// NewProgress creates a tracker with the given denominator.
func NewProgress(total int, ui controller.UI) *Progress {
	return &Progress{ui: ui, total: total}
}

// Advance marks n steps as finished and reports the new position.
func (p *Progress) Advance(ctx context.Context, n int, message string) {
	if n <= 0 {
		return
	}

	done := int(p.done.Add(int64(n)))

	p.ui.DisplayProgress(ctx, m.Progress{Message: message, Done: done, Total: p.total})
}

// Done returns the number of finished steps.
func (p *Progress) Done() int {
	return int(p.done.Load())
}

// Total returns the denominator.
func (p *Progress) Total() int {
	return p.total
}
