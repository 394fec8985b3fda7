package nav

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ziadkadry99/docview/internal/view"
)

// guarded forwards to a surface only while its token is the latest one
// issued, so a load that was overtaken by a newer one cannot overwrite it.
// Writes hold mu so the check and the write are not split by another load.
type guarded struct {
	inner   view.Surface
	token   uint64
	current *atomic.Uint64
	mu      *sync.Mutex
}

var _ view.Surface = guarded{}

func (g guarded) live() bool { return g.current.Load() == g.token }

func (g guarded) write(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.live() {
		fn()
	}
}

func (g guarded) SetHTML(target view.Target, html string) {
	g.write(func() { g.inner.SetHTML(target, html) })
}

func (g guarded) ShowProgress(text string, percent int) {
	g.write(func() { g.inner.ShowProgress(text, percent) })
}

func (g guarded) HideProgress() {
	g.write(g.inner.HideProgress)
}

func (g guarded) RenderMath(ctx context.Context) error {
	if !g.live() {
		return nil
	}
	return g.inner.RenderMath(ctx)
}

func (g guarded) RenderDiagrams(ctx context.Context, diagrams []view.Diagram) error {
	if !g.live() {
		return nil
	}
	return g.inner.RenderDiagrams(ctx, diagrams)
}

func (g guarded) Scroll(s view.Scroll) {
	g.write(func() { g.inner.Scroll(s) })
}

func (g guarded) ApplyLayout(l view.Layout) {
	g.write(func() { g.inner.ApplyLayout(l) })
}
