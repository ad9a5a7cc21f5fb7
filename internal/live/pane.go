package live

import (
	"html/template"
	"sync"

	"github.com/starford/docshelf/internal/sse"
)

// Pane is the host container of one session. It keeps the current markup for
// page loads and pushes every replacement to the session's SSE clients.
type Pane struct {
	mu      sync.RWMutex
	content template.HTML
	broker  *sse.Broker
}

func newPane(broker *sse.Broker) *Pane {
	return &Pane{broker: broker}
}

// Replace swaps the whole content of the pane.
func (p *Pane) Replace(content template.HTML) {
	p.mu.Lock()
	p.content = content
	p.mu.Unlock()
	p.broker.PublishRender(content)
}

// Content returns the current markup.
func (p *Pane) Content() template.HTML {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.content
}
