package debugui

import (
	"github.com/plus3/sigecs/ecs"
)

// Window is a debug window drawn over a World once per frame.
type Window interface {
	Render(world *ecs.World)
}

// Windows bundles the standard debug windows. The component inspector follows
// the entity browser's selection.
type Windows struct {
	Entities    *EntityBrowser
	Inspector   *ComponentInspector
	Archetypes  *ArchetypeViewer
	Systems     *SystemViewer
	Matcher     *SignatureMatcher
	Performance *PerformanceStats
}

// NewWindows creates the standard debug windows.
func NewWindows() *Windows {
	browser := NewEntityBrowser(100)
	return &Windows{
		Entities:    browser,
		Inspector:   NewComponentInspector(browser),
		Archetypes:  NewArchetypeViewer(),
		Systems:     NewSystemViewer(),
		Matcher:     NewSignatureMatcher(),
		Performance: NewPerformanceStats(120),
	}
}

// All returns the windows in drawing order.
func (w *Windows) All() []Window {
	return []Window{w.Entities, w.Inspector, w.Archetypes, w.Systems, w.Matcher, w.Performance}
}
