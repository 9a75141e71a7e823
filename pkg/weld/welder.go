package weld

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/vertexweld/pkg/geom"
)

// Options controls welding behavior.
type Options struct {
	// ValidateIndices rejects draw calls referencing vertices past the
	// vertex count before anything is rewritten.
	ValidateIndices bool
}

// DefaultOptions returns the options used by New when none are given.
func DefaultOptions() Options {
	return Options{ValidateIndices: true}
}

// Stats summarizes the last Weld call.
type Stats struct {
	InputVertices  int
	OutputVertices int
	Channels       int
	DrawCalls      int
	Indices        int
	Duration       time.Duration
}

// Removed returns the number of vertices collapsed into representatives.
func (s Stats) Removed() int {
	return s.InputVertices - s.OutputVertices
}

// Welder deduplicates mesh vertices. The index maps of the last Weld call
// stay available for inspection. A Welder is not safe for concurrent use.
type Welder struct {
	log  *zap.Logger
	opts Options

	newToOld []int
	oldToNew []int
	stats    Stats
}

// New creates a welder. A nil logger disables logging.
func New(log *zap.Logger, opts Options) *Welder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Welder{log: log, opts: opts}
}

// NewToOld returns the original index of each kept vertex, in new order.
func (w *Welder) NewToOld() []int {
	return slices.Clone(w.newToOld)
}

// OldToNew returns the new index of every original vertex.
func (w *Welder) OldToNew() []int {
	return slices.Clone(w.oldToNew)
}

// Stats returns statistics of the last Weld call.
func (w *Welder) Stats() Stats {
	return w.stats
}

// Weld replaces every attribute array of m with a compacted copy holding
// one vertex per equivalence class and rewrites all draw calls to the
// compacted indices. The representative of a class is its lowest original
// index.
//
// On error m is left unchanged.
func (w *Welder) Weld(m *geom.Mesh) error {
	start := time.Now()
	w.newToOld = []int{}
	w.oldToNew = []int{}
	w.stats = Stats{}

	// Before the vertex count: a position array of bad arity reports no tuples.
	comp, err := NewComparator(m)
	if err != nil {
		return err
	}

	n := m.VertexCount()
	if n == 0 {
		w.log.Debug("weld skipped: mesh has no vertices", zap.String("mesh", m.Name))
		return nil
	}

	channels := m.Channels()
	for _, ch := range channels {
		if ch.Array.Len() != n {
			return fmt.Errorf("%w: channel %s has %d tuples, want %d",
				ErrAttributeLength, ch.ID, ch.Array.Len(), n)
		}
	}

	if w.opts.ValidateIndices {
		if err := validateIndices(m.DrawCalls, n); err != nil {
			return err
		}
	}

	newToOld, oldToNew := group(comp, n)

	arrays := make([]geom.Array, len(channels))
	for i, ch := range channels {
		arrays[i], err = Regenerate(ch.Array, newToOld)
		if err != nil {
			return fmt.Errorf("channel %s: %w", ch.ID, err)
		}
	}

	drawCalls := make([]geom.DrawCall, len(m.DrawCalls))
	indices := 0
	for i, dc := range m.DrawCalls {
		drawCalls[i], err = remapDrawCall(dc, oldToNew, len(newToOld))
		if err != nil {
			return fmt.Errorf("draw call %d (%s): %w", i, dc.Mode(), err)
		}
		indices += dc.Count()
	}

	// Commit.
	for i, ch := range channels {
		if err := m.SetChannel(ch.ID, arrays[i]); err != nil {
			panic(fmt.Sprintf("weld: storing channel %s: %v", ch.ID, err))
		}
	}
	m.DrawCalls = drawCalls

	w.newToOld = newToOld
	w.oldToNew = oldToNew
	w.stats = Stats{
		InputVertices:  n,
		OutputVertices: len(newToOld),
		Channels:       len(channels),
		DrawCalls:      len(drawCalls),
		Indices:        indices,
		Duration:       time.Since(start),
	}

	w.log.Debug("mesh welded",
		zap.String("mesh", m.Name),
		zap.Int("vertices_in", n),
		zap.Int("vertices_out", len(newToOld)),
		zap.Stringers("channels", comp.Channels()),
		zap.Int("draw_calls", len(drawCalls)),
		zap.Duration("took", w.stats.Duration),
	)
	return nil
}

// group sorts the vertices so equal ones become contiguous, then assigns
// one new index per run. Ties are broken by original index so the first
// vertex of each run is the lowest original index of its class.
func group(c *Comparator, n int) (newToOld, oldToNew []int) {
	verti := make([]int, n)
	for i := range verti {
		verti[i] = i
	}
	slices.SortFunc(verti, func(a, b int) int {
		if r := c.Compare(a, b); r != 0 {
			return r
		}
		return a - b
	})

	oldToNew = make([]int, n)
	newToOld = make([]int, 0, n)
	classStart := verti[0]
	newToOld = append(newToOld, classStart)
	for _, v := range verti {
		if !c.Equal(classStart, v) {
			if !c.Less(classStart, v) {
				panic(fmt.Sprintf("weld: comparator is not a strict weak order (vertices %d and %d)", classStart, v))
			}
			classStart = v
			newToOld = append(newToOld, classStart)
		}
		oldToNew[v] = len(newToOld) - 1
	}
	return newToOld, oldToNew
}

// validateIndices checks that every non-restart index addresses one of the
// n vertices.
func validateIndices(drawCalls []geom.DrawCall, n int) error {
	for i, dc := range drawCalls {
		restart, hasRestart := dc.RestartIndex()
		pos := 0
		for idx := range dc.Indices() {
			if !(hasRestart && idx == restart) && int64(idx) >= int64(n) {
				return fmt.Errorf("%w: draw call %d (%s) position %d references vertex %d of %d",
					ErrIndexOutOfRange, i, dc.Mode(), pos, idx, n)
			}
			pos++
		}
	}
	return nil
}

// remapDrawCall returns a DrawElements with the same primitive and index
// count as dc whose indices are oldToNew applied to dc's. Restart markers
// are carried over; the source index type is kept when it can still address
// newCount vertices without colliding with the marker. An index past the end
// of oldToNew fails with ErrIndexOutOfRange.
func remapDrawCall(dc geom.DrawCall, oldToNew []int, newCount int) (*geom.DrawElements, error) {
	restart, hasRestart := dc.RestartIndex()

	out := &geom.DrawElements{
		Primitive: dc.Mode(),
		Type:      geom.NarrowestIndexType(newCount),
		Elements:  make([]uint32, 0, dc.Count()),
	}
	if src, ok := dc.(*geom.DrawElements); ok && indexTypeHolds(src, newCount) {
		out.Type = src.Type
	}
	if hasRestart {
		out.Restart = true
		out.RestartValue = out.Type.Max()
		if src, ok := dc.(*geom.DrawElements); ok && out.Type == src.Type {
			out.RestartValue = restart
		}
	}

	for idx := range dc.Indices() {
		if hasRestart && idx == restart {
			out.Elements = append(out.Elements, out.RestartValue)
			continue
		}
		if uint64(idx) >= uint64(len(oldToNew)) {
			return nil, fmt.Errorf("%w: position %d references vertex %d of %d",
				ErrIndexOutOfRange, len(out.Elements), idx, len(oldToNew))
		}
		out.Elements = append(out.Elements, uint32(oldToNew[idx]))
	}
	return out, nil
}

// indexTypeHolds reports whether src's index type can store every index
// below newCount without one of them equal to src's restart marker.
func indexTypeHolds(src *geom.DrawElements, newCount int) bool {
	if newCount == 0 {
		return true
	}
	largest := uint64(newCount - 1)
	if largest > uint64(src.Type.Max()) {
		return false
	}
	return !src.Restart || uint64(src.RestartValue) > largest
}
