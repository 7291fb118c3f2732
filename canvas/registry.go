package canvas

import (
	"sort"

	"oss.terrastruct.com/canvas/diagram"
	"oss.terrastruct.com/canvas/lib/syncmap"
)

// Registry holds one canvas per open diagram and is safe for concurrent use. The canvases
// themselves are not.
type Registry struct {
	opts     Options
	canvases syncmap.SyncMap[string, *Canvas]
}

func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:     opts,
		canvases: syncmap.New[string, *Canvas](),
	}
}

// Open returns the canvas of diagram id, creating it over store and exec when the diagram
// is not open yet. opened is false when an existing canvas was returned.
func (r *Registry) Open(id string, store diagram.Store, exec diagram.Executor) (c *Canvas, opened bool) {
	if c, ok := r.canvases.Lookup(id); ok {
		return c, false
	}
	c, loaded := r.canvases.LoadOrStore(id, New(id, store, exec, r.opts))
	return c, !loaded
}

func (r *Registry) Get(id string) (*Canvas, bool) {
	return r.canvases.Lookup(id)
}

// Close forgets the canvas of diagram id and reports whether it was open.
func (r *Registry) Close(id string) bool {
	_, ok := r.canvases.LoadAndDelete(id)
	return ok
}

func (r *Registry) IDs() []string {
	var ids []string
	r.canvases.Range(func(id string, _ *Canvas) bool {
		ids = append(ids, id)
		return true
	})
	sort.Strings(ids)
	return ids
}
