// Package gesture recognises whole-body poses used to gate level progress.
package gesture

import (
	"sort"

	"github.com/ayusman/posejump/internal/detector"
	"github.com/ayusman/posejump/internal/pose"
)

// ArmsAboveHeadName is the registry name of ArmsAboveHead.
const ArmsAboveHeadName = "arms_above_head"

// Predicate reports whether a frame's landmarks show a gesture.
type Predicate func(p pose.Points) bool

// ArmsAboveHead reports whether both wrists are above the ear on the same
// side. Smaller y is higher on screen.
func ArmsAboveHead(p pose.Points) bool {
	rw, ok1 := p.Get(detector.RightWrist)
	re, ok2 := p.Get(detector.RightEar)
	lw, ok3 := p.Get(detector.LeftWrist)
	le, ok4 := p.Get(detector.LeftEar)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return rw.Y < re.Y && lw.Y < le.Y
}

// Registry maps gesture names to predicates. It is read from the game loop
// only and is not safe for concurrent use.
type Registry struct {
	predicates map[string]Predicate
}

// NewRegistry creates a Registry holding the built-in gestures.
func NewRegistry() *Registry {
	r := &Registry{predicates: make(map[string]Predicate)}
	r.Register(ArmsAboveHeadName, ArmsAboveHead)
	return r
}

// Register adds or replaces a named predicate. A nil predicate is ignored.
func (r *Registry) Register(name string, fn Predicate) {
	if fn == nil {
		return
	}
	r.predicates[name] = fn
}

// Lookup returns the predicate registered under name.
func (r *Registry) Lookup(name string) (Predicate, bool) {
	fn, ok := r.predicates[name]
	return fn, ok
}

// Names returns the registered gesture names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.predicates))
	for name := range r.predicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check evaluates the named gesture. Unknown names never match.
func (r *Registry) Check(name string, p pose.Points) bool {
	fn, ok := r.Lookup(name)
	return ok && fn(p)
}
