package catch

// Object is a falling token. X/Y is the top-left corner of its box; VY is
// fixed at spawn.
type Object struct {
	ID    int     `json:"id"`
	Token Token   `json:"token"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VY    float64 `json:"vy"`
}

// Registry owns the falling objects of one round, in spawn order.
type Registry struct {
	w, h    float64 // object box size
	objects []Object
	nextID  int
}

// NewRegistry returns an empty registry for objects of size w×h.
func NewRegistry(w, h float64) *Registry {
	return &Registry{w: w, h: h}
}

// Spawn adds an object at horizontal position x, just above the visible
// area, falling at vy px/s.
func (r *Registry) Spawn(tok Token, x, vy float64) Object {
	r.nextID++
	o := Object{ID: r.nextID, Token: tok, X: x, Y: -r.h, VY: vy}
	r.objects = append(r.objects, o)
	return o
}

// AdvanceAll moves every object down by its velocity over dt ms.
func (r *Registry) AdvanceAll(dt float64) {
	for i := range r.objects {
		r.objects[i].Y += r.objects[i].VY * dt / 1000
	}
}

// Prune removes and returns every object for which remove is true. The
// predicate is called exactly once per object, in spawn order, so
// collision checks and removal can share the pass.
func (r *Registry) Prune(remove func(Object) bool) []Object {
	var removed []Object
	kept := r.objects[:0]
	for _, o := range r.objects {
		if remove(o) {
			removed = append(removed, o)
			continue
		}
		kept = append(kept, o)
	}
	// Drop stale tail references.
	for i := len(kept); i < len(r.objects); i++ {
		r.objects[i] = Object{}
	}
	r.objects = kept
	return removed
}

// Box returns the hitbox of o.
func (r *Registry) Box(o Object) Box {
	return Box{X: o.X, Y: o.Y, W: r.w, H: r.h}
}

// Objects returns a copy of the active objects.
func (r *Registry) Objects() []Object {
	return append([]Object(nil), r.objects...)
}

func (r *Registry) Len() int { return len(r.objects) }

// Clear removes all objects. IDs keep counting up.
func (r *Registry) Clear() {
	r.objects = nil
}
