package tags

import "sync"

// Class is an opaque handle to a concrete object class, as resolved by the
// external class registry collaborator. The loader core never inspects it;
// it is only ever round-tripped to the plugin factory.
type Class any

type classKey struct {
	tagName, variant string
}

// Registry holds the (tag name, variant) -> class mapping. Mutation is
// expected only before it is handed to a load (process init in the original
// design); Resolve is read-only and safe for concurrent use during Pass 2.
type Registry struct {
	mu      sync.RWMutex
	classes map[classKey]Class
}

// NewRegistry returns an empty class registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[classKey]Class)}
}

// Register binds (tagName, variant) to class. If tagName is "spectrum", the
// synonym "texture" is also registered for the same variant and class,
// since a texture is modeled as a kind of continuous spectrum here.
func (r *Registry) Register(tagName, variant string, class Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[classKey{tagName, variant}] = class
	if tagName == "spectrum" {
		r.classes[classKey{"texture", variant}] = class
	}
}

// Resolve looks up the class registered for (tagName, variant).
func (r *Registry) Resolve(tagName, variant string) (Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[classKey{tagName, variant}]
	return c, ok
}

// ResolveTag returns the tag kind for an element name: a fixed primitive
// kind if one exists, otherwise Object if a class is registered for
// (name, variant), otherwise Invalid.
func (r *Registry) ResolveTag(name, variant string) Kind {
	if k, ok := Primitive(name); ok {
		return k
	}
	if _, ok := r.Resolve(name, variant); ok {
		return Object
	}
	return Invalid
}
