// Package instantiate implements Pass 2: a lazy, memoized, parallel
// topological materialization of a descriptor table into concrete
// objects, with alias resolution and object expansion (§4.8).
package instantiate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	mtsxmlerrors "github.com/InsigMath/mitsuba2/errors"
	"github.com/InsigMath/mitsuba2/internal/descriptor"
)

// Factory is the external plugin/factory collaborator: construct a
// concrete object from a descriptor's class and fully-resolved property
// bag (PluginManager.create in §6).
type Factory interface {
	Create(d *descriptor.Descriptor, props *descriptor.Properties) (descriptor.Object, error)
}

// Expander is the external collaborator that lets a freshly-built object
// reveal it is really a list of replacement objects (Object.expand in
// §6). Implementations whose objects never expand can return a single
// element slice unconditionally.
type Expander interface {
	Expand(obj descriptor.Object) ([]descriptor.Object, error)
}

// Instantiator runs Pass 2 against a fixed, already-built descriptor
// table. The table is treated as read-only; only each descriptor's
// Instance slot is written, once, under its own lock.
type Instantiator struct {
	Table    *descriptor.Table
	Factory  Factory
	Expander Expander
}

// Instantiate builds (or returns the memoized build of) the descriptor
// named id, and everything it transitively references.
func (in *Instantiator) Instantiate(ctx context.Context, id string) (descriptor.Object, error) {
	return in.instantiate(ctx, id, nil)
}

// instantiate threads chain, the ids currently being built on this call
// path, so that a descriptor whose own resolution (directly or
// transitively) depends on itself is reported as a cycle instead of
// deadlocking on its own non-reentrant lock (§4.8 Ordering guarantees, §5).
func (in *Instantiator) instantiate(ctx context.Context, id string, chain []string) (descriptor.Object, error) {
	for _, c := range chain {
		if c == id {
			return nil, mtsxmlerrors.New(mtsxmlerrors.ErrCycle, "reference cycle detected while instantiating %q", id)
		}
	}

	d, ok := in.Table.Lookup(id)
	if !ok {
		return nil, mtsxmlerrors.New(mtsxmlerrors.ErrUnknownRef, "unknown id %q", id)
	}

	d.Lock()
	if obj, err, built := d.Built(); built {
		d.Unlock()
		return obj, err
	}

	if d.Alias != "" {
		alias := d.Alias
		d.Unlock()
		target, err := in.Table.ResolveAlias(id)
		if err != nil {
			return nil, mtsxmlerrors.Wrap(mtsxmlerrors.ErrUnknownRef, err, "could not resolve alias %q", alias)
		}
		return in.instantiate(ctx, target.ID, append(chain, id))
	}

	obj, err := in.build(ctx, d, append(chain, id))
	d.Store(obj, err)
	d.Unlock()
	return obj, err
}

// build resolves d's named references, constructs the concrete object via
// Factory, and checks for unqueried properties. The caller holds d's lock
// for the duration.
func (in *Instantiator) build(ctx context.Context, d *descriptor.Descriptor, chain []string) (descriptor.Object, error) {
	props, err := in.resolveReferences(ctx, d.Properties, chain)
	if err != nil {
		return nil, err
	}

	obj, err := in.Factory.Create(d, props)
	if err != nil {
		return nil, mtsxmlerrors.Wrap(mtsxmlerrors.ErrInstantiate, err,
			"could not instantiate %s plugin of type %q: %v", d.ClassName, d.PluginType, err)
	}

	if unqueried := props.Unqueried(); len(unqueried) > 0 {
		return nil, in.unqueriedError(props, unqueried)
	}

	return obj, nil
}

func (in *Instantiator) unqueriedError(props *descriptor.Properties, unqueried []string) error {
	var objectNames, plainNames []string
	for _, name := range unqueried {
		v, _ := props.Get(name)
		if v.Kind == descriptor.KindObject {
			objectNames = append(objectNames, name)
		} else {
			plainNames = append(plainNames, name)
		}
	}
	switch {
	case len(objectNames) > 0:
		return mtsxmlerrors.New(mtsxmlerrors.ErrInstantiate, "unreferenced object %s", quoteJoin(objectNames))
	default:
		return mtsxmlerrors.New(mtsxmlerrors.ErrInstantiate, "unreferenced property %s", quoteJoin(plainNames))
	}
}

func quoteJoin(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q", n)
	}
	return out
}

// resolveReferences instantiates every KindRef property concurrently,
// expands each result, and rebinds it into a fresh Properties bag under
// the original name (single expansion) or "name_0", "name_1", … (multiple
// expansions) — never all under the same index, which the original
// implementation this is modeled on is known to do by mistake (§9).
func (in *Instantiator) resolveReferences(ctx context.Context, src *descriptor.Properties, chain []string) (*descriptor.Properties, error) {
	names := src.Names()
	resolved := make([][]descriptor.Object, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		v, _ := src.Get(name)
		if v.Kind != descriptor.KindRef {
			continue
		}
		i, v := i, v
		g.Go(func() error {
			obj, err := in.instantiate(gctx, v.Ref, chain)
			if err != nil {
				return err
			}
			expanded, err := in.Expander.Expand(obj)
			if err != nil {
				return err
			}
			if len(expanded) == 0 {
				expanded = []descriptor.Object{obj}
			}
			resolved[i] = expanded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := descriptor.NewProperties()
	for i, name := range names {
		v, _ := src.Get(name)
		if v.Kind != descriptor.KindRef {
			out.Set(name, v)
			continue
		}
		expanded := resolved[i]
		if len(expanded) == 1 {
			out.Set(name, descriptor.ObjectValueOf(expanded[0]))
			continue
		}
		for idx, obj := range expanded {
			out.Set(fmt.Sprintf("%s_%d", name, idx), descriptor.ObjectValueOf(obj))
		}
	}
	return out, nil
}
