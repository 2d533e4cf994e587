package instantiate

import (
	"context"
	"fmt"
	"testing"

	"github.com/InsigMath/mitsuba2/internal/descriptor"
)

// recordingFactory returns a string object "<class>:<id>" and counts how
// many times each descriptor id was actually built, to check memoization.
type recordingFactory struct {
	builds map[string]int
}

func (f *recordingFactory) Create(d *descriptor.Descriptor, props *descriptor.Properties) (descriptor.Object, error) {
	if f.builds == nil {
		f.builds = map[string]int{}
	}
	f.builds[d.ID]++
	// Consume every property so the unqueried-property check never fires
	// for tests that aren't specifically exercising it.
	for _, name := range props.Names() {
		props.Get(name)
	}
	return fmt.Sprintf("%s:%s", d.ClassName, d.ID), nil
}

type identityExpander struct {
	expand func(obj descriptor.Object) ([]descriptor.Object, error)
}

func (e *identityExpander) Expand(obj descriptor.Object) ([]descriptor.Object, error) {
	if e.expand != nil {
		return e.expand(obj)
	}
	return []descriptor.Object{obj}, nil
}

func TestInstantiateSimple(t *testing.T) {
	table := descriptor.NewTable()
	d := descriptor.NewDescriptor("root", "scene")
	table.Insert(d)

	in := &Instantiator{Table: table, Factory: &recordingFactory{}, Expander: &identityExpander{}}
	obj, err := in.Instantiate(context.Background(), "root")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if obj != "scene:root" {
		t.Fatalf("obj = %v, want scene:root", obj)
	}
}

func TestInstantiateMemoizesAcrossReferences(t *testing.T) {
	table := descriptor.NewTable()

	shared := descriptor.NewDescriptor("shared", "bsdf")
	a := descriptor.NewDescriptor("a", "shape")
	a.Properties.Set("bsdf", descriptor.RefValue("shared"))
	b := descriptor.NewDescriptor("b", "shape")
	b.Properties.Set("bsdf", descriptor.RefValue("shared"))
	root := descriptor.NewDescriptor("root", "scene")
	root.Properties.Set("a", descriptor.RefValue("a"))
	root.Properties.Set("b", descriptor.RefValue("b"))

	table.Insert(shared)
	table.Insert(a)
	table.Insert(b)
	table.Insert(root)

	factory := &recordingFactory{}
	in := &Instantiator{Table: table, Factory: factory, Expander: &identityExpander{}}
	if _, err := in.Instantiate(context.Background(), "root"); err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if factory.builds["shared"] != 1 {
		t.Fatalf("shared descriptor built %d times, want 1", factory.builds["shared"])
	}
}

func TestInstantiateAlias(t *testing.T) {
	table := descriptor.NewTable()
	a := descriptor.NewDescriptor("a", "bsdf")
	table.Insert(a)
	alias := descriptor.NewDescriptor("b", "")
	alias.Alias = "a"
	table.Insert(alias)

	in := &Instantiator{Table: table, Factory: &recordingFactory{}, Expander: &identityExpander{}}
	obj, err := in.Instantiate(context.Background(), "b")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if obj != "bsdf:a" {
		t.Fatalf("obj = %v, want bsdf:a", obj)
	}
}

func TestInstantiateUnknownID(t *testing.T) {
	table := descriptor.NewTable()
	in := &Instantiator{Table: table, Factory: &recordingFactory{}, Expander: &identityExpander{}}
	if _, err := in.Instantiate(context.Background(), "missing"); err == nil {
		t.Fatalf("expected an error for an unknown id")
	}
}

func TestInstantiateCycleDetected(t *testing.T) {
	table := descriptor.NewTable()
	a := descriptor.NewDescriptor("a", "bsdf")
	a.Properties.Set("nested", descriptor.RefValue("b"))
	b := descriptor.NewDescriptor("b", "bsdf")
	b.Properties.Set("nested", descriptor.RefValue("a"))
	table.Insert(a)
	table.Insert(b)

	in := &Instantiator{Table: table, Factory: &recordingFactory{}, Expander: &identityExpander{}}
	if _, err := in.Instantiate(context.Background(), "a"); err == nil {
		t.Fatalf("expected a cycle error")
	}
}

func TestInstantiateMultiExpansionIndexedNames(t *testing.T) {
	table := descriptor.NewTable()
	child := descriptor.NewDescriptor("child", "shape")
	parent := descriptor.NewDescriptor("parent", "shape")
	parent.Properties.Set("children", descriptor.RefValue("child"))
	table.Insert(child)
	table.Insert(parent)

	expander := &identityExpander{expand: func(obj descriptor.Object) ([]descriptor.Object, error) {
		return []descriptor.Object{"e0", "e1", "e2"}, nil
	}}

	var captured *descriptor.Properties
	factory := &capturingFactory{capture: func(d *descriptor.Descriptor, props *descriptor.Properties) {
		if d.ID == "parent" {
			captured = props
		}
	}}

	in := &Instantiator{Table: table, Factory: factory, Expander: expander}
	if _, err := in.Instantiate(context.Background(), "parent"); err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("children_%d", i)
		v, ok := captured.Get(name)
		if !ok {
			t.Fatalf("expected property %q to be bound", name)
		}
		if v.Object != fmt.Sprintf("e%d", i) {
			t.Fatalf("property %q = %v, want e%d", name, v.Object, i)
		}
	}
}

type capturingFactory struct {
	capture func(d *descriptor.Descriptor, props *descriptor.Properties)
}

func (f *capturingFactory) Create(d *descriptor.Descriptor, props *descriptor.Properties) (descriptor.Object, error) {
	if f.capture != nil {
		f.capture(d, props)
	}
	for _, name := range props.Names() {
		props.Get(name)
	}
	return d.ID, nil
}

func TestInstantiateUnqueriedPropertyError(t *testing.T) {
	table := descriptor.NewTable()
	d := descriptor.NewDescriptor("x", "bsdf")
	d.Properties.Set("unused", descriptor.FloatValue(1))
	table.Insert(d)

	in := &Instantiator{Table: table, Factory: &ignoringFactory{}, Expander: &identityExpander{}}
	if _, err := in.Instantiate(context.Background(), "x"); err == nil {
		t.Fatalf("expected an unqueried-property error")
	}
}

type ignoringFactory struct{}

func (f *ignoringFactory) Create(d *descriptor.Descriptor, props *descriptor.Properties) (descriptor.Object, error) {
	return d.ID, nil
}
