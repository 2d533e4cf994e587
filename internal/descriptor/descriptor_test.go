package descriptor

import "testing"

func TestPropertiesUnqueried(t *testing.T) {
	p := NewProperties()
	p.Set("reflectance", FloatValue(0.5))
	p.Set("samples", IntValue(4))

	if _, ok := p.Get("reflectance"); !ok {
		t.Fatalf("Get(reflectance) missing")
	}

	unqueried := p.Unqueried()
	if len(unqueried) != 1 || unqueried[0] != "samples" {
		t.Fatalf("Unqueried() = %v, want [samples]", unqueried)
	}
}

func TestPropertiesOrderPreserved(t *testing.T) {
	p := NewProperties()
	p.Set("b", IntValue(1))
	p.Set("a", IntValue(2))
	p.Set("b", IntValue(3)) // overwrite, should not move position

	if got := p.Names(); len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Fatalf("Names() = %v, want [b a]", got)
	}
	v, _ := p.Get("b")
	if v.Int != 3 {
		t.Fatalf("Get(b) = %v, want overwritten value 3", v.Int)
	}
}

func TestTableDuplicateID(t *testing.T) {
	table := NewTable()
	d1 := NewDescriptor("x", "bsdf")
	d2 := NewDescriptor("x", "emitter")

	if _, err := table.Insert(d1); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	existing, err := table.Insert(d2)
	if err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if existing != d1 {
		t.Fatalf("duplicate error did not report the original descriptor")
	}
}

func TestResolveAliasChain(t *testing.T) {
	table := NewTable()
	a := NewDescriptor("a", "bsdf")
	b := NewDescriptor("b", "")
	b.Alias = "a"
	table.Insert(a)
	table.Insert(b)

	resolved, err := table.ResolveAlias("b")
	if err != nil {
		t.Fatalf("ResolveAlias: %v", err)
	}
	if resolved != a {
		t.Fatalf("ResolveAlias(b) did not resolve to a")
	}
}

func TestResolveAliasCycle(t *testing.T) {
	table := NewTable()
	a := NewDescriptor("a", "")
	a.Alias = "b"
	b := NewDescriptor("b", "")
	b.Alias = "a"
	table.Insert(a)
	table.Insert(b)

	if _, err := table.ResolveAlias("a"); err == nil {
		t.Fatalf("expected cycle error")
	}
}

func TestDescriptorStoreOnce(t *testing.T) {
	d := NewDescriptor("x", "bsdf")
	d.Lock()
	if _, _, built := d.Built(); built {
		t.Fatalf("new descriptor should not be built")
	}
	d.Store("instance", nil)
	d.Unlock()

	d.Lock()
	obj, err, built := d.Built()
	d.Unlock()
	if !built || err != nil || obj != "instance" {
		t.Fatalf("Built() = %v, %v, %v", obj, err, built)
	}
}
