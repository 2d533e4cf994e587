package parse

import (
	"testing"

	"github.com/InsigMath/mitsuba2/internal/descriptor"
	"github.com/InsigMath/mitsuba2/internal/doctree"
	"github.com/InsigMath/mitsuba2/internal/tags"
	"github.com/InsigMath/mitsuba2/internal/version"
)

func newTestRegistry() *tags.Registry {
	r := tags.NewRegistry()
	for _, name := range []string{"scene", "bsdf", "shape", "emitter", "sensor", "film", "sampler", "integrator"} {
		r.Register(name, "scalar-rgb", struct{}{})
	}
	r.Register("spectrum", "scalar-rgb", struct{}{}) // also registers the "texture" synonym
	return r
}

func mustParse(t *testing.T, text string, monochrome bool) (*Context, *doctree.Document, string) {
	t.Helper()
	doc, err := doctree.Read("scene.xml", []byte(text))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	v, ok := doc.Root.Attr("version")
	if !ok {
		t.Fatalf("missing root version in test fixture")
	}
	docVersion, err := version.Parse(v)
	if err != nil {
		t.Fatalf("Parse version: %v", err)
	}
	if err := doctree.Upgrade(doc, docVersion); err != nil {
		t.Fatalf("Upgrade: %v", err)
	}

	table := descriptor.NewTable()
	ctx := NewContext(table, newTestRegistry(), "scalar-rgb", monochrome, nil, nil, 8)
	rootID, err := ctx.Parse(doc, NewParams())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return ctx, doc, rootID
}

func TestParseMinimalScene(t *testing.T) {
	ctx, _, rootID := mustParse(t, `<scene version="2.0.0"/>`, false)
	d, ok := ctx.Table.Lookup(rootID)
	if !ok {
		t.Fatalf("root descriptor %q not found", rootID)
	}
	if d.ClassName != "scene" || d.PluginType != "scene" {
		t.Fatalf("root descriptor = %+v", d)
	}
	if d.Properties.Len() != 0 {
		t.Fatalf("root should have no properties, got %v", d.Properties.Names())
	}
}

func TestParseUpgradeFoldsUVIntoTransform(t *testing.T) {
	ctx, _, rootID := mustParse(t, `<bsdf type="diffuse" version="1.0.0"><float name="uOffset" value="0.5"/></bsdf>`, false)
	d, _ := ctx.Table.Lookup(rootID)
	v, ok := d.Properties.Get("to_uv")
	if !ok {
		t.Fatalf("expected a to_uv property, got %v", d.Properties.Names())
	}
	if v.Kind != descriptor.KindTransform {
		t.Fatalf("to_uv should be a transform, got %v", v.Kind)
	}
	if v.Transform[0][3] != 0.5 {
		t.Fatalf("translate x = %v, want 0.5", v.Transform[0][3])
	}
}

func TestParseNamedReference(t *testing.T) {
	ctx, _, rootID := mustParse(t, `<scene version="2.0.0">
		<bsdf type="diffuse" id="A"/>
		<shape type="sphere"><ref id="A" name="nested"/></shape>
	</scene>`, false)

	d, _ := ctx.Table.Lookup(rootID)
	if len(d.Properties.Names()) != 2 {
		t.Fatalf("expected scene to carry two nested-object references, got %v", d.Properties.Names())
	}

	shapeRef, ok := d.Properties.Get("_arg_1")
	if !ok {
		t.Fatalf("expected second child bound under _arg_1, got %v", d.Properties.Names())
	}
	shapeDesc, ok := ctx.Table.Lookup(shapeRef.Ref)
	if !ok {
		t.Fatalf("shape descriptor %q not found", shapeRef.Ref)
	}
	nested, ok := shapeDesc.Properties.Get("nested")
	if !ok {
		t.Fatalf(`expected shape to carry a "nested" property, got %v`, shapeDesc.Properties.Names())
	}
	if nested.Kind != descriptor.KindRef || nested.Ref != "A" {
		t.Fatalf("nested = %+v, want ref to A", nested)
	}
}

func TestParseRGBLoweringOutsideAndInsideEmitter(t *testing.T) {
	ctx, _, rootID := mustParse(t, `<scene version="2.0.0">
		<bsdf type="diffuse"><rgb name="reflectance" value="0.5"/></bsdf>
		<emitter type="area"><rgb name="radiance" value="0.5"/></emitter>
	</scene>`, false)

	sceneDesc, _ := ctx.Table.Lookup(rootID)

	bsdfRef, _ := sceneDesc.Properties.Get("_arg_0")
	bsdfDesc, _ := ctx.Table.Lookup(bsdfRef.Ref)
	reflectance, _ := bsdfDesc.Properties.Get("reflectance")
	spectrumDesc, ok := ctx.Table.Lookup(reflectance.Ref)
	if !ok {
		t.Fatalf("synthesized reflectance spectrum descriptor not found")
	}
	if spectrumDesc.PluginType != "srgb" {
		t.Fatalf("reflectance plugin = %q, want srgb", spectrumDesc.PluginType)
	}

	emitterRef, _ := sceneDesc.Properties.Get("_arg_1")
	emitterDesc, _ := ctx.Table.Lookup(emitterRef.Ref)
	radiance, _ := emitterDesc.Properties.Get("radiance")
	radianceSpectrum, ok := ctx.Table.Lookup(radiance.Ref)
	if !ok {
		t.Fatalf("synthesized radiance spectrum descriptor not found")
	}
	if radianceSpectrum.PluginType != "srgb_d65" {
		t.Fatalf("radiance plugin = %q, want srgb_d65", radianceSpectrum.PluginType)
	}
}

func TestParseAlias(t *testing.T) {
	ctx, _, _ := mustParse(t, `<scene version="2.0.0">
		<bsdf type="diffuse" id="A"/>
		<alias id="A" as="B"/>
	</scene>`, false)

	b, ok := ctx.Table.Lookup("B")
	if !ok {
		t.Fatalf("alias descriptor B not found")
	}
	if b.Alias != "A" {
		t.Fatalf("alias target = %q, want A", b.Alias)
	}
}

func TestParseDuplicateIDFails(t *testing.T) {
	doc, err := doctree.Read("scene.xml", []byte(`<scene version="2.0.0">
		<bsdf type="diffuse" id="x"/>
		<bsdf type="diffuse" id="x"/>
	</scene>`))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	table := descriptor.NewTable()
	ctx := NewContext(table, newTestRegistry(), "scalar-rgb", false, nil, nil, 8)
	if _, err := ctx.Parse(doc, NewParams()); err == nil {
		t.Fatalf("expected a duplicate id error")
	}
}

func TestParseReservedNamePrefixRejected(t *testing.T) {
	doc, err := doctree.Read("scene.xml", []byte(`<scene version="2.0.0"><bsdf type="diffuse" id="_bad"/></scene>`))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	table := descriptor.NewTable()
	ctx := NewContext(table, newTestRegistry(), "scalar-rgb", false, nil, nil, 8)
	if _, err := ctx.Parse(doc, NewParams()); err == nil {
		t.Fatalf("expected a reserved-prefix error")
	}
}

func TestParseTransformAccumulatesLeftMultiplied(t *testing.T) {
	ctx, _, rootID := mustParse(t, `<shape type="sphere" version="2.0.0">
		<transform name="to_world">
			<scale value="2"/>
			<translate x="1" y="0" z="0"/>
		</transform>
	</shape>`, false)
	d, _ := ctx.Table.Lookup(rootID)
	v, ok := d.Properties.Get("to_world")
	if !ok {
		t.Fatalf("expected a to_world property")
	}
	// scale is parsed first and left-multiplied first, so the later
	// translate ends up outermost: its offset is not itself scaled.
	if v.Transform[0][3] != 1 {
		t.Fatalf("accumulated translate x = %v, want 1", v.Transform[0][3])
	}
}

func TestParseMonochromeRGBReducesToUniform(t *testing.T) {
	ctx, _, rootID := mustParse(t, `<bsdf type="diffuse" version="2.0.0"><rgb name="reflectance" value="0.2 0.4 0.6"/></bsdf>`, true)
	d, _ := ctx.Table.Lookup(rootID)
	ref, _ := d.Properties.Get("reflectance")
	spectrumDesc, ok := ctx.Table.Lookup(ref.Ref)
	if !ok {
		t.Fatalf("synthesized spectrum descriptor not found")
	}
	if spectrumDesc.PluginType != "uniform" {
		t.Fatalf("monochrome rgb plugin = %q, want uniform", spectrumDesc.PluginType)
	}
}

func TestParseMisplacedTransformOpFails(t *testing.T) {
	doc, err := doctree.Read("scene.xml", []byte(`<scene version="2.0.0"><translate x="1"/></scene>`))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	table := descriptor.NewTable()
	ctx := NewContext(table, newTestRegistry(), "scalar-rgb", false, nil, nil, 8)
	if _, err := ctx.Parse(doc, NewParams()); err == nil {
		t.Fatalf("expected a misplaced-tag error for a bare <translate> outside <transform>")
	}
}

func TestParseUnknownTagFails(t *testing.T) {
	doc, err := doctree.Read("scene.xml", []byte(`<scene version="2.0.0"><nonsense/></scene>`))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	table := descriptor.NewTable()
	ctx := NewContext(table, newTestRegistry(), "scalar-rgb", false, nil, nil, 8)
	if _, err := ctx.Parse(doc, NewParams()); err == nil {
		t.Fatalf("expected an unknown-tag error")
	}
}

func TestParseParamSubstitution(t *testing.T) {
	doc, err := doctree.Read("scene.xml", []byte(`<bsdf type="diffuse" version="2.0.0"><float name="alpha" value="$a"/></bsdf>`))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	table := descriptor.NewTable()
	ctx := NewContext(table, newTestRegistry(), "scalar-rgb", false, nil, nil, 8)
	params := NewParams()
	params.Set("a", "0.25")
	rootID, err := ctx.Parse(doc, params)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	d, _ := ctx.Table.Lookup(rootID)
	v, ok := d.Properties.Get("alpha")
	if !ok || v.Float != 0.25 {
		t.Fatalf("alpha = %+v, ok=%v, want 0.25", v, ok)
	}
}

func TestParseCallerParamWinsOverDefault(t *testing.T) {
	doc, err := doctree.Read("scene.xml", []byte(`<bsdf type="diffuse" version="2.0.0">
		<default name="a" value="0.9"/>
		<float name="alpha" value="$a"/>
	</bsdf>`))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	table := descriptor.NewTable()
	ctx := NewContext(table, newTestRegistry(), "scalar-rgb", false, nil, nil, 8)
	params := NewParams()
	params.Set("a", "0.25")
	rootID, err := ctx.Parse(doc, params)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	d, _ := ctx.Table.Lookup(rootID)
	v, _ := d.Properties.Get("alpha")
	if v.Float != 0.25 {
		t.Fatalf("alpha = %v, want caller-supplied 0.25 to win over <default>", v.Float)
	}
}
