// Package colorlower translates the color/rgb/spectrum shorthand elements
// into either a raw property value or a synthesized nested "spectrum"
// object descriptor, per the rules in §4.6.
package colorlower

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/InsigMath/mitsuba2/internal/descriptor"
	"github.com/InsigMath/mitsuba2/internal/scalarval"
	"github.com/InsigMath/mitsuba2/internal/tags"
)

// Visible wavelength span used to reduce a constant-valued spectrum to a
// comparable radiometric scale in monochrome mode.
const (
	VisibleLambdaMin = 360.0
	VisibleLambdaMax = 830.0
	visibleSpan      = VisibleLambdaMax - VisibleLambdaMin

	// emitterRadiometricScale converts an emission-side wavelength:value
	// spectrum into the engine's internal radiometric units.
	emitterRadiometricScale = 100.0 / 10568.0

	// reciprocalCIEYIntegral is the reciprocal of the CIE Y matching
	// curve's integral over the visible range, used to normalize a
	// reflectance-side spectrum's monochrome reduction.
	reciprocalCIEYIntegral = 0.0093583
)

// Inserter is the subset of descriptor.Table that color lowering needs:
// the ability to register a newly synthesized descriptor.
type Inserter interface {
	Insert(d *descriptor.Descriptor) (*descriptor.Descriptor, error)
}

// Lowerer holds the context color/spectrum lowering needs: the class
// registry to resolve the synthesized descriptors' class, the active
// variant, the monochrome-mode flag, and an id generator shared with the
// rest of Pass 1's anonymous-id synthesis.
type Lowerer struct {
	Registry   *tags.Registry
	Variant    string
	Monochrome bool
	NextID     func() string
}

func (l *Lowerer) newSpectrumDescriptor(pluginType string) *descriptor.Descriptor {
	d := descriptor.NewDescriptor(l.NextID(), "spectrum")
	d.PluginType = pluginType
	if class, ok := l.Registry.Resolve("spectrum", l.Variant); ok {
		d.Class = class
	}
	return d
}

// Color lowers a <color> element: three raw floats, or in monochrome mode
// their luminance. Unlike rgb/spectrum, color never synthesizes a nested
// object descriptor — it is always a direct property value.
func (l *Lowerer) Color(value string) (descriptor.Value, error) {
	r, g, b, err := parseTriple(value)
	if err != nil {
		return descriptor.Value{}, err
	}
	if l.Monochrome {
		return descriptor.FloatValue(luminance(r, g, b)), nil
	}
	return descriptor.ColorValue(descriptor.Vec3{X: r, Y: g, Z: b}), nil
}

// RGB lowers an <rgb> element into a synthesized spectrum descriptor.
func (l *Lowerer) RGB(table Inserter, value string, withinEmitter bool) (descriptor.Value, error) {
	r, g, b, err := parseBroadcastTriple(value)
	if err != nil {
		return descriptor.Value{}, err
	}
	if !withinEmitter {
		for _, c := range [3]float64{r, g, b} {
			if c < 0 || c > 1 {
				return descriptor.Value{}, fmt.Errorf("rgb reflectance component %v is outside [0, 1]", c)
			}
		}
	}

	if l.Monochrome {
		d := l.newSpectrumDescriptor("uniform")
		d.Properties.Set("value", descriptor.FloatValue(luminance(r, g, b)))
		table.Insert(d)
		return descriptor.RefValue(d.ID), nil
	}

	plugin := "srgb"
	if withinEmitter {
		plugin = "srgb_d65"
	}
	d := l.newSpectrumDescriptor(plugin)
	d.Properties.Set("color", descriptor.ColorValue(descriptor.Vec3{X: r, Y: g, Z: b}))
	table.Insert(d)
	return descriptor.RefValue(d.ID), nil
}

// SpectrumScalar lowers a single-scalar <spectrum value="v"/> element.
func (l *Lowerer) SpectrumScalar(table Inserter, value string, withinEmitter bool) (descriptor.Value, error) {
	v, err := scalarval.Float(value)
	if err != nil {
		return descriptor.Value{}, err
	}

	if l.Monochrome {
		d := l.newSpectrumDescriptor("uniform")
		d.Properties.Set("value", descriptor.FloatValue(v/visibleSpan))
		table.Insert(d)
		return descriptor.RefValue(d.ID), nil
	}

	plugin := "uniform"
	if withinEmitter {
		plugin = "d65"
	}
	d := l.newSpectrumDescriptor(plugin)
	d.Properties.Set("value", descriptor.FloatValue(v))
	table.Insert(d)
	return descriptor.RefValue(d.ID), nil
}

// SpectrumPairs lowers a <spectrum value="λ1:v1 λ2:v2 …"/> element.
func (l *Lowerer) SpectrumPairs(table Inserter, value string, withinEmitter bool) (descriptor.Value, error) {
	samples, err := ParsePairs(value)
	if err != nil {
		return descriptor.Value{}, err
	}
	if withinEmitter {
		for i := range samples {
			samples[i].Value *= emitterRadiometricScale
		}
	}

	if l.Monochrome {
		lambdaMin, lambdaMax := samples[0].Wavelength, samples[len(samples)-1].Wavelength
		integral := IntegrateCIEY(samples, lambdaMin, lambdaMax)
		var avg float64
		if withinEmitter {
			avg = integral / (lambdaMax - lambdaMin)
		} else {
			avg = integral * reciprocalCIEYIntegral
		}
		d := l.newSpectrumDescriptor("uniform")
		d.Properties.Set("value", descriptor.FloatValue(avg))
		table.Insert(d)
		return descriptor.RefValue(d.ID), nil
	}

	var wavelengths, values []string
	for _, s := range samples {
		wavelengths = append(wavelengths, fmt.Sprintf("%g", s.Wavelength))
		values = append(values, fmt.Sprintf("%g", s.Value))
	}
	d := l.newSpectrumDescriptor("interpolated")
	d.Properties.Set("wavelengths", descriptor.StringValue(joinComma(wavelengths)))
	d.Properties.Set("values", descriptor.StringValue(joinComma(values)))
	table.Insert(d)
	return descriptor.RefValue(d.ID), nil
}

func joinComma(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}

func parseTriple(value string) (r, g, b float64, err error) {
	fields := scalarval.Fields(value)
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("color requires exactly 3 components, got %d", len(fields))
	}
	vals := make([]float64, 3)
	for i, f := range fields {
		v, err := scalarval.Float(f)
		if err != nil {
			return 0, 0, 0, err
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], nil
}

func parseBroadcastTriple(value string) (r, g, b float64, err error) {
	fields := scalarval.Fields(value)
	switch len(fields) {
	case 1:
		v, err := scalarval.Float(fields[0])
		if err != nil {
			return 0, 0, 0, err
		}
		return v, v, v, nil
	case 3:
		return parseTriple(value)
	default:
		return 0, 0, 0, fmt.Errorf("rgb requires 1 or 3 components, got %d", len(fields))
	}
}

// luminance reduces an sRGB triple to CIE Y via go-colorful's XYZ
// conversion, the monochrome-mode reduction used by both color and rgb.
func luminance(r, g, b float64) float64 {
	_, y, _ := colorful.Color{R: r, G: g, B: b}.Xyz()
	return y
}
