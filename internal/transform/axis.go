package transform

import (
	"fmt"

	"github.com/InsigMath/mitsuba2/internal/scalarval"
)

// AxisAttrs holds the raw, possibly-absent x/y/z/value attributes shared by
// translate, scale, and rotate.
type AxisAttrs struct {
	Value        *string
	X, Y, Z      *string
	HasPartial   bool // true if any of X/Y/Z is set
}

// ResolveAxis applies the value/x/y/z convenience rule shared by translate,
// scale, and rotate: a bare value broadcasts to x=y=z (one token) or splits
// into x,y,z (three tokens); missing components default to def. Mixing
// value with any of x/y/z is an error unless allowMixed is set, which is
// how rotate's asymmetry from translate/scale is expressed by the caller.
func ResolveAxis(a AxisAttrs, def float32, allowMixed bool) (x, y, z float32, err error) {
	x, y, z = def, def, def

	if a.Value != nil && a.HasPartial && !allowMixed {
		return 0, 0, 0, fmt.Errorf("cannot mix \"value\" with \"x\", \"y\", or \"z\"")
	}

	if a.Value != nil {
		fields := scalarval.Fields(*a.Value)
		switch len(fields) {
		case 1:
			v, err := scalarval.Float(fields[0])
			if err != nil {
				return 0, 0, 0, err
			}
			x, y, z = float32(v), float32(v), float32(v)
		case 3:
			vals := make([]float32, 3)
			for i, f := range fields {
				v, err := scalarval.Float(f)
				if err != nil {
					return 0, 0, 0, err
				}
				vals[i] = float32(v)
			}
			x, y, z = vals[0], vals[1], vals[2]
		default:
			return 0, 0, 0, fmt.Errorf(`"value" must have 1 or 3 components, got %d`, len(fields))
		}
	}

	if a.X != nil {
		v, err := scalarval.Float(*a.X)
		if err != nil {
			return 0, 0, 0, err
		}
		x = float32(v)
	}
	if a.Y != nil {
		v, err := scalarval.Float(*a.Y)
		if err != nil {
			return 0, 0, 0, err
		}
		y = float32(v)
	}
	if a.Z != nil {
		v, err := scalarval.Float(*a.Z)
		if err != nil {
			return 0, 0, 0, err
		}
		z = float32(v)
	}
	return x, y, z, nil
}
