package colorlower

import (
	"fmt"
	"math"

	"github.com/InsigMath/mitsuba2/internal/scalarval"
)

// Sample is one "wavelength:value" pair from a spectrum attribute.
type Sample struct {
	Wavelength float64
	Value      float64
}

const spacingEpsilon = 1e-3

// ParsePairs parses "λ1:v1 λ2:v2 …" tokens, requiring strictly increasing
// wavelengths spaced regularly to within spacingEpsilon of the first
// interval. Irregular spacing is explicitly unsupported (§1 Non-goals).
func ParsePairs(value string) ([]Sample, error) {
	tokens := scalarval.Fields(value)
	if len(tokens) < 2 {
		return nil, fmt.Errorf("spectrum requires at least 2 wavelength:value pairs, got %d", len(tokens))
	}

	samples := make([]Sample, 0, len(tokens))
	for _, tok := range tokens {
		var lambdaStr, valueStr string
		idx := indexByte(tok, ':')
		if idx < 0 {
			return nil, fmt.Errorf("%q is not a valid wavelength:value pair", tok)
		}
		lambdaStr, valueStr = tok[:idx], tok[idx+1:]

		lambda, err := scalarval.Float(lambdaStr)
		if err != nil {
			return nil, fmt.Errorf("invalid wavelength in %q: %w", tok, err)
		}
		v, err := scalarval.Float(valueStr)
		if err != nil {
			return nil, fmt.Errorf("invalid value in %q: %w", tok, err)
		}
		samples = append(samples, Sample{Wavelength: lambda, Value: v})
	}

	if len(samples) >= 2 {
		step := samples[1].Wavelength - samples[0].Wavelength
		if step <= 0 {
			return nil, fmt.Errorf("wavelengths must be strictly increasing")
		}
		for i := 1; i < len(samples); i++ {
			if samples[i].Wavelength <= samples[i-1].Wavelength {
				return nil, fmt.Errorf("wavelengths must be strictly increasing: %v then %v", samples[i-1].Wavelength, samples[i].Wavelength)
			}
			gap := samples[i].Wavelength - samples[i-1].Wavelength
			if math.Abs(gap-step) > spacingEpsilon {
				return nil, fmt.Errorf("irregular wavelength spacing is not supported: interval %v differs from %v", gap, step)
			}
		}
	}

	return samples, nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// cieYBar is the Wyman/Sloan/Shirley multi-lobe Gaussian fit to the CIE
// 1931 standard observer y color-matching function, used to integrate an
// interpolated spectrum down to luminance without carrying a full
// tabulated curve.
func cieYBar(lambda float64) float64 {
	return 0.821*gaussianLobe(lambda, 568.8, 46.9, 40.5) +
		0.286*gaussianLobe(lambda, 530.9, 16.3, 31.1)
}

func gaussianLobe(x, mu, sigma1, sigma2 float64) float64 {
	sigma := sigma2
	if x < mu {
		sigma = sigma1
	}
	t := (x - mu) / sigma
	return math.Exp(-0.5 * t * t)
}

// IntegrateCIEY integrates samples (linearly interpolated) against the CIE
// Y matching curve, sampled at 1-nm intervals over [lambdaMin, lambdaMax].
func IntegrateCIEY(samples []Sample, lambdaMin, lambdaMax float64) float64 {
	var sum float64
	n := 0
	for lambda := lambdaMin; lambda <= lambdaMax; lambda += 1 {
		sum += interpolate(samples, lambda) * cieYBar(lambda)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum
}

func interpolate(samples []Sample, lambda float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	if lambda <= samples[0].Wavelength {
		return samples[0].Value
	}
	if lambda >= samples[len(samples)-1].Wavelength {
		return samples[len(samples)-1].Value
	}
	for i := 1; i < len(samples); i++ {
		if lambda <= samples[i].Wavelength {
			lo, hi := samples[i-1], samples[i]
			t := (lambda - lo.Wavelength) / (hi.Wavelength - lo.Wavelength)
			return lo.Value + t*(hi.Value-lo.Value)
		}
	}
	return samples[len(samples)-1].Value
}
