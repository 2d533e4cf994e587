package mtsxml

import (
	"log/slog"

	"github.com/InsigMath/mitsuba2/internal/instantiate"
	"github.com/InsigMath/mitsuba2/internal/parse"
	"github.com/InsigMath/mitsuba2/internal/tags"
)

// DefaultMaxIncludeDepth is MTS_XML_INCLUDE_MAX_RECURSION (§6 Limits): the
// include recursion depth LoadString and LoadFile enforce unless overridden
// with WithMaxIncludeDepth.
const DefaultMaxIncludeDepth = 32

// DefaultVariant is the variant assumed when WithVariant is not given.
const DefaultVariant = "scalar-rgb"

type options struct {
	variant         string
	params          *parse.Params
	resolver        FileResolver
	registry        *tags.Registry
	factory         instantiate.Factory
	logger          *slog.Logger
	maxIncludeDepth int
	monochrome      bool
}

func defaultOptions() *options {
	return &options{
		variant:         DefaultVariant,
		params:          parse.NewParams(),
		registry:        tags.NewRegistry(),
		maxIncludeDepth: DefaultMaxIncludeDepth,
	}
}

// Option configures a LoadString/LoadFile call, in the teacher's functional-
// options idiom (§10.4): each resolves against a documented zero-value
// default, so an unset option never silently differs from one explicitly
// set to that default.
type Option func(*options)

// WithVariant selects the rendering variant used to resolve tag classes
// and the spectral representation for color lowering.
func WithVariant(variant string) Option {
	return func(o *options) { o.variant = variant }
}

// WithParam registers one caller-supplied "$name" substitution. Caller-
// supplied params always win over a document's own <default> (§8).
// Passing the option more than once accumulates params.
func WithParam(name, value string) Option {
	return func(o *options) { o.params.Set(name, value) }
}

// WithResolver supplies the FileResolver used to resolve <include> paths.
// LoadFile defaults to an OSResolver rooted at the scene file's directory
// if this option is not given; LoadString has no default resolver and
// fails if the document includes anything.
func WithResolver(r FileResolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithClassRegistry supplies the (tag name, variant) -> class map used to
// recognize object elements and resolve their plugin class.
func WithClassRegistry(r *ClassRegistry) Option {
	return func(o *options) { o.registry = r }
}

// WithPluginManager supplies the factory that constructs concrete objects
// from a descriptor and its resolved property bag. This is a mandatory
// collaborator; LoadString and LoadFile fail if it is never set.
func WithPluginManager(f PluginManager) Option {
	return func(o *options) { o.factory = f }
}

// WithLogger supplies the *slog.Logger used for include-resolution
// diagnostics during Pass 1. Upgrade and instantiation do not log.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxIncludeDepth overrides DefaultMaxIncludeDepth.
func WithMaxIncludeDepth(depth int) Option {
	return func(o *options) { o.maxIncludeDepth = depth }
}

// WithMonochrome switches color/spectrum lowering to the monochrome
// reduction (§4.6): an rgb triple collapses to a uniform spectrum of its
// luminance instead of an srgb/srgb_d65 spectrum, and a color triple to a
// plain float luminance.
func WithMonochrome(monochrome bool) Option {
	return func(o *options) { o.monochrome = monochrome }
}
