package parse

import (
	"regexp"
	"strings"
)

var paramRef = regexp.MustCompile(`\$[A-Za-z_][A-Za-z0-9_]*`)

// Params is the ordered (name, value) substitution list threaded through
// the whole parse, shared by every included document (§3 Parameter list).
// Caller-supplied entries are set before parsing begins; <default>
// declarations only add a name that is not already present.
type Params struct {
	order  []string
	values map[string]string
}

// NewParams returns an empty parameter list.
func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

// Set inserts or overwrites name's value. Used for caller-supplied params,
// which always win over a later <default> for the same name.
func (p *Params) Set(name, value string) {
	if _, exists := p.values[name]; !exists {
		p.order = append(p.order, name)
	}
	p.values[name] = value
}

// SetDefault adds name only if it is not already present, implementing
// "later default declarations do not override earlier entries" (§3) and
// caller-supplied params always winning over in-document defaults (§8).
func (p *Params) SetDefault(name, value string) bool {
	if _, exists := p.values[name]; exists {
		return false
	}
	p.order = append(p.order, name)
	p.values[name] = value
	return true
}

// Get returns name's current value.
func (p *Params) Get(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Substitute replaces every "$name" occurrence in s with its current
// value; unmatched placeholders are left intact (§4.7 pre-processing step 1).
func (p *Params) Substitute(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return paramRef.ReplaceAllStringFunc(s, func(tok string) string {
		if v, ok := p.Get(tok[1:]); ok {
			return v
		}
		return tok
	})
}
