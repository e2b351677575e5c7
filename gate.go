package gleaner

import "strings"

// ResourceGate decides which sub-resource requests a rendering page may
// issue. Blocking non-essential resource types cuts per-page bandwidth and
// memory by an order of magnitude, which constrained-memory deployments
// depend on; this is a functional requirement, not an optimization.
//
// The zero value blocks nothing. The gate must be (re)installed on every
// browser page instance by whatever interception mechanism the browser
// binding offers.
type ResourceGate struct {
	blocked map[string]bool
}

// DefaultResourceGate blocks images, stylesheets, fonts, media, and
// websockets. The top-level document and script/XHR/fetch requests are
// never blocked: extraction depends on script-driven content.
func DefaultResourceGate() *ResourceGate {
	return NewResourceGate("image", "stylesheet", "font", "media", "websocket")
}

// NewResourceGate returns a gate that blocks the given resource types.
// Matching is case-insensitive: browser protocols declare types in
// CamelCase ("Image", "Stylesheet") while the configuration vocabulary is
// lowercase.
func NewResourceGate(blockedTypes ...string) *ResourceGate {
	blocked := make(map[string]bool, len(blockedTypes))
	for _, t := range blockedTypes {
		blocked[strings.ToLower(t)] = true
	}
	return &ResourceGate{blocked: blocked}
}

// Allow reports whether a sub-resource request with the declared resource
// type may proceed. Pure classification; no side effects.
func (g *ResourceGate) Allow(resourceType string) bool {
	if g == nil || g.blocked == nil {
		return true
	}
	return !g.blocked[strings.ToLower(resourceType)]
}
