package subtitles

import (
	"fmt"
	"strings"
)

// Scope restricts which of the two searches contribute candidates.
type Scope int

const (
	// ScopeBoth issues the fingerprint and the name query.
	ScopeBoth Scope = iota
	// ScopeHashOnly keeps fingerprint matches only.
	ScopeHashOnly
	// ScopeNameOnly keeps name matches only and skips fingerprinting.
	ScopeNameOnly
)

func (s Scope) String() string {
	switch s {
	case ScopeHashOnly:
		return "hash"
	case ScopeNameOnly:
		return "name"
	default:
		return "both"
	}
}

// ParseScope accepts "both", "hash" or "name".
func ParseScope(value string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "both":
		return ScopeBoth, nil
	case "hash":
		return ScopeHashOnly, nil
	case "name":
		return ScopeNameOnly, nil
	default:
		return ScopeBoth, fmt.Errorf("unknown search scope %q", value)
	}
}

// Policy governs which queries are issued and how a candidate is picked.
// Hash-only and name-only are a single Scope so both can never be active.
type Policy struct {
	AlwaysAsk bool
	NeverAsk  bool
	Scope     Scope
}

// HashOnly reports whether name matches are excluded.
func (p Policy) HashOnly() bool { return p.Scope == ScopeHashOnly }

// NameOnly reports whether hash matches are excluded.
func (p Policy) NameOnly() bool { return p.Scope == ScopeNameOnly }
