package icons

import "strings"

// RatingTierMarker prefixes community rating icon names that already
// carry their tier in the name; those names are probed in the custom
// folder as-is, without the "cr." prefix.
const RatingTierMarker = "t."

// EmbeddedPrefix is the fixed namespace prefix of every built-in
// resource identifier.
const EmbeddedPrefix = "embedded_"

// FolderCandidate returns the filename stem probed in the custom icon
// folder for the given type and name. The stem is tried against each
// supported extension in order.
func FolderCandidate(t Type, name string) string {
	if t == TypeCommunityRating && strings.HasPrefix(name, RatingTierMarker) {
		return name
	}
	return t.Prefix() + "." + name
}

// EmbeddedCandidates returns the ordered chain of built-in resource
// identifiers probed for the given type and name. The chain tolerates
// naming drift between user-facing names and bundled resource names
// (locale codes, provider tags); the first identifier that yields a
// non-empty read wins.
//
// The underscore step intentionally retries with the tail only, keeping
// the type prefix and discarding the head. That asymmetry matches a set
// of legacy resource names and must not be "fixed" to mirror the dot
// steps.
func EmbeddedCandidates(t Type, name string) []string {
	prefix := t.Prefix()
	candidates := []string{EmbeddedPrefix + prefix + "_" + name}

	if strings.Contains(name, ".") {
		candidates = append(candidates,
			EmbeddedPrefix+prefix+"_"+strings.ReplaceAll(name, ".", "_"))
		head, tail, _ := strings.Cut(name, ".")
		candidates = append(candidates, EmbeddedPrefix+head+"_"+tail)
	}
	if strings.Contains(name, "_") {
		_, tail, _ := strings.Cut(name, "_")
		candidates = append(candidates, EmbeddedPrefix+prefix+"_"+tail)
	}

	return append(candidates, EmbeddedPrefix+name)
}
