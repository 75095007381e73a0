package bridge

import "strings"

// DefaultPrefix namespaces bridged events on the broker side.
const DefaultPrefix = "indra"

// Subject maps an event domain onto a broker subject: "/" becomes ".",
// the "$" of reserved prefixes is dropped, and "." inside a segment is
// flattened to "_" so it cannot fake hierarchy on the broker.
// "$event/chat/room1" with the default prefix becomes
// "indra.event.chat.room1".
func Subject(prefix, domain string) string {
	segs := strings.Split(domain, "/")
	parts := make([]string, 0, len(segs)+1)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	for _, seg := range segs {
		seg = strings.TrimPrefix(seg, "$")
		seg = strings.ReplaceAll(seg, ".", "_")
		if seg == "" {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, ".")
}
