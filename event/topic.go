package event

import (
	"fmt"
	"strings"
)

// Match reports whether a concrete publish topic satisfies a subscription
// filter. Filters use "/"-separated segments where "+" matches one segment
// and "#" matches the rest of the topic; both wildcards are illegal in the
// publish topic itself (Match returns false, see ValidateTopic).
//
// The scan is a single left-to-right pass over the publish topic, one filter
// position per consumed character, so it runs in O(len(pub)). A filter whose
// unconsumed remainder is empty or exactly one trailing "+" or "#" still
// matches an exhausted publish topic; this mirrors the behavior every
// deployed client encodes, including the trailing-"+"-matches-nothing case.
func Match(pub, sub string) bool {
	if strings.ContainsAny(pub, "+#") {
		return false
	}
	inds := 0
	wcs := false
	for indp := 0; indp < len(pub); indp++ {
		if wcs {
			if pub[indp] == '/' {
				inds++
				wcs = false
			}
			continue
		}
		if inds >= len(sub) {
			return false
		}
		if pub[indp] == sub[inds] {
			inds++
			continue
		}
		if sub[inds] == '#' {
			return true
		}
		if sub[inds] == '+' {
			wcs = true
			inds++
			continue
		}
		return false
	}
	rest := sub[inds:]
	if rest == "" || rest == "+" || rest == "#" {
		return true
	}
	return false
}

// ValidateTopic rejects publish topics containing subscription wildcards.
// Wildcards are only legal in filters, never in concrete topics.
func ValidateTopic(topic string) error {
	if strings.ContainsAny(topic, "+#") {
		return fmt.Errorf("event: publish topic %q must not contain wildcards", topic)
	}
	return nil
}

// ValidateFilter rejects malformed subscription filters: "#" terminates
// matching unconditionally, so anything after it can never be reached.
// Subscribing with a filter that can never match as written is a
// programming error better caught here than silently ignored.
func ValidateFilter(filter string) error {
	if filter == "" {
		return fmt.Errorf("event: empty subscription filter")
	}
	if i := strings.IndexByte(filter, '#'); i >= 0 && i != len(filter)-1 {
		return fmt.Errorf("event: filter %q: '#' is only valid as the final token", filter)
	}
	return nil
}
