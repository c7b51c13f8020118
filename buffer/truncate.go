package buffer

import "unicode/utf8"

// elisionMarker separates the retained head and tail in head+tail
// truncation. It is fixed so that downstream parsing/display can detect
// truncation without inspecting byte counts.
const elisionMarker = "\n...[truncated]...\n"

// TruncateHeadTail retains a prefix and a suffix of s, separated by
// elisionMarker, so the result never exceeds maxBytes (except that a
// maxBytes of 1 or 2 yields the 3-byte "..." of TruncateEllipsis, and a
// maxBytes <= 0 yields ""). Designed from the
// glossary's description and the section 8 boundary test (stored entry
// length <= budget, retained bytes contain both a prefix and a suffix of
// the original) since the reference implementation's body was not present
// in the retrieved source. Never splits a UTF-8 code point.
func TruncateHeadTail(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	if maxBytes <= 0 {
		return ""
	}
	if len(elisionMarker) >= maxBytes {
		// Budget too small to hold the marker at all: fall back to plain
		// ellipsis truncation so we still return something non-empty and
		// UTF-8 safe rather than looping forever trying to fit a head and
		// a tail around a marker that doesn't fit.
		return TruncateEllipsis(s, maxBytes)
	}

	remaining := maxBytes - len(elisionMarker)
	headBudget := remaining / 2
	tailBudget := remaining - headBudget

	headEnd := runeSafeBoundary(s, headBudget)

	tailStart := len(s) - tailBudget
	if tailStart < 0 {
		tailStart = 0
	}
	tailStart = runeSafeStartBoundary(s, tailStart)

	if tailStart < headEnd {
		tailStart = headEnd
	}

	return s[:headEnd] + elisionMarker + s[tailStart:]
}

// TruncateEllipsis truncates s to at most maxLen bytes, appending "..."
// when truncated, never splitting a UTF-8 code point. When maxLen is below
// 3 and s is longer, the result is "..." alone, which is 3 bytes. Grounded on
// domain/src/core/string.rs's truncate, generalized here to also serve as
// TruncateHeadTail's small-budget fallback.
func TruncateEllipsis(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	target := maxLen - 3
	if target < 0 {
		target = 0
	}
	end := runeSafeBoundary(s, target)
	return s[:end] + "..."
}

// runeSafeBoundary returns the largest index <= target (and <= len(s))
// that lies on a UTF-8 rune boundary, walking backward from target.
func runeSafeBoundary(s string, target int) int {
	if target > len(s) {
		target = len(s)
	}
	if target < 0 {
		target = 0
	}
	for target > 0 && !utf8.RuneStart(s[target]) {
		target--
	}
	return target
}

// runeSafeStartBoundary nudges idx forward to the next rune boundary so a
// tail slice s[idx:] never begins mid-codepoint.
func runeSafeStartBoundary(s string, idx int) int {
	if idx <= 0 {
		return 0
	}
	if idx >= len(s) {
		return len(s)
	}
	for idx < len(s) && !utf8.RuneStart(s[idx]) {
		idx++
	}
	return idx
}
