// Package conversation derives the identity that groups the direct messages
// between two users.
package conversation

const separator = "-"

// PairID returns the conversation identity for two user ids. The ids are
// sorted lexicographically before joining, so PairID(a, b) == PairID(b, a)
// and each unordered pair maps to exactly one key. User ids must not contain
// the separator.
func PairID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + separator + b
}
