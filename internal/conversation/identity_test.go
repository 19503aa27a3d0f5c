package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairIDIsOrderIndependent(t *testing.T) {
	assert.Equal(t, PairID("u1", "u2"), PairID("u2", "u1"))
	assert.Equal(t, "u1-u2", PairID("u2", "u1"))
}

func TestPairIDSortsLexicographically(t *testing.T) {
	// "u10" < "u2" lexicographically, not numerically
	assert.Equal(t, "u10-u2", PairID("u2", "u10"))
}

func TestPairIDDistinctPairsGetDistinctIDs(t *testing.T) {
	users := []string{"alice", "bob", "carol", "dave"}
	seen := make(map[string]bool)
	for i, a := range users {
		for _, b := range users[i+1:] {
			id := PairID(a, b)
			assert.False(t, seen[id], "duplicate conversation id %q", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 6)
}
