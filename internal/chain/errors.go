package chain

import "strings"

// stale blockhash markers as reported by node error text. Matching is
// substring based because the RPC layer flattens node errors into strings.
var staleBlockhashMarkers = []string{
	"blockhash not found",
	"blockhash expired",
	"block height exceeded",
}

// IsStaleBlockhash reports whether a submission failure was caused by an
// expired recent blockhash. The engine reacts by invalidating the cache;
// every other failure is dropped without side effects.
func IsStaleBlockhash(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range staleBlockhashMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
