// Package cache provides a small thread-safe LRU used by the crypto core to
// keep expensive derived keys in memory.
//
// PBKDF2 derivation is deliberately slow, so the key manager derives once and
// serves later lookups from this cache. The eviction callback exists so key
// material can be zeroed the moment an entry leaves the cache.
//
// # Usage
//
//	keys := cache.NewLRU[string, []byte](16)
//	keys.SetEvictCallback(func(_ string, key []byte) {
//	    for i := range key {
//	        key[i] = 0
//	    }
//	})
//
//	keys.Put("user-1", derived)
//	if key, ok := keys.Get("user-1"); ok {
//	    // use key
//	}
package cache
