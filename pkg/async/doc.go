// Package async provides a minimal Future abstraction over goroutines.
//
// The crypto core uses it in two places: PBKDF2 key derivation, which is
// CPU-bound and must stay off interactive paths, and batch migration, which
// re-encrypts vault items concurrently.
//
// # Usage
//
//	future := async.Run(ctx, userID, func(ctx context.Context, id string) ([]byte, error) {
//	    return deriveKey(ctx, id)
//	})
//
//	// ... keep the UI responsive ...
//
//	key, err := future.Await()
//
// AwaitWithTimeout bounds the wait; WaitAll collects a batch of futures.
package async
