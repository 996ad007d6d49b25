// Package async runs background operations whose results are read by polling.
//
// A [Spawner] starts operations on goroutines and hands back a [Handle]. The
// owner polls the handle once per refresh cycle; once the operation returns,
// every subsequent [Handle.Poll] reports the same memoized [Result]. There is
// no cancellation: dropping a handle abandons the result, and the goroutine
// runs to completion on its own.
package async
