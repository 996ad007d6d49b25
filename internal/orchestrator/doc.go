// Package orchestrator reconciles background fetches with the current selection once per refresh.
//
// The refresh loop calls [Orchestrator.Cycle] on every UI tick with a fresh
// [state.Snapshot]. Each cycle ensures the fetches the current selection needs
// are started, folds finished results into session state, invalidates caches
// that depend on a changed champion or source, and returns a [Frame]
// describing what to draw. Nothing here blocks; work runs on an
// [async.Spawner] and is observed by polling.
//
// Only the goroutine that calls Cycle may touch an Orchestrator, with the
// exception of [Orchestrator.Post], which is safe from any goroutine.
package orchestrator
