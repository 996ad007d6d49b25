// Package tasks writes builds into the game client.
//
// # Operations
//
// [BuildEngine] implements [Engine]:
//
//  1. [BuildEngine.ApplyRune] : replace the current rune page
//     - Deletes the current page when the client allows it
//     - Creates the new page and marks it current
//
//  2. [BuildEngine.ApplyBuildsFromSource] : item sets for one champion
//     - Resolves the latest package version of the source
//     - Fetches the champion's build sections
//     - Removes the source's stale item sets and writes fresh ones
//
//  3. [BuildEngine.ApplyBuildsFromSources] : item sets for many champions
//     - Every champion of the latest game version when none are named
//     - Bounded worker pool with a request rate limit
//     - Optional job history through a [JobRecorder]
//
// # Progress Reporting
//
// Long operations send [ProgressUpdate] values on a channel. Sends never
// block; updates are dropped when the channel is full.
package tasks
