// Package lcu discovers the locally running game client and follows champion select.
//
// The [Connector] watches the client's lockfile and publishes the connection
// details to a [state.Store]. The [ChampionWatcher] subscribes to the
// client's event websocket and publishes the champion picked in champion
// select, falling back to polling when the socket is unavailable.
package lcu
