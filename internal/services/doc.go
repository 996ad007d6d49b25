// Package services implements the HTTP clients champr talks to.
//
// # Game client (LCU)
//
// [LCUService] calls the REST API the running game client exposes on
// 127.0.0.1. Every request carries HTTP basic auth ("riot" plus the session
// password from the lockfile) and is sent over TLS with the client's
// self-signed certificate, which is not verified.
//
// # Build CDNs
//
// [CDNService] reads community build packages from unpkg (resolving each
// package's latest version through an npm registry mirror) and the game's
// version and champion lists from Data Dragon.
//
// # Raw access
//
// [APIService] issues arbitrary requests against the game client for
// debugging, returning the status, headers and decoded JSON.
//
// # Error Handling
//
// Services wrap failures with sentinel errors from the shared package:
//   - [shared.ErrClientAPI] : a game-client request failed or returned a non-2xx status
//   - [shared.ErrFetch] : a CDN request failed or its body could not be decoded
//   - [shared.ErrNotConnected] : no client connection details were given
//   - [shared.ErrSourceNotFound] : a build package does not exist
package services
