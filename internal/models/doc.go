// Package models defines the data contracts shared by champr's services, tasks and orchestrator.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): values decoded from the game client or the build CDNs
//   - [AuthContext] : connection details for the local client API
//   - [Perk], [RuneStyle], [Champion], [Summoner] : client catalog entries
//   - [SourceDescriptor] : one build provider in the source catalog
//   - [BuildSection], [Rune], [ItemBuild] : a champion's builds for one source
//   - [ItemSet] : the client's native item-set file
//
// 2. Persistent Entities: database-backed records
//   - [ApplyJob] : one bulk apply run with its outcome
//
// Persistent entities implement the [Model] interface.
package models
