// Package models defines the domain types shared by the search pipeline and persistence layer.
//
// The package contains two categories of types:
//
// 1. Display records produced from raw Spotify search responses
//   - [Kind] : searchable resource kind (track, album, playlist)
//   - [Item] : uniform, normalized search result with the raw resource retained
//
// 2. Persistent entities
//   - [SearchRecord] : one executed search, stored in the search_history table
//
// Persistent entities implement [Model]; [Repository] defines the data access contract.
package models
