// Package types defines the Store and table interfaces, the meal, profile and
// insight entities exchanged over the REST API, and the standard errors
// shared by the server, the storage backend and the client.
package types
