// Package auth implements the API-secret gate, password hashing and session
// tokens used by the signup and login endpoints.
package auth
