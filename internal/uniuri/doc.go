// Package uniuri generates random alphanumeric identifiers from crypto/rand.
// Session keys of the API are built with it.
package uniuri
