// Package session is the submission controller. A Session owns one visitor's
// form state, display language, info panel toggle and the result of the last
// solve, and it changes only through its transition methods:
//
//	Set*            edit a form field (timeout input is clamped to >= 1)
//	BeginSubmit     idle|success|error -> loading, snapshot the request
//	ResolveResponse loading -> success|error from a service reply
//	ResolveError    loading -> error from a transport failure
//
// Every method locks the session, so a Session has a single writer at a time
// even when HTTP handlers and background solves touch it concurrently.
// BeginSubmit refuses to start while a solve is in flight.
package session
