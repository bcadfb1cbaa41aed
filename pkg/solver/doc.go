// Package solver talks to the remote MiniZinc solving service. A Submission
// is encoded as multipart/form-data carrying only the payload pair of its
// input type; Client.Solve performs exactly one POST and returns either the
// decoded Response or a *TransportError. There are no retries and no client
// deadline unless the caller configures one.
package solver
