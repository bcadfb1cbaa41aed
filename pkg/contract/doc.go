// Package contract loads the OpenAPI description of the solving service that
// ships embedded with the module. The document is the single source for the
// solve operation's path and method, the multipart fields the form renders
// (including the timeout bounds) and the JSON schema every reply must satisfy
// before it is mapped onto a result.
package contract
