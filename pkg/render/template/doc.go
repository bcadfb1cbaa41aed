// Package template defines the template engine interface used by renderers.
// The pongo2 backed implementation lives in the gotemplate subpackage.
package template
