// Package render defines the renderer contract and the localised page model
// shared by the HTML and terminal renderers.
package render
