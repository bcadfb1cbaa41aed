// Package theming resolves go-theme manifests into the renderer configuration
// consumed by the HTML page: CSS custom properties derived from tokens,
// partial overrides and asset URLs.
package theming
