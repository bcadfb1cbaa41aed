// Package model defines the renderer-facing description of the solver form.
// The model is derived once from the endpoint contract: each Field carries the
// multipart field name, its kind, the catalog keys used for its label and
// placeholder, and the input mode that owns it. Renderers iterate
// FormModel.FieldsFor(mode) so the HTML page and the terminal prompts agree on
// which inputs exist for the active mode.
package model
