// Package uischema loads JSON/YAML overlays that enrich form definitions with
// presentation data (labels, placeholders, widgets, field order) and
// form-level settings such as the post-submit redirect. Overlays keep the
// schema-derived definition free of UI concerns; a Store hands out a
// model.Decorator per form id.
package uischema
