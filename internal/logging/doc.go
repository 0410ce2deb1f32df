// Package logging constructs slog loggers for reenc.
//
// Two output formats are supported: a compact console format for
// interactive use and JSON for machine consumption. Attr helpers and
// standardized field keys keep structured output consistent across
// components.
package logging
