// Package logging builds the slog loggers used across Stockroom.
//
// It offers a console handler with a compact "ts LEVEL component: msg k=v"
// line format for interactive use and a JSON handler for machine-readable
// logs, both selected through the [logging] config section. Component loggers
// tag every record with a component attribute so store, builder, and packager
// output can be told apart in mixed logs.
package logging
