// Package version exposes build metadata for logs and telemetry.
//
// Release builds stamp the package variables with -ldflags; development
// builds fall back to the VCS information Go embeds in the binary.
// The observability package reports Version as the service version
// resource attribute.
package version
