// Package config defines the format-agnostic task model and the Loader
// interface implemented by format-specific packages (currently HCL).
package config
