// Package hcl implements the config.Loader interface for HCL task files.
package hcl
