// Package registry provides the central "glue" for the module system.
//
// The Registry stores mappings between the string identifiers used in
// manifests and blueprints (e.g., "DeliverFile", "uuid") and the actual
// compiled Go functions and types that implement them. It also holds the
// parsed, format-agnostic definitions from the manifests themselves, and the
// builder table that delegated fields resolve against.
//
// During application startup, the registry is populated and then validated to
// ensure that the Go code and the public-facing manifests are perfectly in
// sync, preventing a wide class of runtime errors.
package registry
