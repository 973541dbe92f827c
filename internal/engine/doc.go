// Package engine turns blueprints into records. A Builder binds one
// blueprint to a registry and fabricates records in two passes: the first
// pass resolves literals, computed values and delegations in declaration
// order, the second pass resolves deferred expressions against the
// accumulated record. Overrides supplied by the requester take precedence
// over every production mode except ignored fields, which never surface.
//
// CompileModel bridges configuration and execution: it compiles
// BlueprintDefinitions from the loaded model into descriptor-backed
// blueprints and registers a Builder for each.
package engine
