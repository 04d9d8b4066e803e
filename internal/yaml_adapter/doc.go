// Package yaml_adapter reads element declarations (.bst files) written in
// YAML. It decodes through the yaml.v3 node API so that every value keeps the
// line and column it was declared at, and diagnostics can point at it.
package yaml_adapter
