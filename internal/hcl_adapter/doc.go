// Package hcl_adapter reads the project file (project.hcl) into the
// format-agnostic config.Project.
//
// The file is decoded with gohcl into the schema structs below and each
// attribute expression is evaluated without a context: project files hold
// data, not logic. Note that HCL treats "%{" as the start of a template
// directive, so variable references are written "%%{name}" in project.hcl.
package hcl_adapter
