// Package config defines the format-agnostic model of a project, along with
// the Loader interface that reads one from disk.
//
// The `config.Model` is the single input of the resolution engine. Concrete
// loaders for the project file (HCL) and the element files (YAML) live in
// separate packages.
package config
