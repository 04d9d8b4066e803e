package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// projectFile is the schema of project.hcl.
type projectFile struct {
	Name               string         `hcl:"name"`
	ElementPath        *string        `hcl:"element_path,optional"`
	KindPath           *string        `hcl:"kind_path,optional"`
	Variables          hcl.Expression `hcl:"variables,optional"`
	Environment        hcl.Expression `hcl:"environment,optional"`
	EnvironmentNoCache hcl.Expression `hcl:"environment_nocache,optional"`
	Elements           []*kindBlock   `hcl:"element,block"`
}

// kindBlock is an `element "<kind>" { ... }` block: project overrides for
// every element of one kind.
type kindBlock struct {
	Kind               string         `hcl:"kind,label"`
	Variables          hcl.Expression `hcl:"variables,optional"`
	Environment        hcl.Expression `hcl:"environment,optional"`
	EnvironmentNoCache hcl.Expression `hcl:"environment_nocache,optional"`
	Config             hcl.Expression `hcl:"config,optional"`
	Public             hcl.Expression `hcl:"public,optional"`
	Sandbox            hcl.Expression `hcl:"sandbox,optional"`
	DefRange           hcl.Range      `hcl:",def_range"`
}
