package schema

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// --- Primary Scenario Structures ---

// ArgsBlock represents the content of an 'arguments' or 'with' block.
type ArgsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// UsesBlock represents the content of the 'uses' block within an output.
type UsesBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Dataset represents a `dataset` block from a user's scenario file. It is a
// build request against a declared blueprint.
type Dataset struct {
	Blueprint string         `hcl:"blueprint,label"`
	Name      string         `hcl:"instance_name,label"`
	Count     hcl.Expression `hcl:"count,optional"`
	With      *ArgsBlock     `hcl:"with,block"`
	DependsOn []string       `hcl:"depends_on,optional"`
}

// Output represents an `output` block from a user's scenario file. It is a
// delivery instance of a defined sink.
type Output struct {
	SinkType  string     `hcl:"sink_type,label"`
	Name      string     `hcl:"instance_name,label"`
	Arguments *ArgsBlock `hcl:"arguments,block"`
	Uses      *UsesBlock `hcl:"uses,block"`
	DependsOn []string   `hcl:"depends_on,optional"`
}

// Resource represents a `resource` block from a user's scenario file. It is
// a managed, stateful instance of a defined asset.
type Resource struct {
	AssetType string     `hcl:"asset_type,label"`
	Name      string     `hcl:"instance_name,label"`
	Arguments *ArgsBlock `hcl:"arguments,block"`
	DependsOn []string   `hcl:"depends_on,optional"`
}

// --- Blueprint Structures ---

// Blueprint represents a `blueprint` block declaring one record kind.
type Blueprint struct {
	Name        string   `hcl:"name,label"`
	Description string   `hcl:"description,optional"`
	Fields      []*Field `hcl:"field,block"`
}

// Field represents a `field` block within a blueprint. Exactly one
// production mode must be set; the loader validates exclusivity.
type Field struct {
	Name string `hcl:"name,label"`

	// value: fixed literal.
	Value *cty.Value `hcl:"value,optional"`

	// generator + static args: named Go callable resolved eagerly.
	Generator string     `hcl:"generator,optional"`
	Args      *cty.Value `hcl:"args,optional"`

	// expression: resolved after the rest of the record, against `self`.
	Expression hcl.Expression `hcl:"expression,optional"`

	// builder + size + with: delegate to another blueprint's builder.
	Builder string     `hcl:"builder,optional"`
	Size    *int       `hcl:"size,optional"`
	With    *cty.Value `hcl:"with,optional"`

	// required / ignored markers.
	Required bool `hcl:"required,optional"`
	Ignored  bool `hcl:"ignored,optional"`
}

// --- Module Manifest Schemas ---

// SinkLifecycle defines the mapping from a sink's delivery event to a
// registered Go handler function.
type SinkLifecycle struct {
	Deliver string `hcl:"deliver"`
}

// AssetLifecycle defines the mapping from a resource's lifecycle events
// (create, destroy) to registered Go handler functions.
type AssetLifecycle struct {
	Create  string `hcl:"create"`
	Destroy string `hcl:"destroy"`
}

// InputDefinition defines a single input variable for a sink or asset.
type InputDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     *cty.Value     `hcl:"default,optional"`
}

// UsesDefinition defines an asset dependency required by a sink.
type UsesDefinition struct {
	LocalName string `hcl:"local_name,label"`
	AssetType string `hcl:"asset_type"`
}

// SinkDefinition represents the HCL manifest for a `sink` type.
type SinkDefinition struct {
	Type        string             `hcl:"type,label"`
	Description string             `hcl:"description,optional"`
	Lifecycle   *SinkLifecycle     `hcl:"lifecycle,block"`
	Inputs      []*InputDefinition `hcl:"input,block"`
	Uses        []*UsesDefinition  `hcl:"uses,block"`
}

// AssetDefinition represents the HCL manifest for a stateful `asset` type.
type AssetDefinition struct {
	Type        string             `hcl:"type,label"`
	Description string             `hcl:"description,optional"`
	Lifecycle   *AssetLifecycle    `hcl:"lifecycle,block"`
	Inputs      []*InputDefinition `hcl:"input,block"`
}
