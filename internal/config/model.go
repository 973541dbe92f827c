package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of the entire
// application configuration: blueprint declarations, module manifests and
// the scenario to execute.
type Model struct {
	Blueprints map[string]*BlueprintDefinition
	Sinks      map[string]*SinkDefinition
	Assets     map[string]*AssetDefinition
	Scenario   *Scenario
}

// Scenario represents the user's data-fabrication plan.
type Scenario struct {
	Datasets  []*Dataset
	Outputs   []*Output
	Resources []*Resource
}

// Dataset is the format-agnostic representation of a `dataset` block: a
// request to build records from a named blueprint.
type Dataset struct {
	Blueprint string
	Name      string
	// Count is evaluated at execution time. Absent means a single record
	// rather than a tuple of one.
	Count     hcl.Expression
	With      map[string]hcl.Expression
	DependsOn []string
}

// Output is the format-agnostic representation of an `output` block: a
// request to deliver records through a registered sink handler.
type Output struct {
	SinkType  string
	Name      string
	Arguments map[string]hcl.Expression
	Uses      map[string]hcl.Expression
	DependsOn []string
}

// Resource is the format-agnostic representation of a `resource` block.
type Resource struct {
	AssetType string
	Name      string
	Arguments map[string]hcl.Expression
	DependsOn []string
}

// --- Blueprint Models ---

// BlueprintDefinition is the format-agnostic representation of a
// `blueprint` block.
type BlueprintDefinition struct {
	Name        string
	Description string
	Fields      []*FieldDefinition
}

// FieldDefinition declares how one blueprint field produces its value.
// Exactly one production mode is set: Literal, Generator, Expression,
// Builder, Required or Ignored. The loader enforces exclusivity.
type FieldDefinition struct {
	Name string

	// Literal carries a fixed value.
	Literal *cty.Value

	// Generator names a registered Go callable; Args are its static
	// arguments, evaluated at load time.
	Generator string
	Args      []cty.Value

	// Expression is resolved after the rest of the record, with the
	// record's values bound to `self`.
	Expression hcl.Expression

	// Builder delegates the value to another blueprint's builder. Size
	// above zero requests a batch; With carries static overrides.
	Builder string
	Size    int
	With    map[string]cty.Value

	// Required fields must be overridden by the requester; Ignored fields
	// never appear in built records.
	Required bool
	Ignored  bool
}

// --- Module Manifest Models ---

// SinkDefinition is the format-agnostic representation of a sink's manifest.
type SinkDefinition struct {
	Type        string
	Description string
	Lifecycle   *SinkLifecycle
	Inputs      map[string]*InputDefinition
	Uses        map[string]*UsesDefinition
}

// AssetDefinition is the format-agnostic representation of an asset's
// manifest.
type AssetDefinition struct {
	Type        string
	Description string
	Lifecycle   *AssetLifecycle
	Inputs      map[string]*InputDefinition
}

// SinkLifecycle maps a sink's delivery event to a Go handler name.
type SinkLifecycle struct {
	Deliver string
}

// AssetLifecycle maps an asset's events to Go handler names.
type AssetLifecycle struct {
	Create  string
	Destroy string
}

// InputDefinition defines a single input argument for a sink or asset.
type InputDefinition struct {
	Name        string
	Type        cty.Type
	Description string
	Default     *cty.Value
	Optional    bool
}

// UsesDefinition defines an asset dependency for a sink.
type UsesDefinition struct {
	LocalName string
	AssetType string
}
