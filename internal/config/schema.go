package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema reflects the JSON Schema of the configuration file. Every key is
// optional since each one has a default.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference:             true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  true,
	}
	s := r.Reflect(new(Config))
	s.Title = "commithelper configuration"
	return s
}

// SchemaJSON returns the indented schema document.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}
