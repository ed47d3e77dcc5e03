package spell

import (
	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of the spell data file format.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(new(Document))
	schema.Title = "Spell Definitions"
	schema.Description = "Static spell data consumed by the script framework for hook filtering and validation."
	return schema
}
