package catalog

import "github.com/invopop/jsonschema"

// Schema returns the JSON schema of the bindings file format.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(new(BindingsDocument))
	schema.Title = "Script Bindings"
	schema.Description = "Attaches named spell and aura scripts to spell ids."
	return schema
}
