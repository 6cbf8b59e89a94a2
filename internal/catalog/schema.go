package catalog

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// Schema reflects the JSON Schema of catalog documents.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.ReflectFromType(reflect.TypeOf(Document{}))
	schema.Title = "Tile Puzzle Catalog"
	schema.Description = "Tile types and the interaction rules between them"
	return schema
}
