package explain

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const explanationSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["conceptual", "visual", "mathematical", "problemSolving", "experiment"],
  "properties": {
    "conceptual": {"$ref": "#/$defs/section"},
    "visual": {"$ref": "#/$defs/section"},
    "mathematical": {"$ref": "#/$defs/section"},
    "problemSolving": {"$ref": "#/$defs/section"},
    "experiment": {"$ref": "#/$defs/section"}
  },
  "$defs": {
    "section": {"type": "string", "pattern": "\\S"}
  }
}`

var explanationValidator = jsonschema.MustCompileString("explanation.schema.json", explanationSchema)
