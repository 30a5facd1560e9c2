package board

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const envelopeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["event"],
  "properties": {
    "event": {"enum": ["drawing", "clear", "subscribed", "error"]},
    "payload": {"$ref": "#/$defs/segment"},
    "sender": {"type": "string"},
    "error": {"type": "string"}
  },
  "if": {"properties": {"event": {"const": "drawing"}}},
  "then": {"required": ["payload"]},
  "$defs": {
    "coordinate": {"type": "number", "minimum": 0, "maximum": 1},
    "segment": {
      "type": "object",
      "required": ["x0", "y0", "x1", "y1", "color", "tool"],
      "properties": {
        "x0": {"$ref": "#/$defs/coordinate"},
        "y0": {"$ref": "#/$defs/coordinate"},
        "x1": {"$ref": "#/$defs/coordinate"},
        "y1": {"$ref": "#/$defs/coordinate"},
        "color": {"type": "string", "pattern": "^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$"},
        "tool": {"enum": ["pen", "eraser"]}
      }
    }
  }
}`

var envelopeValidator = jsonschema.MustCompileString("envelope.schema.json", envelopeSchema)

// ValidateJSON checks a raw JSON envelope against the board event schema.
func ValidateJSON(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if err := envelopeValidator.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSegment, err)
	}
	return nil
}
