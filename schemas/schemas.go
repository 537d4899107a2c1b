// Package schemas embeds the JSON schemas used to validate fairci files.
package schemas

import _ "embed"

// ConfigSchemaJSON is the schema for .fairci.yaml.
//
//go:embed config.schema.json
var ConfigSchemaJSON string
