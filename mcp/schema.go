package mcp

import (
	"encoding/json"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spetersoncode/webagent/schema"
)

// inputSchema renders a tool schema as a JSON Schema object for MCP clients.
func inputSchema(s *schema.Schema) json.RawMessage {
	properties := make(map[string]any)
	var required []string

	for _, arg := range s.Arguments() {
		properties[arg.Name] = map[string]any{
			"type":        jsonSchemaType(arg.Type),
			"description": arg.Description,
		}
		if arg.Required {
			required = append(required, arg.Name)
		}
	}

	doc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}

	data, err := json.Marshal(doc)
	if err != nil {
		// A schema is built from plain strings and can always marshal.
		panic(err)
	}
	return data
}

// jsonSchemaType maps an argument type onto its JSON Schema name.
func jsonSchemaType(t schema.Type) string {
	switch t {
	case schema.TypeInt:
		return "integer"
	case schema.TypeBool:
		return "boolean"
	default:
		return string(t)
	}
}

// fromInputSchema builds a tool schema from an MCP input schema. Properties
// are added in name order so rendering is deterministic.
func fromInputSchema(in mcp.ToolInputSchema) *schema.Schema {
	required := make(map[string]bool, len(in.Required))
	for _, name := range in.Required {
		required[name] = true
	}

	names := make([]string, 0, len(in.Properties))
	for name := range in.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	s := schema.New()
	for _, name := range names {
		typ := schema.TypeString
		description := ""
		if prop, ok := in.Properties[name].(map[string]any); ok {
			if ts, ok := prop["type"].(string); ok {
				typ = argumentType(ts)
			}
			if ds, ok := prop["description"].(string); ok {
				description = ds
			}
		}
		s.Add(name, typ, required[name], description)
	}
	return s
}

// argumentType maps a JSON Schema type name onto an argument type.
func argumentType(name string) schema.Type {
	switch name {
	case "integer":
		return schema.TypeInt
	case "boolean":
		return schema.TypeBool
	case "number":
		return schema.TypeNumber
	case "object":
		return schema.TypeObject
	case "array":
		return schema.TypeArray
	default:
		return schema.TypeString
	}
}
