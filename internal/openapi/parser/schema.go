package parser

import (
	"strings"
	"unicode"
)

const (
	extensionNamespace       = "x-formflow"
	relationshipExtensionKey = "x-relationships"
)

var relationshipKeyLookup = map[string]string{
	"type":        "type",
	"kind":        "type",
	"target":      "target",
	"foreignkey":  "foreignKey",
	"foreign_id":  "foreignKey",
	"cardinality": "cardinality",
}

// extractExtensions keeps the extension keys the model builder understands:
// the x-formflow namespace (map or x-formflow-* prefixed keys) and
// x-relationships, which marks a field as a reference.
func extractExtensions(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}

	result := make(map[string]any)
	for key, value := range raw {
		switch {
		case key == extensionNamespace:
			if mapped, ok := cloneMap(value); ok && len(mapped) > 0 {
				result[key] = mapped
			}
		case strings.HasPrefix(key, extensionNamespace+"-"):
			result[key] = value
		case key == relationshipExtensionKey:
			if metadata := normaliseRelationshipExtension(value); len(metadata) > 0 {
				result[key] = metadata
			}
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func normaliseRelationshipExtension(value any) map[string]any {
	raw, ok := value.(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}

	normalised := make(map[string]any)
	for key, val := range raw {
		canonical := normaliseKey(key)
		if canonical == "" {
			continue
		}
		if mapped, ok := relationshipKeyLookup[canonical]; ok {
			canonical = mapped
		}
		if str, ok := val.(string); ok && str != "" {
			normalised[canonical] = str
		}
	}
	if len(normalised) == 0 {
		return nil
	}
	return normalised
}

func normaliseKey(raw string) string {
	var builder strings.Builder
	builder.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
			builder.WriteRune(unicode.ToLower(r))
		}
	}
	return builder.String()
}

func cloneMap(value any) (map[string]any, bool) {
	mapped, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	cloned := make(map[string]any, len(mapped))
	for k, v := range mapped {
		cloned[k] = v
	}
	return cloned, true
}
