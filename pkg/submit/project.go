package submit

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// SanitizeMetadataKey selects the HTML policy applied to a text field:
// "strict" strips all markup, "ugc" keeps safe user-generated markup.
const SanitizeMetadataKey = "sanitize"

var (
	policiesOnce sync.Once
	strictPolicy *bluemonday.Policy
	ugcPolicy    *bluemonday.Policy
)

func policy(name string) *bluemonday.Policy {
	policiesOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
		ugcPolicy = bluemonday.UGCPolicy()
	})
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strict":
		return strictPolicy
	case "ugc":
		return ugcPolicy
	default:
		return nil
	}
}

// Project builds the payload sent to an Operation from validated values.
// UI-only fields are dropped, empty optional values are omitted and values
// are coerced to their kind: numbers to float64, integers to int64, numeric
// references to int64, booleans to bool and lists to []any. Values that
// cannot be coerced are passed through unchanged.
func Project(def model.FormDefinition, values map[string]any) Payload {
	payload := make(Payload, len(def.Fields))
	for _, field := range def.Fields {
		if field.UIOnly {
			continue
		}
		value, ok := values[field.Name]
		if !ok || validation.IsEmpty(value) {
			if field.Required && ok {
				payload[field.Name] = value
			}
			continue
		}
		payload[field.Name] = coerce(field, value)
	}
	return payload
}

func coerce(field model.Field, value any) any {
	switch field.Kind {
	case model.FieldKindNumber:
		if n, ok := validation.ToFloat(value); ok {
			return n
		}
	case model.FieldKindInteger:
		if n, ok := validation.ToInt(value); ok {
			return n
		}
	case model.FieldKindReference:
		if n, ok := validation.ToInt(value); ok {
			return n
		}
		if text, ok := value.(string); ok {
			return strings.TrimSpace(text)
		}
	case model.FieldKindBoolean:
		if b, ok := validation.ToBool(value); ok {
			return b
		}
	case model.FieldKindList:
		if items, ok := validation.ToList(value); ok {
			return items
		}
	case model.FieldKindEnum:
		return value
	default:
		if text, ok := validation.ToText(value); ok {
			if p := policy(field.Metadata[SanitizeMetadataKey]); p != nil {
				return p.Sanitize(text)
			}
			return text
		}
	}
	return value
}
