package model

import internalmodel "github.com/goliatone/go-formflow/internal/model"

// CanonicalizeExtensionValue renders an x-formflow extension value as the
// string stored in Field.Metadata.
func CanonicalizeExtensionValue(value any) (string, bool) {
	return internalmodel.CanonicalizeExtensionValue(value)
}
