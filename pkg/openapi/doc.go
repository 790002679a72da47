// Package openapi exposes the public contracts for loading OpenAPI documents
// and extracting the named schemas that form definitions are derived from.
// Implementations live under internal/openapi to keep kin-openapi hidden from
// consumers.
package openapi
