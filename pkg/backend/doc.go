// Package backend holds helpers shared by the storage and hosted-service
// adapters under pkg/backend.
package backend
