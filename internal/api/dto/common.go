// Package dto provides response types for the Colored In API.
// These types are used by huma to generate OpenAPI documentation, and keep
// engine and domain types with the same Go name apart in the schema registry.
package dto

// nonNil returns s, or an empty slice so JSON renders [] instead of null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
