// Package container provides read access to waste containers ("bins").
//
// Containers are provisioned and mutated elsewhere; this core only reads
// them: registration verifies a target container exists and is active,
// and the API exposes a listing for operational dashboards.
package container
