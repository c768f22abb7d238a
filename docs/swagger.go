// Package docs Annotation Microservice API.
//
// Microservice for spatial annotations on geolocated resources and their
// media parts. Annotations carry a WKT geometry target plus template-driven
// metadata bodies, and can be searched with point-radius, bounding-box or
// WKT spatial filters backed by PostGIS.
//
// Main capabilities:
// - Listing annotation geometries of a resource, optionally scoped to one media part
// - Creating and fully replacing annotations with schema-driven metadata
// - Spatial search over the geometry index with normalized query groups
// - Short resource-template schemas for the describe and locate contexts
// - Autocomplete proxy for valuesuggest properties
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
