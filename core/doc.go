// Package core defines the shared data model for shortcut records,
// search queries, and match results, together with their MUS
// serializers and validation rules.
//
// Every other package in the module consumes these types. The package
// depends only on the standard library and the serialization
// primitives, so it can be imported from any layer.
package core
