// Package deser is the migration layer of the reader.
//
// Before the reader builds a bean it asks a Registry for the Deserializer of
// the type named on the wire. The deserializer may redirect the type, remap
// or discard wire property names, and rewrite the pending property values
// before they reach the builder. Types without an explicit deserializer fall
// back to the providers, in registration order, and finally to
// DefaultDeserializer, which changes nothing.
//
// Migrations can also be declared in YAML:
//
//	version: "1"
//	migrations:
//	  - type: example.com/shapes.Circle
//	    rename: {rad: radius}
//	    defaults: {colour: red}
//	    ignore: [legacyFlag]
//	  - pattern: "example.com/legacy.*"
//	    target: example.com/shapes.Round
//
// See LoadRules and Apply.
package deser
