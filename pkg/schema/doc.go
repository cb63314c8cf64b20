// Package schema provides the parameter type system used by bricks.
//
// It defines the built-in types a brick may declare for its parameters
// (string, integer, float, boolean, hash, array) plus typed arrays such as
// "[string]" and custom validators. Schemas map parameter names to types:
//
//	s := schema.Schema{
//	    "segment": schema.String(),
//	    "retries": schema.Integer(),
//	    "tags":    schema.Array(schema.String()),
//	}
//
//	if err := schema.Validate(s, params.Map()); err != nil {
//	    // errors are *AggregateError of *ValidationError
//	}
//
// Schemas can also be parsed from type names, which is how brick
// configuration files declare them:
//
//	s, err := schema.ParseTypeMap(map[string]string{
//	    "segment": "string",
//	    "tags":    "[string]",
//	})
//
// Types returns the built-in catalog, which backs the print_types brick.
package schema
