// Package examples provides reference constructors for telepath typed nodes.
//
// The constructors show how to:
//   - Read positional arguments with telepath.Arg and telepath.ArgOr
//   - Validate arguments and fail the decode with a descriptive error
//   - Return shared instances (pointers) so references keep identity
//
// Available types:
//   - Point: a 2D coordinate
//   - Widget: a UI widget definition with attributes and children
//   - RichText: a rich content value with its enabled editor features
//   - Date: a calendar date in ISO 8601 form
//
// Record is the fallback used by tools that need to decode trees without
// knowing their types; RegisterGeneric installs it for a set of names.
package examples
