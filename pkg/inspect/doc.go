// Package inspect renders and navigates decoded telepath value graphs.
//
// The inspect package offers:
//   - Parsing slash paths (e.g., "0/children/1/attrs/label")
//   - Looking up sub-values through maps, slices, and struct fields
//   - Formatting graphs as indented trees that mark shared instances
//   - Summarizing scan indexes for display
package inspect
