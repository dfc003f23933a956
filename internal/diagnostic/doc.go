// Package diagnostic provides structured errors, warnings and hints for
// structural probing.
//
// Key capabilities:
//   - Classified probe failures with suggested overrides
//   - Opaque field warnings
//   - Unused override reports with "did you mean" candidates
package diagnostic
