// Package extract locates the logical fields of listing and detail pages.
//
// Tourism sites rarely offer stable markup, so every field is resolved by
// an ordered list of named strategies: the first strategy that matches
// wins, and the chain always terminates in an explicit placeholder or
// diagnostic string. A failed heuristic is never an error; at worst the
// caller receives a value that says what could not be found.
//
// Design decision: strategies are data (ordered slices of named funcs)
// rather than nested if/else chains because:
//  1. The fallback order is visible in one place per field
//  2. Each strategy is independently testable
//  3. Debug logs can name the strategy that resolved a field
//
// Extraction is pure: the same parsed document always yields the same
// output, and no strategy mutates the document it inspects.
package extract
