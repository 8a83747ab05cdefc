// Package model defines the core data structures shared across the crawler.
//
// The types in this package are plain data carriers with no behavior beyond
// small convenience methods. They flow from the extractor through the crawl
// loop into the report writers and the history database.
//
// Design decision: We keep models in a dedicated package rather than
// defining them where they are produced because:
//  1. The same types are consumed by crawler, report, and database
//  2. Avoids import cycles between the pipeline stages
//  3. JSON field names (the output contract) live in exactly one place
package model
