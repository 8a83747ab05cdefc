// Package main provides the entry point for the tourcrawl CLI.
//
// tourcrawl crawls a paginated tourism-attraction listing site, follows
// each listing to its detail page, extracts structured fields, and writes
// the collected records to a JSON file.
//
// Usage:
//
//	tourcrawl crawl
//	tourcrawl crawl https://english.visitseoul.net/attractions
//	tourcrawl history
//
// See --help for all available options.
package main

// main is the entry point for tourcrawl.
func main() {
	Execute()
}
