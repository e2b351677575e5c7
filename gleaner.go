// Package gleaner extracts clean article text from web pages for
// LLM-training datasets. It renders each page in a real browser to pick up
// client-side content, strips boilerplate with a readability-style
// heuristic, and appends one structured record per page to an append-only
// sink.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, readability/, jsonl/).
package gleaner
