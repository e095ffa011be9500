// Package metadata models the repository manifest: packages, their variant
// histories, release channels and artifact entries, together with the
// canonical JSON wire format clients verify and parse.
package metadata
