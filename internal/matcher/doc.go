// Package matcher detects catalog names in free text.
//
// A Matcher is compiled once per catalog snapshot and applied to many text
// items. Matching is case-insensitive whole-word containment; it is a pure
// function of the text and the snapshot.
package matcher
