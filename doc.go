// Package bibweb parses bibtex bibliographies and renders the
// publishable records as an HTML or Markdown reference list grouped by
// year, resolving @string macros and @proceedings crossrefs along the
// way.
//
// The grammar actually accepted is deliberately loose; real-world
// bibliography exports are too informal for a strict parser, so every
// entry is recovered with a flat left-to-right partition and malformed
// input degrades to empty fields instead of an error:
//
//	Database ::= (Junk '@' Entry)*
//	Entry    ::= Type '{' Key ',' Field* '}'
//	Type     ::= Name                 -- "string" and "proceedings" get special handling
//	Field    ::= Name '=' Value      -- one field per line, trailing comma optional
//	Value    ::= '{' .* '}'          -- also '"' .* '"'; nesting is not tracked
//
// Lines starting with %% are comments. Not handled: @comment and
// @preamble commands, parenthesized entry bodies, and values spanning
// multiple lines.
package bibweb
