package bibweb

import "strings"

// MacroTable maps @string macro names (lower-cased) to their replacement
// text. It is built once per source file and read-only afterwards.
type MacroTable map[string]string

// Macros collects the @string definitions of one parsed file.
//
// Under the flat partition, @string{acm = "ACM"} collapses so that the
// whole "acm = "ACM"" pair lands in the entry's id token; splitting the
// id at its first = recovers the macro name and replacement text.
func Macros(f *File) MacroTable {
	macros := make(MacroTable)
	for _, e := range f.Entries {
		if e.Type() != "string" {
			continue
		}
		name, value, ok := strings.Cut(e.ID(), "=")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.Trim(name, fieldCutset))
		if name == "" {
			continue
		}
		macros[name] = strings.Trim(value, fieldCutset)
	}
	return macros
}

// Expand substitutes every macro name occurring in s (matched without
// regard to ASCII case) with its replacement text. A missing table is
// fine: expansion over an empty table returns s unchanged.
func (m MacroTable) Expand(s string) string {
	for name, value := range m {
		s = replaceFold(s, name, value)
	}
	return s
}

// replaceFold replaces all occurrences of old in s, ignoring ASCII case.
// Only A-Z is folded, byte for byte, so offsets found in the folded text
// stay valid in s even when it contains multi-byte runes (full Unicode
// lowering can change byte lengths and would shift them).
func replaceFold(s, old, repl string) string {
	if old == "" {
		return s
	}
	var b strings.Builder
	lower := asciiLower(s)
	needle := asciiLower(old)
	for {
		i := strings.Index(lower, needle)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString(repl)
		s = s[i+len(needle):]
		lower = lower[i+len(needle):]
	}
}

func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
