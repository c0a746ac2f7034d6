// Package ident maps grammar spellings to exported Go identifiers. The
// mapping is total: every possible token string, including pure
// punctuation and non-ASCII runes, yields a stable identifier. Assignment
// is computed per document so collisions can be disambiguated or rejected
// deterministically.
package ident

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reoring/tsgen/schema"
)

// ChildrenAccessor is the accessor name reserved for the anonymous
// children slot on every generated record.
const ChildrenAccessor = "Children"

// reservedMethods are the method names every generated record carries on
// its generic surface. A field whose identifier lands on one of these is
// moved aside with a "Field" suffix.
var reservedMethods = map[string]struct{}{
	"Node":           {},
	"Kind":           {},
	"Text":           {},
	ChildrenAccessor: {},
}

// symbolNames is the fixed table for ASCII punctuation in symbolic
// tokens. Multi-rune tokens concatenate entries ("+=" becomes PlusEq).
var symbolNames = map[rune]string{
	'!':  "Bang",
	'"':  "DQuote",
	'#':  "Hash",
	'$':  "Dollar",
	'%':  "Percent",
	'&':  "Amp",
	'\'': "SQuote",
	'(':  "LParen",
	')':  "RParen",
	'*':  "Star",
	'+':  "Plus",
	',':  "Comma",
	'-':  "Minus",
	'.':  "Dot",
	'/':  "Slash",
	':':  "Colon",
	';':  "Semi",
	'<':  "Lt",
	'=':  "Eq",
	'>':  "Gt",
	'?':  "Question",
	'@':  "At",
	'[':  "LBracket",
	'\\': "Backslash",
	']':  "RBracket",
	'^':  "Caret",
	'_':  "Underscore",
	'`':  "Backtick",
	'{':  "LBrace",
	'|':  "Pipe",
	'}':  "RBrace",
	'~':  "Tilde",
}

// DuplicateError reports two spellings whose identifiers still collide
// after disambiguation. Where names the colliding subjects: TypeRefs for
// type-level collisions, "type.field" paths for accessor collisions.
type DuplicateError struct {
	Ident string
	Where []string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("ident: duplicate identifier %q: %s", e.Ident, strings.Join(e.Where, ", "))
}

// Exported normalizes one grammar spelling to an exported identifier.
//
// Spellings containing ASCII letters or digits split into words on
// everything else ("binary_expression" to BinaryExpression, "else if" to
// ElseIf). Pure-punctuation spellings map rune-wise through the symbolic
// table ("+" to Plus, "(" to LParen). Runes covered by neither rule
// escape as U<hex>, and a leading digit is escaped the same way so the
// result always starts with an identifier rune.
func Exported(name string) string {
	if name == "" {
		return ""
	}
	symbolic := !strings.ContainsFunc(name, isWordRune)

	var b strings.Builder
	startWord := true
	for _, r := range name {
		switch {
		case isWordRune(r):
			if startWord {
				b.WriteString(strings.ToUpper(string(r)))
				startWord = false
			} else {
				b.WriteRune(r)
			}
		case symbolic && r < 0x80:
			if s, ok := symbolNames[r]; ok {
				b.WriteString(s)
			} else {
				fmt.Fprintf(&b, "U%04X", r)
			}
			startWord = true
		case r >= 0x80:
			fmt.Fprintf(&b, "U%04X", r)
			startWord = true
		default:
			// word mode separator
			startWord = true
		}
	}
	out := b.String()
	if out[0] >= '0' && out[0] <= '9' {
		out = fmt.Sprintf("U%04X%s", rune(out[0]), out[1:])
	}
	return out
}

func isWordRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

// Types assigns an identifier to every declaration in the document.
//
// Assignment is order-independent: spellings are normalized first, then
// collision groups are resolved as whole sets. A group whose members
// differ only in the named flag splits with Named/Anon suffixes; a group
// holding two spellings of the same flavor cannot be told apart and
// fails. Suffixed identifiers are checked against the rest of the
// document, so a suffix never silently shadows another declaration.
func Types(nt *schema.NodeTypes) (map[schema.TypeRef]string, error) {
	groups := make(map[string][]schema.TypeRef, nt.Len())
	for _, d := range nt.Decls() {
		base := Exported(d.Type)
		groups[base] = append(groups[base], d.TypeRef)
	}

	bases := make([]string, 0, len(groups))
	for base := range groups {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	out := make(map[schema.TypeRef]string, nt.Len())
	for _, base := range bases {
		refs := groups[base]
		if len(refs) == 1 {
			out[refs[0]] = base
			continue
		}
		var named, anon []schema.TypeRef
		for _, ref := range refs {
			if ref.Named {
				named = append(named, ref)
			} else {
				anon = append(anon, ref)
			}
		}
		if len(named) > 1 {
			return nil, duplicateTypes(base+"Named", named)
		}
		if len(anon) > 1 {
			return nil, duplicateTypes(base+"Anon", anon)
		}
		for _, ref := range named {
			out[ref] = base + "Named"
		}
		for _, ref := range anon {
			out[ref] = base + "Anon"
		}
	}

	taken := make(map[string]schema.TypeRef, len(out))
	for _, d := range nt.Decls() {
		id := out[d.TypeRef]
		if prev, dup := taken[id]; dup {
			return nil, duplicateTypes(id, []schema.TypeRef{prev, d.TypeRef})
		}
		taken[id] = d.TypeRef
	}
	return out, nil
}

// Fields assigns accessor identifiers for one record's field names.
// Reserved method names push the accessor aside with a Field suffix;
// sibling collisions have no flavor to disambiguate by and fail.
func Fields(owner schema.TypeRef, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	used := make(map[string]string, len(names))
	for _, name := range names {
		id := Exported(name)
		if _, res := reservedMethods[id]; res {
			id += "Field"
		}
		if prev, dup := used[id]; dup {
			return nil, &DuplicateError{
				Ident: id,
				Where: []string{owner.String() + "." + prev, owner.String() + "." + name},
			}
		}
		used[id] = name
		out[name] = id
	}
	return out, nil
}

func duplicateTypes(id string, refs []schema.TypeRef) error {
	where := make([]string, 0, len(refs))
	for _, ref := range refs {
		where = append(where, ref.String())
	}
	sort.Strings(where)
	return &DuplicateError{Ident: id, Where: where}
}
