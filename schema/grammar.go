package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	j "github.com/goccy/go-json"
)

// DefaultGrammarFile is the file name the tree-sitter CLI writes the
// grammar definition to, relative to a grammar's source directory.
const DefaultGrammarFile = "grammar.json"

// SchemaURI is the published JSON Schema for the grammar format. Documents
// declare it under "$schema"; the key must be present but its value is not
// checked, so vendored or mirrored schema URLs still load.
const SchemaURI = "https://tree-sitter.github.io/tree-sitter/assets/schemas/grammar.schema.json"

// RuleKind tags one node of a grammar rule tree. The values are the
// "type" discriminators used by the grammar.json format.
type RuleKind string

const (
	RuleSeq            RuleKind = "SEQ"
	RuleChoice         RuleKind = "CHOICE"
	RuleField          RuleKind = "FIELD"
	RuleToken          RuleKind = "TOKEN"
	RuleImmediateToken RuleKind = "IMMEDIATE_TOKEN"
	RuleRepeat         RuleKind = "REPEAT"
	RuleRepeat1        RuleKind = "REPEAT1"
	RuleReserved       RuleKind = "RESERVED"
	RulePrec           RuleKind = "PREC"
	RulePrecLeft       RuleKind = "PREC_LEFT"
	RulePrecRight      RuleKind = "PREC_RIGHT"
	RulePrecDynamic    RuleKind = "PREC_DYNAMIC"
	RuleString         RuleKind = "STRING"
	RulePattern        RuleKind = "PATTERN"
	RuleSymbol         RuleKind = "SYMBOL"
	RuleAlias          RuleKind = "ALIAS"
	RuleBlank          RuleKind = "BLANK"
)

// Rule is one node of a grammar rule tree. Which members are populated
// depends on Kind: SEQ/CHOICE carry Members, the wrapper kinds carry
// Content, STRING/PATTERN/ALIAS carry Value, FIELD/SYMBOL carry Name,
// PREC* carry Prec, RESERVED carries Context, BLANK carries nothing.
type Rule struct {
	Kind    RuleKind
	Members []*Rule
	Content *Rule
	Name    string
	Value   string
	Flags   string
	Named   bool
	Prec    int
	Context string
}

// rawRule accepts every grammar.json rule key; "value" stays raw because
// the format overloads it (string for STRING/PATTERN/ALIAS, number for
// the precedence kinds).
type rawRule struct {
	Type    *string      `json:"type"`
	Members []*Rule      `json:"members"`
	Content *Rule        `json:"content"`
	Name    string       `json:"name"`
	Value   j.RawMessage `json:"value"`
	Flags   string       `json:"flags"`
	Named   *bool        `json:"named"`
	Context string       `json:"context_name"`
}

// UnmarshalJSON decodes one rule node, rejecting unknown kind tags and
// kind/member mismatches. Members and Content recurse through the same
// path, so a malformed subtree is reported wherever it sits.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var raw rawRule
	if err := j.Unmarshal(data, &raw); err != nil {
		return &Error{Entry: "grammar rule", Reason: "rule is not a JSON object", Cause: err}
	}
	if raw.Type == nil {
		return &Error{Entry: "grammar rule", Reason: `missing "type" tag`}
	}
	kind := RuleKind(*raw.Type)
	out := Rule{
		Kind:    kind,
		Members: raw.Members,
		Content: raw.Content,
		Name:    raw.Name,
		Flags:   raw.Flags,
		Context: raw.Context,
	}
	if raw.Named != nil {
		out.Named = *raw.Named
	}
	switch kind {
	case RuleSeq, RuleChoice:
		if raw.Members == nil {
			return &Error{Entry: string(kind), Reason: `missing "members"`}
		}
	case RuleField:
		if raw.Name == "" {
			return &Error{Entry: string(kind), Reason: `missing field "name"`}
		}
		if raw.Content == nil {
			return &Error{Entry: string(kind), Reason: `missing "content"`}
		}
	case RuleToken, RuleImmediateToken, RuleRepeat, RuleRepeat1:
		if raw.Content == nil {
			return &Error{Entry: string(kind), Reason: `missing "content"`}
		}
	case RuleReserved:
		if raw.Content == nil {
			return &Error{Entry: string(kind), Reason: `missing "content"`}
		}
		if raw.Context == "" {
			return &Error{Entry: string(kind), Reason: `missing "context_name"`}
		}
	case RulePrec, RulePrecLeft, RulePrecRight, RulePrecDynamic:
		if raw.Content == nil {
			return &Error{Entry: string(kind), Reason: `missing "content"`}
		}
		if raw.Value == nil {
			return &Error{Entry: string(kind), Reason: `missing precedence "value"`}
		}
		if err := j.Unmarshal(raw.Value, &out.Prec); err != nil {
			return &Error{Entry: string(kind), Reason: "precedence value is not a number", Cause: err}
		}
	case RuleString, RulePattern:
		if raw.Value == nil {
			return &Error{Entry: string(kind), Reason: `missing "value"`}
		}
		if err := j.Unmarshal(raw.Value, &out.Value); err != nil {
			return &Error{Entry: string(kind), Reason: "value is not a string", Cause: err}
		}
	case RuleSymbol:
		if raw.Name == "" {
			return &Error{Entry: string(kind), Reason: `missing symbol "name"`}
		}
	case RuleAlias:
		if raw.Content == nil {
			return &Error{Entry: string(kind), Reason: `missing "content"`}
		}
		if raw.Value == nil {
			return &Error{Entry: string(kind), Reason: `missing alias "value"`}
		}
		if raw.Named == nil {
			return &Error{Entry: string(kind), Reason: `missing alias "named"`}
		}
		if err := j.Unmarshal(raw.Value, &out.Value); err != nil {
			return &Error{Entry: string(kind), Reason: "alias value is not a string", Cause: err}
		}
	case RuleBlank:
		// no members
	default:
		return &Error{Entry: string(kind), Reason: "unknown rule kind tag"}
	}
	*r = out
	return nil
}

// Grammar is one loaded grammar.json document.
type Grammar struct {
	Schema     string             `json:"$schema"`
	Name       string             `json:"name"`
	Rules      map[string]*Rule   `json:"rules"`
	Inherits   string             `json:"inherits"`
	Word       string             `json:"word"`
	Supertypes []string           `json:"supertypes"`
	Inline     []string           `json:"inline"`
	Extras     []*Rule            `json:"extras"`
	Externals  []*Rule            `json:"externals"`
	Conflicts  [][]string         `json:"conflicts"`
	Reserved   map[string][]*Rule `json:"reserved"`

	// firstRule is the first key of the rules object. Rule order is
	// meaningful in the grammar format (the first rule is the start
	// rule), and Go maps do not keep it.
	firstRule string
}

// DecodeGrammar parses a grammar document from raw JSON.
func DecodeGrammar(data []byte) (*Grammar, error) {
	var g Grammar
	if err := j.Unmarshal(data, &g); err != nil {
		var sErr *Error
		if errors.As(err, &sErr) {
			return nil, sErr
		}
		return nil, &Error{Entry: "grammar", Reason: "document is not a grammar object", Cause: err}
	}
	if g.Schema == "" {
		return nil, &Error{Entry: "grammar", Reason: `missing "$schema"`}
	}
	if g.Name == "" {
		return nil, &Error{Entry: "grammar", Reason: `missing "name"`}
	}
	if !isRuleName(g.Name) {
		return nil, &Error{Entry: g.Name, Reason: "grammar name is not a valid identifier"}
	}
	if g.Rules == nil {
		return nil, &Error{Entry: g.Name, Reason: `missing "rules"`}
	}
	for name := range g.Rules {
		if !isRuleName(name) {
			return nil, &Error{Entry: name, Reason: "rule name is not a valid identifier"}
		}
	}
	first, err := firstRuleName(data)
	if err != nil {
		return nil, err
	}
	g.firstRule = first
	return &g, nil
}

// firstRuleName re-reads the rules object with the streaming decoder,
// which keeps key order where a map cannot.
func firstRuleName(data []byte) (string, error) {
	var aux struct {
		Rules j.RawMessage `json:"rules"`
	}
	if err := j.Unmarshal(data, &aux); err != nil {
		return "", &Error{Entry: "grammar", Reason: "reread rules object", Cause: err}
	}
	dec := j.NewDecoder(bytes.NewReader(aux.Rules))
	if _, err := dec.Token(); err != nil { // opening brace
		return "", &Error{Entry: "grammar", Reason: "scan rules object", Cause: err}
	}
	tok, err := dec.Token()
	if err != nil {
		return "", &Error{Entry: "grammar", Reason: "scan rules object", Cause: err}
	}
	if _, closed := tok.(j.Delim); closed {
		return "", nil // empty rules object
	}
	name, ok := tok.(string)
	if !ok {
		return "", &Error{Entry: "grammar", Reason: "rules object key is not a string"}
	}
	return name, nil
}

// ReadGrammar decodes a grammar document from r.
func ReadGrammar(r io.Reader) (*Grammar, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &Error{Entry: "grammar", Reason: "read input", Cause: err}
	}
	return DecodeGrammar(data)
}

// LoadGrammar decodes the grammar document at path.
func LoadGrammar(path string) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Entry: path, Reason: "open grammar file", Cause: err}
	}
	g, err := DecodeGrammar(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// FirstRule returns the name of the grammar's start rule: the first key
// of the rules object. Empty only when the grammar declares no rules.
func (g *Grammar) FirstRule() string { return g.firstRule }

// RuleNames returns the grammar's rule names in ascending order.
func (g *Grammar) RuleNames() []string {
	names := make([]string, 0, len(g.Rules))
	for name := range g.Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasSupertype reports whether name appears in the grammar's supertype
// list.
func (g *Grammar) HasSupertype(name string) bool {
	for _, s := range g.Supertypes {
		if s == name {
			return true
		}
	}
	return false
}

// isRuleName reports whether s matches the rule-name shape the grammar
// format allows: an ASCII identifier.
func isRuleName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

