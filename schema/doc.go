package schema

// Package schema loads the two description files a tree-sitter toolchain
// emits for a grammar:
//
//   - node-types.json: the flat list of node-type declarations (spelling,
//     named flag, child fields with cardinality and type-union constraints,
//     supertype/subtype relationships)
//   - grammar.json: the grammar definition with its rule structure and
//     grammar-level metadata (name, supertypes, word token, extras, ...)
//
// Loading is strictly syntactic: documents are decoded, shape-checked, and
// indexed, but no type resolution or closure computation happens here. A
// malformed entry fails with *Error naming the entry; nothing is inferred
// or repaired.
