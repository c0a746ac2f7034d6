package tsgen

// Package tsgen provides:
//
// - Strict loaders for tree-sitter schema documents (node-types.json, grammar.json)
// - A resolved type graph with supertype leaf closure and cycle rejection
// - Deterministic identifier synthesis with collision disambiguation
// - Renderers emitting kind/field constants and a typed wrapper package
//
// Design policy:
// - Keep only orchestration in the root package; pipeline stages live under internal/.
// - Decode schema documents strictly: unknown shapes fail, nothing is guessed.
// - Render fully in memory; touch the filesystem only after the pipeline succeeded.
// - Generated code depends on wrap/ alone, never on this package.
//
// Typical usage:
//
//  src, err := tsgen.Wrapper(tsgen.Options{InputDir: "src", Package: "mylang"})
//  path, err := tsgen.WriteWrapper(ctx, tsgen.Options{})
//
