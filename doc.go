package viewlint

// Package viewlint analyzes Ignition Perspective view.json documents.
//
// - flatten/ turns a JSON document into an ordered path/value sequence and back
// - model/ rebuilds a typed node graph from the flattened pairs and defines
//   the visitor protocol over it
// - the root package drives registered rules across the model and aggregates
//   path-addressed diagnostics
// - rules/ holds the built-in rule set; config/ loads rule configuration;
//   cmd/viewlint is the CLI
//
// Design policy:
// - Keep the engine surface in the root package; node and traversal details
//   live in model/.
// - Rules declare a capability set of node kinds and implement only the
//   matching visit methods; dispatch never calls outside that set.
// - The model is immutable after Build; rules keep private accumulators and
//   report through their Collector.
//
// Typical usage:
//
//	doc, err := flatten.FlattenBytes(raw)
//	m, err := model.Build(doc)
//	eng := viewlint.NewEngine(rs...)
//	results := eng.Run(m)
