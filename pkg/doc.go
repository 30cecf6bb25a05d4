// Package pkg provides the core libraries for mindgrid mind-map editing.
//
// # Overview
//
// Mindgrid computes deterministic horizontal mind-map layouts and applies
// structural edits as pure tree mutations. The pkg directory is organized
// into three areas:
//
//  1. Core - map structure and geometry ([tree], [layout], [drag])
//  2. Serialization - the document format ([mapdoc])
//  3. Infrastructure - output, persistence, and host support ([render],
//     [store], [cache], [errors], [observability])
//
// # Architecture
//
// The typical data flow:
//
//	map.json document
//	         ↓
//	    [mapdoc] package (decode + validate)
//	         ↓
//	    [tree] package (authoritative structure, pure mutations)
//	         ↓
//	    [layout] package (metrics + positioning)
//	         ↓
//	    [render] package (SVG / DOT output)
//
// Interactive editing sits beside the flow: [drag] translates pointer
// gestures against the current layout into exactly one [tree] mutation,
// and the next layout pass re-derives all geometry.
//
// # Quick Start
//
// Load a map, lay it out, and render it:
//
//	t, _ := mapdoc.ReadFile("map.json")
//	cfg := layout.DefaultConfig()
//	nodes := layout.Layout(t, cfg)
//	svg := render.RenderSVG(t, nodes, cfg)
//
// Apply a structural edit:
//
//	next, ok := t.Reparent("child-id", "new-parent-id")
//	if ok {
//	    nodes = layout.Layout(next, cfg) // t is untouched
//	}
//
// # Main Packages
//
// [tree] - The id→node map with a distinguished root. Mutation commands
// (Reparent, ReorderSibling, MoveBy) are total and pure: invalid inputs
// report ok=false, valid ones return a new snapshot sharing untouched
// nodes with the old one.
//
// [layout] - Deterministic horizontal positioning. Subtree metrics come
// from a platform-independent text measurement estimate; root children
// branch left and right and sibling subtrees stack in disjoint vertical
// bands.
//
// [drag] - The pointer-drag state machine: hit-testing, drop-zone
// classification (before/child/after), and gesture-to-mutation
// translation. Invalid drops are no-ops, never errors.
//
// [mapdoc] - The canonical JSON document format, designed for round-trip
// fidelity of ids, sibling order, and position hints.
//
// [render] - SVG drawing of positioned maps and Graphviz DOT export.
//
// [store] - Named document persistence on Redis, MongoDB, or in-memory
// backends.
//
// [cache] - File-backed memoization of layout results for the CLI.
//
// [errors], [observability] - Structured error codes for the application
// surfaces and optional instrumentation hooks.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...
//
// [tree]: https://pkg.go.dev/github.com/mindwell/mindgrid/pkg/tree
// [layout]: https://pkg.go.dev/github.com/mindwell/mindgrid/pkg/layout
// [drag]: https://pkg.go.dev/github.com/mindwell/mindgrid/pkg/drag
// [mapdoc]: https://pkg.go.dev/github.com/mindwell/mindgrid/pkg/mapdoc
// [render]: https://pkg.go.dev/github.com/mindwell/mindgrid/pkg/render
// [store]: https://pkg.go.dev/github.com/mindwell/mindgrid/pkg/store
// [cache]: https://pkg.go.dev/github.com/mindwell/mindgrid/pkg/cache
// [errors]: https://pkg.go.dev/github.com/mindwell/mindgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/mindwell/mindgrid/pkg/observability
package pkg
