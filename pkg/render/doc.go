// Package render turns positioned mind maps into visual output.
//
// Two sinks are provided: a native SVG renderer that draws the map exactly
// as the layout engine positioned it (rounded node boxes, curved
// connectors), and a Graphviz DOT exporter for interoperability with
// external graph tooling. The DOT export can also be rasterized to SVG or
// PNG through the embedded Graphviz engine.
package render
