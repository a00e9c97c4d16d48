// Package graph provides the serialization types for food web graphs and
// their computed layouts.
//
// # Core Types
//
//   - [Graph]: node-link format produced by the graph builder
//   - [Node], [Edge]: one organism (or food) and one "is eaten by" arrow
//   - [Layout]: node positions computed by a renderer
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format. Edges point from the food to
// the creature that eats it:
//
//	{
//	  "nodes": [
//	    {"id": "Fox", "label": "Fox", "color": "#ff8800", "font_color": "#ffffff", "kind": "creature"},
//	    {"id": "Rabbit", "label": "Rabbit", "color": "#f0f0f0", "font_color": "#000000", "kind": "food"}
//	  ],
//	  "edges": [{"id": "\"Rabbit\"->\"Fox\"#0", "from": "Rabbit", "to": "Fox"}]
//	}
//
// Node and edge order is significant and preserved: it is the order the
// builder produced them in.
//
// # Conversion
//
// [ToDAG] copies a Graph into a dag.DAG for the layering transforms.
package graph
