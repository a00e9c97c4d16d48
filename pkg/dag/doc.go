// Package dag provides the directed graph the layout engines layer.
//
// # Overview
//
// A food web is a directed multigraph: prey point at the creatures that
// eat them, two creatures may eat each other and a creature may even eat
// its own kind. Hierarchical layouts need a level for every node, so the
// graph is copied into a [DAG], cycles are broken with
// transform.BreakCycles and levels are assigned with
// transform.AssignLayers or transform.HubLayers.
//
// Unlike a plain map-backed graph, a DAG remembers insertion order: every
// iteration ([DAG.Nodes], [DAG.Sources], [DAG.Sinks]) follows the order in
// which nodes were added. Layouts built from the same food web are
// therefore identical from run to run.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "Grass"})
//	g.AddNode(dag.Node{ID: "Rabbit"})
//	g.AddEdge(dag.Edge{From: "Grass", To: "Rabbit"})
//
// Parallel edges and self-loops are accepted by [DAG.AddEdge];
// [DAG.Validate] reports whether the graph is acyclic.
package dag
