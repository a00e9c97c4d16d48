package dag_test

import (
	"fmt"

	"github.com/matzehuels/foodweb/pkg/dag"
)

func ExampleDAG_basic() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "Grass"})
	_ = g.AddNode(dag.Node{ID: "Rabbit"})
	_ = g.AddNode(dag.Node{ID: "Fox"})
	_ = g.AddEdge(dag.Edge{From: "Grass", To: "Rabbit"})
	_ = g.AddEdge(dag.Edge{From: "Rabbit", To: "Fox"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Producers:", dag.NodeIDs(g.Sources()))
	fmt.Println("Apex:", dag.NodeIDs(g.Sinks()))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Producers: [Grass]
	// Apex: [Fox]
}

func ExampleDAG_Validate() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "Wolf"})
	_ = g.AddEdge(dag.Edge{From: "Wolf", To: "Wolf"})

	fmt.Println(g.Validate())
	// Output: graph contains a cycle
}
