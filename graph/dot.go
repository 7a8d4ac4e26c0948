// Package graph renders the dining table as a Graphviz graph.
package graph

import (
	"fmt"
	"io"

	"github.com/awalterschulze/gographviz"
	"github.com/nickng/dinephil/observer"
	"github.com/nickng/dinephil/philosopher"
)

const graphName = "table"

var stateColour = map[philosopher.State]string{
	philosopher.Thinking: "lightblue",
	philosopher.Hungry:   "gold",
	philosopher.Eating:   "palegreen",
}

// GraphvizDot is a DOT rendering of a table snapshot.
type GraphvizDot struct {
	Graph *gographviz.Escape
}

// PhilosopherNode is the DOT node name of philosopher id.
func PhilosopherNode(id int) string { return fmt.Sprintf("P%d", id) }

// ChopstickNode is the DOT node name of chopstick i.
func ChopstickNode(i int) string { return fmt.Sprintf("C%d", i) }

// NewGraphvizDot builds the graph of a table state.
func NewGraphvizDot(state observer.TableState) *GraphvizDot {
	graph := gographviz.NewEscape()
	graph.SetDir(true)
	graph.SetName(graphName)
	graph.AddAttr(graphName, "layout", "circo")

	// Interleave so circo places each chopstick between its two users.
	for i, p := range state.Philosophers {
		graph.AddNode(graphName, PhilosopherNode(p.ID), map[string]string{
			"label":     fmt.Sprintf("\"%d: %s\"", p.ID, p.State),
			"shape":     "circle",
			"style":     "filled",
			"fillcolor": stateColour[p.State],
		})
		if i < len(state.Chopsticks) {
			graph.AddNode(graphName, ChopstickNode(i), chopstickAttrs(i, state.Chopsticks[i]))
		}
	}
	for _, p := range state.Philosophers {
		style := "dashed"
		if p.State == philosopher.Eating {
			style = "solid"
		}
		for _, c := range []int{p.Left, p.Right} {
			graph.AddEdge(PhilosopherNode(p.ID), ChopstickNode(c), true, map[string]string{
				"style": style,
			})
		}
	}
	return &GraphvizDot{Graph: graph}
}

func chopstickAttrs(i int, inUse bool) map[string]string {
	attrs := map[string]string{
		"label": fmt.Sprintf("\"chopstick %d\"", i),
		"shape": "box",
	}
	if inUse {
		attrs["color"] = "red"
		attrs["penwidth"] = "2"
	}
	return attrs
}

// WriteTo implements io.WriterTo.
func (dot *GraphvizDot) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, dot.Graph.String())
	return int64(n), err
}

func (dot *GraphvizDot) String() string {
	return dot.Graph.String()
}
