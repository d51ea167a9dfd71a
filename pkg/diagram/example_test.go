package diagram_test

import (
	"fmt"

	"github.com/orreryworks/orrery/pkg/diagram"
)

func ExampleMarshal() {
	d := diagram.New("system", diagram.KindComponent)
	s := d.AddScope("")
	s.AddNode(diagram.Node{ID: "web", Text: "Web"})
	s.AddNode(diagram.Node{ID: "api"})
	s.AddRelation(diagram.Relation{From: "web", To: "api", Label: "calls"})

	data, err := diagram.Marshal(d)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(string(data))
	// Output:
	// {
	//   "name": "system",
	//   "kind": "component",
	//   "scopes": [
	//     {
	//       "nodes": [
	//         {
	//           "id": "web",
	//           "text": "Web"
	//         },
	//         {
	//           "id": "api"
	//         }
	//       ],
	//       "relations": [
	//         {
	//           "from": "web",
	//           "to": "api",
	//           "label": "calls"
	//         }
	//       ]
	//     }
	//   ]
	// }
}

func ExampleImport() {
	dj := diagram.DiagramJSON{
		Kind: diagram.KindComponent,
		Scopes: []diagram.ScopeJSON{
			{Nodes: []diagram.NodeJSON{{ID: "db", Shape: "document"}}},
		},
	}

	d, err := diagram.Import(dj)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, n := range d.RootScope().Nodes() {
		fmt.Println(n.ID, n.Shape)
	}
	// Output:
	// db document
}
