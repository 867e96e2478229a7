package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/siherrmann/kgview"
	"github.com/siherrmann/kgview/model"
	"github.com/siherrmann/kgview/sample"
)

const brokenEnvelope = `{"result":{"content":[{"type":"text","text":"The memory server is not reachable."}]}}`

func main() {
	config := model.DefaultConvertConfig()
	config.Source = "sample"
	k := kgview.NewKGView(config, nil)

	// Convert the embedded sample envelope
	graph, err := k.Convert(sample.Envelope())
	if err != nil {
		log.Fatalf("Failed to convert sample: %v", err)
	}

	fmt.Printf("Converted %d nodes and %d links\n", graph.Metadata.NodeCount, graph.Metadata.LinkCount)
	fmt.Printf("Entity types: %v\n", graph.Metadata.EntityTypes)
	for _, node := range graph.Nodes {
		if node.Placeholder {
			fmt.Printf("Placeholder for undefined entity %q (group %d)\n", node.ID, node.Group)
		}
	}
	for _, link := range graph.Links {
		fmt.Printf("%s -[%s x%d]-> %s\n", link.Source, link.Type, link.Value, link.Target)
	}

	// Check the sample without repairing it
	report, err := k.Check(sample.Envelope())
	if err != nil {
		log.Fatalf("Failed to check sample: %v", err)
	}
	fmt.Printf("\nValid: %t, missing ids: %v, components: %d\n", report.Valid, report.MissingIDs, report.Components)

	// A broken envelope falls back to the sample
	fallback, err := k.ConvertWithFallback([]byte(brokenEnvelope), sample.Envelope())
	if err != nil {
		log.Fatalf("Failed to convert with fallback: %v", err)
	}
	fmt.Printf("\nFallback used: %t (%s)\n", fallback.Metadata.Fallback, fallback.Metadata.FallbackReason)

	out, err := json.MarshalIndent(graph.Nodes[0], "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal node: %v", err)
	}
	fmt.Printf("\nFirst node:\n%s\n", out)

	fmt.Println("\nBasic example completed successfully!")
}
