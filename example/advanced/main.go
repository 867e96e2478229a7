package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/siherrmann/kgview"
	"github.com/siherrmann/kgview/helper"
	"github.com/siherrmann/kgview/model"
	"github.com/siherrmann/kgview/sample"
)

func main() {
	ctx := context.Background()

	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(ctx)

	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	config := model.DefaultConvertConfig()
	config.Source = "postgres"
	k := kgview.NewKGView(config, nil)
	if err := k.ConnectStore(dbConfig, true); err != nil {
		log.Fatalf("Failed to connect store: %v", err)
	}
	defer k.Close()

	// Import the sample graph
	result, err := k.ImportPayload(ctx, sample.Envelope())
	if err != nil {
		log.Fatalf("Failed to import sample: %v", err)
	}
	fmt.Printf("Imported %d entities and %d relations\n", result.Entities, result.Relations)

	// Importing again merges instead of duplicating
	update := `{
		"entities": [{"name": "Bob", "observations": ["Reviews pull requests"]}],
		"relations": [{"from": "Bob", "to": "Alice", "relationType": "works_with"}]
	}`
	if _, err := k.ImportPayload(ctx, []byte(update)); err != nil {
		log.Fatalf("Failed to import update: %v", err)
	}

	// Convert what is stored, dangling references included
	graph, err := k.ConvertSource(ctx, nil)
	if err != nil {
		log.Fatalf("Failed to convert store: %v", err)
	}
	fmt.Printf("Stored graph: %d nodes, %d links, %d placeholders\n",
		graph.Metadata.NodeCount, graph.Metadata.LinkCount, graph.Metadata.PlaceholderCount)

	for _, node := range graph.Nodes {
		if node.ID == "Bob" {
			fmt.Printf("Bob: %s\n", strings.Join(node.Observations, "; "))
		}
	}

	// Traverse from the project
	results, err := k.BFSTraversal(graph, "gpxmapper", 2)
	if err != nil {
		log.Fatalf("Failed to traverse: %v", err)
	}
	fmt.Println("\nWithin two hops of gpxmapper:")
	for _, r := range results {
		fmt.Printf("  %d %s (%s)\n", r.Distance, r.NodeID, strings.Join(r.Path, " > "))
	}

	// Restrict to the neighborhood of one feature
	focus, err := k.Focus(graph, "Elevation Profile", 1)
	if err != nil {
		log.Fatalf("Failed to focus: %v", err)
	}
	fmt.Printf("\nElevation Profile neighborhood: %d nodes, types %v\n", focus.Metadata.NodeCount, focus.Metadata.EntityTypes)

	fmt.Println("\nAdvanced example completed successfully!")
}
