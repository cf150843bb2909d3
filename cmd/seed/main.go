// Package main provides a tool to seed the catalog database from a JSON file.
//
// The input file holds media items and their classified segments, the way a
// segment-provider export looks:
//
//	{
//	  "items": [
//	    {"id": "ep1", "path": "/media/show/ep1.mkv", "runtimeTicks": 13140000000}
//	  ],
//	  "segments": [
//	    {"itemId": "ep1", "startTicks": 0, "endTicks": 900000000, "type": "intro"}
//	  ]
//	}
//
// Usage:
//
//	CATALOG_DB=~/ChapterForge/catalog.db go run ./cmd/seed -input export.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/chapterforge/chapterforge-server/internal/catalog"
	"github.com/chapterforge/chapterforge-server/internal/logger"
	"github.com/chapterforge/chapterforge-server/internal/segments"
)

var input = flag.String("input", "", "Path to the JSON export to import")

type exportFile struct {
	Items    []catalog.Item  `json:"items"`
	Segments []exportSegment `json:"segments"`
}

type exportSegment struct {
	ItemID     string `json:"itemId"`
	StartTicks int64  `json:"startTicks"`
	EndTicks   int64  `json:"endTicks"`
	Type       string `json:"type"`
}

func main() {
	flag.Parse()

	if *input == "" {
		log.Fatal("missing -input: path to a JSON export is required")
	}

	dbPath := os.Getenv("CATALOG_DB")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/ChapterForge/catalog.db")
	}

	fmt.Printf("Opening catalog at: %s\n", dbPath)

	lg := logger.New(logger.Config{Environment: "development"})
	store, err := catalog.Open(dbPath, lg.Logger)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer store.Close()

	raw, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *input, err)
	}

	var export exportFile
	if err := json.Unmarshal(raw, &export); err != nil {
		log.Fatalf("Failed to parse %s: %v", *input, err)
	}

	ctx := context.Background()

	for _, item := range export.Items {
		if err := store.UpsertItem(ctx, item); err != nil {
			log.Fatalf("Failed to upsert item %s: %v", item.ID, err)
		}
	}
	fmt.Printf("Imported %d items\n", len(export.Items))

	for _, seg := range export.Segments {
		err := store.AddSegment(ctx, segments.Segment{
			ItemID:     seg.ItemID,
			StartTicks: seg.StartTicks,
			EndTicks:   seg.EndTicks,
			Type:       segments.ParseType(seg.Type),
		})
		if err != nil {
			log.Fatalf("Failed to add segment for %s: %v", seg.ItemID, err)
		}
	}
	fmt.Printf("Imported %d segments\n", len(export.Segments))
}
