//go:build ignore
// +build ignore

// Demo script showing collision renaming across two aggregation runs
// Run with: go run scripts/demo-collisions.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/filesaggregate/internal/aggregator"
	"github.com/harrison/filesaggregate/internal/models"
)

func main() {
	root, err := os.MkdirTemp("", "aggregate-demo-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create demo tree: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(root)

	for _, rel := range []string{
		"Views/MainPage.xaml",
		"Views/MainPage.xaml.cs",
		"Views/Settings/MainPage.xaml.cs",
		"Models/Item.cs",
		"Tests/Item.cs",
		"bin/Debug/Item.cs",
	} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		os.MkdirAll(filepath.Dir(path), 0755)
		os.WriteFile(path, []byte(rel), 0644)
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Collision Renaming Demo")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Tree: %s\n\n", root)

	reporter := aggregator.ReporterFunc(func(r models.CopyRecord) {
		src, _ := filepath.Rel(root, r.Source)
		marker := ""
		if r.Renamed {
			marker = "  (renamed)"
		}
		fmt.Printf("  %-32s -> %s%s\n", src, filepath.Base(r.Destination), marker)
	})

	for run := 1; run <= 2; run++ {
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("Run %d\n", run)
		fmt.Println(strings.Repeat("-", 60))

		result, err := aggregator.Aggregate(context.Background(), aggregator.DefaultOptions(root, ""), reporter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Run %d failed: %v\n", run, err)
			os.Exit(1)
		}
		fmt.Printf("Copied %d files, %d renamed, %d skipped\n\n", len(result.Copied), result.RenamedCount(), result.Skipped)
	}
}
