package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"veena-assistant-be/internal/config"
	"veena-assistant-be/internal/pkg/logger"
	"veena-assistant-be/pkg/embedding/local"
	"veena-assistant-be/pkg/rag/dialog"
	"veena-assistant-be/pkg/rag/knowledge"
	"veena-assistant-be/pkg/rag/search"
)

// Loads the data directory offline and shows what a query would hit:
// the rebuttal that short-circuits it, or the FAQ entries retrieval
// would hand to the reply prompt.
func main() {
	k := flag.Int("k", 3, "number of FAQ entries to retrieve")
	lang := flag.String("lang", "en", "language used to resolve rebuttal replies")
	flag.Parse()

	queries := flag.Args()
	if len(queries) == 0 {
		fmt.Println("usage: probe_knowledge [-k 3] [-lang hi] \"query\" ...")
		os.Exit(2)
	}

	cfg := config.Load()

	registry := knowledge.NewRegistry(knowledge.Sources{
		Dir:           cfg.Data.Dir,
		FaqFile:       cfg.Data.FaqFile,
		DialogFile:    cfg.Data.DialogFile,
		RebuttalsFile: cfg.Data.RebuttalsFile,
		Root:          dialog.NodeID(cfg.Data.RootNodeID),
	}, local.NewHashingProvider(local.DefaultDimension), func() search.VectorStore {
		return search.NewFlatStore()
	}, logger.NewNopLogger())

	ctx := context.Background()
	kn, err := registry.Load(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to load %s: %v", cfg.Data.Dir, err)
	}

	fmt.Println("╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Printf("║  KNOWLEDGE PROBE  faq=%d  nodes=%d  rebuttals=%d\n", kn.FAQ.Len(), kn.Tree.Len(), kn.Rebuttals.Len())
	fmt.Println("╚══════════════════════════════════════════════════════════════════════════════╝")

	for _, q := range queries {
		fmt.Printf("\n▶ %s\n", q)

		if rule, ok := kn.Rebuttals.Match(q); ok {
			fmt.Printf("  REBUTTAL on %q: %s\n", rule.Objection, rule.Reply.Resolve(*lang))
			continue
		}

		hits, err := kn.FAQ.SearchHits(ctx, q, *k)
		if err != nil {
			fmt.Printf("  ❌ search failed: %v\n", err)
			continue
		}
		for i, h := range hits {
			fmt.Printf("  %d. [#%d d=%.4f] %s\n", i+1, h.Position, h.Distance, truncate(h.Text, 90))
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
