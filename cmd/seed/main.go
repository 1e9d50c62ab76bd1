package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"recruit-assist-be/pkg/knowledge"
)

// Exports the built-in advisory corpus to a JSON file so deployments can
// edit it and point KNOWLEDGE_CORPUS_PATH at the result.
func main() {
	out := flag.String("out", "corpus.json", "output file path")
	flag.Parse()

	docs := knowledge.DefaultCorpus()

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		log.Fatalf("Error: failed to marshal corpus: %v", err)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("Error: failed to write %s: %v", *out, err)
	}

	log.Printf("✅ Wrote %d documents to %s", len(docs), *out)
}
