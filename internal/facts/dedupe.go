// Package facts holds the fact quality tooling that sits between the
// research and writing stages: syntactic deduplication and the
// sufficiency gate.
package facts

import (
	"strings"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
)

// Dedupe collapses facts whose claim text is identical after
// lower-casing and trimming surrounding whitespace. The first
// occurrence wins and the order of surviving facts is stable relative
// to the input. The check is intentionally syntactic: claims that say
// the same thing in different words are kept as distinct facts.
func Dedupe(facts []core.Fact) []core.Fact {
	seen := make(map[string]struct{}, len(facts))
	result := make([]core.Fact, 0, len(facts))

	for _, fact := range facts {
		key := claimKey(fact.Claim)
		if _, duplicate := seen[key]; duplicate {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, fact)
	}

	return result
}

func claimKey(claim string) string {
	return strings.ToLower(strings.TrimSpace(claim))
}
