package differ

import (
	"fmt"
	"hash/fnv"

	"github.com/clausewise/clausewise/pkg/models"
)

// HashText computes a 32-bit FNV-1a hash of text rendered as lowercase
// hex. Non-cryptographic: it only has to be deterministic and
// order-sensitive so identical documents hash identically across runs.
func HashText(text string) string {
	h := fnv.New32a()
	h.Write([]byte(text))
	return fmt.Sprintf("%x", h.Sum32())
}

// identityKey is the clause identity used throughout diffing: two clauses
// are the same iff tag and the first 60 bytes of title match exactly.
func identityKey(c models.Clause) string {
	title := c.Title
	if len(title) > 60 {
		title = title[:60]
	}
	return string(c.Tag) + "|" + title
}

// BuildDiff compares the current document state against the previous
// snapshot. With no previous snapshot the document counts as changed and
// every current clause as added. AddedClauses is computed from clause
// identity, independent of the content hash.
func BuildDiff(prev *models.Snapshot, text string, clauses []models.Clause) models.Diff {
	currHash := HashText(text)

	if prev == nil {
		return models.Diff{
			Changed:      true,
			CurrHash:     currHash,
			AddedClauses: len(clauses),
		}
	}

	prevKeys := make(map[string]struct{}, len(prev.Clauses))
	for _, c := range prev.Clauses {
		prevKeys[identityKey(c)] = struct{}{}
	}

	added := 0
	for _, c := range clauses {
		if _, ok := prevKeys[identityKey(c)]; !ok {
			added++
		}
	}

	return models.Diff{
		Changed:      prev.Hash != currHash,
		PrevHash:     prev.Hash,
		CurrHash:     currHash,
		AddedClauses: added,
	}
}
