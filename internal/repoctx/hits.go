package repoctx

import (
	"strings"

	"repobridge/internal/models"
)

const maxSnippetChars = 200

// CollectHits scans every snapshot file line by line for case-insensitive
// substring matches. At most one term is recorded per line (first match
// wins), each term is capped at perTermHits and the scan stops entirely at
// maxHits.
func CollectHits(snapshot *models.Snapshot, terms []string) []models.Hit {
	if snapshot == nil || len(terms) == 0 {
		return nil
	}

	var hits []models.Hit
	perTerm := make(map[string]int, len(terms))

	for i := range snapshot.Files {
		file := &snapshot.Files[i]
		lines := strings.Split(file.Content, "\n")
		for lineNo, line := range lines {
			if len(hits) >= maxHits {
				return hits
			}
			low := strings.ToLower(line)
			for _, term := range terms {
				if perTerm[term] >= perTermHits {
					continue
				}
				col := strings.Index(low, term)
				if col < 0 {
					continue
				}
				snippet := truncateAtRune(strings.TrimSpace(line), maxSnippetChars)
				hits = append(hits, models.Hit{
					Term:    term,
					Path:    file.Path,
					Line:    lineNo + 1,
					Col:     col + 1,
					Snippet: snippet,
				})
				perTerm[term]++
				break
			}
		}
	}
	return hits
}
