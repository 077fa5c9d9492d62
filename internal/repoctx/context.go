package repoctx

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"repobridge/internal/config"
	"repobridge/internal/models"
	"repobridge/internal/session"
)

const (
	defaultContextMaxChars = 20_000
	snippetFileCap         = 4
	snippetRadius          = 3
	truncationMarker       = "\n…(truncated)…"
)

// BuildFrontendContext emits the grep-style context block for a question
// against the project's snapshot: fixed header, hit lines and ±3-line
// snippets around the first hit of up to four distinct files, truncated to
// the configured ceiling. ok is false when the project has no snapshot.
func BuildFrontendContext(reg *session.Registry, projectID, question, branch string) (string, bool) {
	snapshot := reg.GetSnapshot(projectID)
	if snapshot == nil {
		return "", false
	}

	terms := SearchTerms(question)
	hits := CollectHits(snapshot, terms)

	var b strings.Builder
	b.WriteString("LOCAL REPOSITORY CONTEXT\n")
	fmt.Fprintf(&b, "Repository: %s\n", snapshot.RootName)
	if branch != "" {
		fmt.Fprintf(&b, "Branch: %s\n", branch)
	}
	fmt.Fprintf(&b, "Indexed: %s\n", snapshot.IndexedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Files: %d\n", len(snapshot.Files))
	fmt.Fprintf(&b, "Terms: %s\n", strings.Join(terms, ", "))

	if len(hits) == 0 {
		b.WriteString("\nNo matches.\n")
	} else {
		b.WriteString("\nMATCHES:\n")
		for _, h := range hits {
			fmt.Fprintf(&b, "%s:%d:%d: [%s] %s\n", h.Path, h.Line, h.Col, h.Term, h.Snippet)
		}
		writeSnippets(&b, snapshot, hits)
	}

	out := b.String()
	ceiling := config.GetContextMaxChars()
	if ceiling <= 0 {
		ceiling = defaultContextMaxChars
	}
	if len(out) > ceiling {
		out = truncateAtRune(out, ceiling) + truncationMarker
	}
	return out, true
}

// truncateAtRune cuts s to at most max bytes without splitting a
// multi-byte rune at the boundary.
func truncateAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// writeSnippets appends a ±snippetRadius line excerpt around the first hit
// in each of up to snippetFileCap distinct files.
func writeSnippets(b *strings.Builder, snapshot *models.Snapshot, hits []models.Hit) {
	seen := make(map[string]struct{})
	for _, h := range hits {
		if len(seen) >= snippetFileCap {
			return
		}
		if _, done := seen[h.Path]; done {
			continue
		}
		seen[h.Path] = struct{}{}

		file := snapshot.File(h.Path)
		if file == nil {
			continue
		}
		lines := strings.Split(file.Content, "\n")
		start := h.Line - 1 - snippetRadius
		if start < 0 {
			start = 0
		}
		end := h.Line - 1 + snippetRadius
		if end >= len(lines) {
			end = len(lines) - 1
		}

		fmt.Fprintf(b, "\n--- %s (around line %d) ---\n", h.Path, h.Line)
		for i := start; i <= end; i++ {
			fmt.Fprintf(b, "%4d| %s\n", i+1, lines[i])
		}
	}
}
