package repoctx

import (
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"repobridge/internal/acquire"
	"repobridge/internal/models"
	"repobridge/internal/session"
	"repobridge/internal/slogutil"
	"repobridge/internal/store"
)

func seedRegistry(t *testing.T, projectID string, snap *models.Snapshot) *session.Registry {
	t.Helper()
	tiers := store.NewTiers(slogutil.NewDiscardLogger(), store.NewMemoryStore(), store.NewMemoryStore())
	reg := session.NewRegistry(tiers, slogutil.NewDiscardLogger())
	if err := reg.SetSession(projectID, &acquire.Session{Snapshot: snap}); err != nil {
		t.Fatalf("failed to seed registry: %v", err)
	}
	return reg
}

func snapshotOf(files ...models.LocalRepoFile) *models.Snapshot {
	return &models.Snapshot{
		RootName:  "demo",
		Files:     files,
		IndexedAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestSearchTerms(t *testing.T) {
	got := SearchTerms("Where is the session registry persisted?")
	want := []string{"session", "registry", "persisted"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("terms = %v, want %v", got, want)
	}

	// Stop words, short tokens and duplicates are dropped; order is first
	// appearance; the count caps at eight.
	got = SearchTerms("a b cc handler handler one two three four five six seven eight nine")
	want = []string{"handler", "one", "two", "three", "four", "five", "six", "seven"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("terms = %v, want %v", got, want)
	}

	if terms := SearchTerms("the and for with"); len(terms) != 0 {
		t.Errorf("stop-word-only question should yield no terms, got %v", terms)
	}

	// snake_case identifiers survive as single tokens.
	got = SearchTerms("what does normalize_doc_path do")
	want = []string{"normalize_doc_path"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("terms = %v, want %v", got, want)
	}
}

func TestCollectHits(t *testing.T) {
	snap := snapshotOf(
		models.LocalRepoFile{Path: "a.go", Content: "package a\n\nfunc Handler() {}\nvar handlerCount int\n"},
		models.LocalRepoFile{Path: "b.go", Content: "// no matches here\n"},
	)

	hits := CollectHits(snap, []string{"handler"})
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	first := hits[0]
	if first.Path != "a.go" || first.Line != 3 || first.Col != 6 {
		t.Errorf("unexpected first hit: %+v", first)
	}
	if first.Snippet != "func Handler() {}" {
		t.Errorf("snippet = %q", first.Snippet)
	}
}

func TestCollectHitsOneTermPerLine(t *testing.T) {
	snap := snapshotOf(
		models.LocalRepoFile{Path: "x.go", Content: "session registry glue\n"},
	)
	hits := CollectHits(snap, []string{"session", "registry"})
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit (first term wins per line), got %d", len(hits))
	}
	if hits[0].Term != "session" {
		t.Errorf("term = %q, want session", hits[0].Term)
	}
}

func TestCollectHitsPerTermCap(t *testing.T) {
	content := strings.Repeat("match me\n", 50)
	snap := snapshotOf(models.LocalRepoFile{Path: "big.txt", Content: content})

	hits := CollectHits(snap, []string{"match"})
	if len(hits) != perTermHits {
		t.Errorf("expected per-term cap of %d, got %d", perTermHits, len(hits))
	}
}

func TestCollectHitsGlobalCap(t *testing.T) {
	// Eleven distinct terms at 20 hits each would exceed the global cap.
	var files []models.LocalRepoFile
	var terms []string
	for _, term := range []string{"alpha", "bravo", "charlie", "delta", "echo",
		"foxtrot", "golf", "hotel", "india", "juliet", "kilo"} {
		terms = append(terms, term)
		files = append(files, models.LocalRepoFile{
			Path:    term + ".txt",
			Content: strings.Repeat(term+"\n", 30),
		})
	}
	hits := CollectHits(snapshotOf(files...), terms)
	if len(hits) != maxHits {
		t.Errorf("expected global cap of %d, got %d", maxHits, len(hits))
	}
}

func TestBuildFrontendContext(t *testing.T) {
	snap := snapshotOf(
		models.LocalRepoFile{Path: "src/server.go", Content: "package srv\n\nfunc ListenLoop() {\n\t// accept connections\n}\n"},
	)
	reg := seedRegistry(t, "prj", snap)

	out, ok := BuildFrontendContext(reg, "prj", "where is the listen loop", "main")
	if !ok {
		t.Fatal("expected a context block")
	}
	for _, want := range []string{
		"LOCAL REPOSITORY CONTEXT",
		"Repository: demo",
		"Branch: main",
		"Files: 1",
		"Terms: listen, loop",
		"MATCHES:",
		"src/server.go:3:6: [listen] func ListenLoop() {",
		"--- src/server.go (around line 3) ---",
		"   1| package srv",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestBuildFrontendContextNoSnapshot(t *testing.T) {
	tiers := store.NewTiers(slogutil.NewDiscardLogger(), store.NewMemoryStore(), store.NewMemoryStore())
	reg := session.NewRegistry(tiers, slogutil.NewDiscardLogger())
	if _, ok := BuildFrontendContext(reg, "missing", "anything", ""); ok {
		t.Error("expected ok=false without a snapshot")
	}
}

func TestBuildFrontendContextNoMatches(t *testing.T) {
	reg := seedRegistry(t, "prj", snapshotOf(
		models.LocalRepoFile{Path: "a.md", Content: "# Title\n"},
	))
	out, ok := BuildFrontendContext(reg, "prj", "zzzqqq nonexistent", "")
	if !ok {
		t.Fatal("expected a context block")
	}
	if !strings.Contains(out, "No matches.") {
		t.Errorf("expected the no-matches marker:\n%s", out)
	}
}

func TestBuildFrontendContextTruncates(t *testing.T) {
	// Eight terms at the per-term hit cap, each with a long snippet, push
	// the block well past the character ceiling.
	terms := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}
	var files []models.LocalRepoFile
	for _, term := range terms {
		line := term + " " + strings.Repeat("x", 170) + "\n"
		files = append(files, models.LocalRepoFile{
			Path:    term + ".txt",
			Content: strings.Repeat(line, 30),
		})
	}
	reg := seedRegistry(t, "prj", snapshotOf(files...))

	out, ok := BuildFrontendContext(reg, "prj", strings.Join(terms, " "), "")
	if !ok {
		t.Fatal("expected a context block")
	}
	if !strings.HasSuffix(out, truncationMarker) {
		t.Error("oversized context should end with the truncation marker")
	}
	if !utf8.ValidString(out) {
		t.Error("ceiling cut split a rune")
	}
	if len(out) > defaultContextMaxChars+len(truncationMarker) {
		t.Errorf("context exceeds ceiling: %d chars", len(out))
	}
}

func TestTruncateAtRune(t *testing.T) {
	// "héllo" is h(1) é(2) l l o; cutting at byte 2 lands inside é.
	if got := truncateAtRune("héllo", 2); got != "h" {
		t.Errorf("truncateAtRune = %q, want h", got)
	}
	if got := truncateAtRune("héllo", 3); got != "hé" {
		t.Errorf("truncateAtRune = %q, want hé", got)
	}
	if got := truncateAtRune("short", 100); got != "short" {
		t.Errorf("truncateAtRune = %q, want short", got)
	}
}

func TestCollectHitsSnippetKeepsValidEncoding(t *testing.T) {
	line := "needle " + strings.Repeat("é", 120)
	snap := snapshotOf(models.LocalRepoFile{Path: "u.txt", Content: line + "\n"})

	hits := CollectHits(snap, []string{"needle"})
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if !utf8.ValidString(hits[0].Snippet) {
		t.Error("snippet truncation split a rune")
	}
	if len(hits[0].Snippet) > maxSnippetChars {
		t.Errorf("snippet over cap: %d bytes", len(hits[0].Snippet))
	}
}

func TestSnippetsCapDistinctFiles(t *testing.T) {
	var files []models.LocalRepoFile
	for i := 0; i < 6; i++ {
		files = append(files, models.LocalRepoFile{
			Path:    "f" + string(rune('a'+i)) + ".txt",
			Content: "needle\n",
		})
	}
	reg := seedRegistry(t, "prj", snapshotOf(files...))

	out, _ := BuildFrontendContext(reg, "prj", "needle", "")
	if got := strings.Count(out, "(around line"); got != snippetFileCap {
		t.Errorf("expected %d snippet blocks, got %d", snippetFileCap, got)
	}
}

func TestBuildDocumentationContext(t *testing.T) {
	snap := snapshotOf(
		models.LocalRepoFile{Path: "package.json", Content: "{\"name\": \"demo\"}\n"},
		models.LocalRepoFile{Path: "src/index.ts", Content: "export {}\n"},
		models.LocalRepoFile{Path: "documentation/old.md", Content: "# Old docs\n"},
		models.LocalRepoFile{Path: "notes.txt", Content: "scratch notes\n"},
	)
	reg := seedRegistry(t, "prj", snap)

	ctx := BuildDocumentationContext(reg, "prj", "")
	if ctx == nil {
		t.Fatal("expected a documentation context")
	}
	if ctx.RepoRoot != "demo" {
		t.Errorf("repo root = %q", ctx.RepoRoot)
	}
	// The manifest ranks first; existing documentation is excluded.
	if len(ctx.FilePaths) == 0 || ctx.FilePaths[0] != "package.json" {
		t.Errorf("expected package.json first, got %v", ctx.FilePaths)
	}
	for _, p := range ctx.FilePaths {
		if strings.HasPrefix(p, "documentation/") {
			t.Errorf("documentation folder leaked into context: %s", p)
		}
	}
	if !strings.Contains(ctx.Context, "FILE: package.json") {
		t.Errorf("context missing manifest block:\n%s", ctx.Context)
	}
}

func TestBuildDocumentationContextNil(t *testing.T) {
	tiers := store.NewTiers(slogutil.NewDiscardLogger(), store.NewMemoryStore(), store.NewMemoryStore())
	reg := session.NewRegistry(tiers, slogutil.NewDiscardLogger())
	if BuildDocumentationContext(reg, "missing", "") != nil {
		t.Error("expected nil without a snapshot")
	}
}

func TestListAndReadDocumentationFiles(t *testing.T) {
	snap := snapshotOf(
		models.LocalRepoFile{Path: "documentation/b.md", Content: "B\n"},
		models.LocalRepoFile{Path: "documentation/a.md", Content: "A\n"},
		models.LocalRepoFile{Path: "src/main.go", Content: "package main\n"},
	)
	reg := seedRegistry(t, "prj", snap)

	paths := ListDocumentationFiles(reg, "prj")
	want := []string{"documentation/a.md", "documentation/b.md"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}

	// The raw path is normalized before lookup.
	content, ok := ReadDocumentationFile(reg, "prj", "a")
	if !ok || content != "A\n" {
		t.Errorf("read failed: ok=%v content=%q", ok, content)
	}
	if _, ok := ReadDocumentationFile(reg, "prj", "../escape"); ok {
		t.Error("traversal path should not resolve")
	}
	if _, ok := ReadDocumentationFile(reg, "prj", "missing"); ok {
		t.Error("absent file should not resolve")
	}
}
