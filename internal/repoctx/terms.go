// Package repoctx derives ephemeral textual context from a snapshot:
// grep-style hits for a question and a scored documentation context bundle.
package repoctx

import "strings"

const (
	maxTerms    = 8
	minTermLen  = 3
	perTermHits = 20
	maxHits     = 200
)

// stopWords are question filler never worth grepping for.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"what": {}, "how": {}, "where": {}, "when": {}, "why": {}, "who": {},
	"are": {}, "was": {}, "can": {}, "does": {}, "did": {}, "you": {},
	"your": {}, "from": {}, "have": {}, "has": {}, "had": {}, "not": {},
	"but": {}, "they": {}, "them": {}, "will": {}, "would": {}, "should": {},
	"could": {}, "into": {}, "about": {}, "there": {}, "their": {},
	"which": {}, "while": {}, "been": {}, "being": {}, "our": {}, "out": {},
	"all": {}, "any": {}, "its": {}, "use": {}, "used": {}, "using": {},
	"please": {}, "show": {}, "tell": {}, "find": {}, "like": {},
}

// SearchTerms extracts up to eight lowercase grep terms from a natural
// language question, in order of first appearance.
func SearchTerms(question string) []string {
	low := strings.ToLower(question)

	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range low {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			cur.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	seen := make(map[string]struct{})
	var terms []string
	for _, tok := range tokens {
		if len(tok) < minTermLen {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
		if len(terms) >= maxTerms {
			break
		}
	}
	return terms
}
