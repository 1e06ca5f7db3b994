// Package extract pulls structured contact fields out of unstructured
// page text. Extraction is pure pattern matching: no I/O, no mutation
// of inputs, and everything returned is structurally valid.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Field is a single validated contact candidate found in a document.
type Field struct {
	Kind       model.FieldKind
	Value      string
	Confidence float64
}

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,6}\b`)

	// North-American numbers with optional +1 country code.
	nanpRe = regexp.MustCompile(`(?:\+?1[-.\s]?)?(?:\(\d{3}\)|\d{3})[-.\s]?\d{3}[-.\s]?\d{4}`)
	// International numbers with an explicit country code prefix.
	intlPhoneRe = regexp.MustCompile(`\+\d{1,3}[-.\s]?\d(?:[-.\s]?\d){5,13}`)

	phoneStripRe = regexp.MustCompile(`[-.\s()]`)
)

// Extract finds email and phone candidates in content, validates them,
// and returns them ranked first-seen-most-frequent per kind. Invalid
// candidates are discarded rather than returned with low confidence.
func Extract(content string) []Field {
	// Scraped pages occasionally carry fullwidth or composed forms;
	// normalize before matching.
	text := norm.NFKC.String(content)

	var fields []Field
	fields = append(fields, rank(model.FieldEmail, emailCandidates(text))...)
	fields = append(fields, rank(model.FieldPhone, phoneCandidates(text))...)
	return fields
}

// TopValue returns the highest-ranked value of the given kind, or ""
// when the kind is absent.
func TopValue(fields []Field, kind model.FieldKind) string {
	for _, f := range fields {
		if f.Kind == kind {
			return f.Value
		}
	}
	return ""
}

// candidate is an occurrence list for one normalized value.
type candidate struct {
	value    string
	count    int
	firstIdx int
}

func emailCandidates(text string) []candidate {
	return collect(emailRe.FindAllStringIndex(text, -1), text, normalizeEmail)
}

func phoneCandidates(text string) []candidate {
	matches := nanpRe.FindAllStringIndex(text, -1)
	matches = append(matches, intlPhoneRe.FindAllStringIndex(text, -1)...)
	sort.Slice(matches, func(i, j int) bool { return matches[i][0] < matches[j][0] })

	// The phone patterns carry no boundary anchors, so a long digit
	// run (an order number, a hash) would otherwise yield a "valid"
	// prefix. A match flanked by further digits is not a phone number.
	kept := matches[:0]
	for _, m := range matches {
		if digitFlanked(text, m[0], m[1]) {
			continue
		}
		kept = append(kept, m)
	}
	return collect(kept, text, normalizePhone)
}

// digitFlanked reports whether the match at [start,end) is embedded in
// a longer digit run.
func digitFlanked(text string, start, end int) bool {
	if start > 0 && text[start-1] >= '0' && text[start-1] <= '9' {
		return true
	}
	if end < len(text) && text[end] >= '0' && text[end] <= '9' {
		return true
	}
	return false
}

// collect folds raw regex matches into per-value occurrence counts,
// dropping candidates the normalizer rejects.
func collect(matches [][]int, text string, normalize func(string) (string, bool)) []candidate {
	order := make([]string, 0, len(matches))
	seen := make(map[string]*candidate)

	for _, m := range matches {
		val, ok := normalize(text[m[0]:m[1]])
		if !ok {
			continue
		}
		if c, dup := seen[val]; dup {
			c.count++
			continue
		}
		seen[val] = &candidate{value: val, count: 1, firstIdx: m[0]}
		order = append(order, val)
	}

	out := make([]candidate, 0, len(order))
	for _, v := range order {
		out = append(out, *seen[v])
	}
	return out
}

// rank orders candidates most-frequent-first, breaking ties by first
// position in the document, and assigns descending confidence.
func rank(kind model.FieldKind, cands []candidate) []Field {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].count != cands[j].count {
			return cands[i].count > cands[j].count
		}
		return cands[i].firstIdx < cands[j].firstIdx
	})

	fields := make([]Field, 0, len(cands))
	for i, c := range cands {
		conf := 1.0 - 0.15*float64(i)
		if conf < 0.2 {
			conf = 0.2
		}
		fields = append(fields, Field{Kind: kind, Value: c.value, Confidence: conf})
	}
	return fields
}

// normalizeEmail validates the standard address grammar: a local part,
// an @, and a domain containing at least one dot, with no whitespace.
func normalizeEmail(raw string) (string, bool) {
	addr := strings.ToLower(strings.TrimSpace(raw))
	at := strings.Index(addr, "@")
	if at <= 0 || at != strings.LastIndex(addr, "@") {
		return "", false
	}
	local, domain := addr[:at], addr[at+1:]
	if local == "" || domain == "" {
		return "", false
	}
	if strings.ContainsAny(addr, " \t\n") {
		return "", false
	}
	if !strings.Contains(domain, ".") ||
		strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", false
	}
	return addr, true
}

// normalizePhone strips formatting punctuation and requires 7-15
// digits, keeping an explicit leading country-code plus sign.
func normalizePhone(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	plus := strings.HasPrefix(s, "+")
	digits := phoneStripRe.ReplaceAllString(strings.TrimPrefix(s, "+"), "")
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	if len(digits) < 7 || len(digits) > 15 {
		return "", false
	}
	if plus {
		return "+" + digits, true
	}
	return digits, true
}
