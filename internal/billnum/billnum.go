package billnum

import (
	"regexp"
	"strings"
)

// Search classification returned by AnalyzeSearchTerm.
const (
	SearchTypeBillNumber = "bill_number"
	SearchTypeMixed      = "mixed"
	SearchTypeText       = "text"
)

// Analysis classifies a free-text search term and carries the terms a store
// query should match against.
type Analysis struct {
	SearchType   string   `json:"search_type"`
	SearchTerms  []string `json:"search_terms"`
	IsBillNumber bool     `json:"is_bill_number"`
}

// billForm pairs the compact LegiScan prefix with its federal citation form.
// Three-letter prefixes come first so embedded scans never split "HJR" into
// "HR" + stray "J".
type billForm struct {
	compact  string
	display  string
	legiscan *regexp.Regexp
	federal  *regexp.Regexp
}

var forms = []billForm{
	{compact: "HJR", display: "H.J.Res."},
	{compact: "SJR", display: "S.J.Res."},
	{compact: "HCR", display: "H.Con.Res."},
	{compact: "SCR", display: "S.Con.Res."},
	{compact: "HB", display: "H.R."},
	{compact: "SB", display: "S."},
	{compact: "HR", display: "H.Res."},
	{compact: "SR", display: "S.Res."},
}

func init() {
	for i := range forms {
		f := &forms[i]
		f.legiscan = regexp.MustCompile(`(?i)^` + f.compact + `\s*(\d+)$`)
		f.federal = regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(f.display) + `\s*(\d+)$`)
	}
}

// embeddedPattern finds bill-number tokens inside longer text, in either
// notation. Alternation order keeps the longer prefixes ahead of their
// two-letter substrings.
var embeddedPattern = regexp.MustCompile(
	`(?i)\b(?:hjr|sjr|hcr|scr|hb|sb|hr|sr)\s*\d+\b` +
		`|(?i)\b(?:h\.j\.res\.|s\.j\.res\.|h\.con\.res\.|s\.con\.res\.|h\.res\.|s\.res\.|h\.r\.|s\.)\s*\d+\b`)

// FormatBillNumber rewrites a LegiScan-style citation ("HB123") into the
// federal display form ("H.R. 123"). Input that matches no known pattern is
// returned unchanged; empty input yields "Unknown".
func FormatBillNumber(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Unknown"
	}
	trimmed := strings.TrimSpace(raw)
	for _, f := range forms {
		if m := f.legiscan.FindStringSubmatch(trimmed); m != nil {
			return f.display + " " + m[1]
		}
	}
	return raw
}

// NormalizeToLegiScan rewrites a federal citation ("H.R. 123") into the
// compact LegiScan form ("HB123"). Inputs already in LegiScan form are
// canonicalized (uppercased, internal spacing removed); anything else is
// returned trimmed.
func NormalizeToLegiScan(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	for _, f := range forms {
		if m := f.federal.FindStringSubmatch(trimmed); m != nil {
			return f.compact + m[1]
		}
	}
	for _, f := range forms {
		if m := f.legiscan.FindStringSubmatch(trimmed); m != nil {
			return f.compact + m[1]
		}
	}
	return trimmed
}

// SearchTerms returns every variant of the input worth matching in a
// permissive bill search: the original, the LegiScan canonical form, the
// federal display form, and uppercased variants with and without internal
// whitespace. Duplicates are dropped, first occurrence wins.
func SearchTerms(input string) []string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return []string{}
	}

	canonical := NormalizeToLegiScan(trimmed)
	candidates := []string{
		trimmed,
		canonical,
		FormatBillNumber(canonical),
		strings.ToUpper(trimmed),
		strings.ReplaceAll(strings.ToUpper(trimmed), " ", ""),
	}

	seen := map[string]bool{}
	out := []string{}
	for _, c := range candidates {
		if c == "" || c == "Unknown" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// IsBillNumber reports whether the whole input is a bill citation in either
// notation.
func IsBillNumber(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false
	}
	for _, f := range forms {
		if f.legiscan.MatchString(trimmed) || f.federal.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// ValidateBillNumber returns the LegiScan canonical form and true when the
// input is a recognizable bill citation.
func ValidateBillNumber(input string) (string, bool) {
	if !IsBillNumber(input) {
		return "", false
	}
	return NormalizeToLegiScan(input), true
}

// AnalyzeSearchTerm classifies free-text search input. A term that is
// entirely a bill citation gets SearchTypeBillNumber with all its variants;
// text containing embedded citations gets SearchTypeMixed with the original
// text plus the variants of every citation found; plain text gets
// SearchTypeText with just the trimmed original.
func AnalyzeSearchTerm(term string) Analysis {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return Analysis{SearchType: SearchTypeText, SearchTerms: []string{}}
	}

	if IsBillNumber(trimmed) {
		return Analysis{
			SearchType:   SearchTypeBillNumber,
			SearchTerms:  SearchTerms(trimmed),
			IsBillNumber: true,
		}
	}

	if tokens := embeddedPattern.FindAllString(trimmed, -1); len(tokens) > 0 {
		seen := map[string]bool{trimmed: true}
		terms := []string{trimmed}
		for _, tok := range tokens {
			for _, v := range SearchTerms(tok) {
				if !seen[v] {
					seen[v] = true
					terms = append(terms, v)
				}
			}
		}
		return Analysis{SearchType: SearchTypeMixed, SearchTerms: terms}
	}

	return Analysis{SearchType: SearchTypeText, SearchTerms: []string{trimmed}}
}
