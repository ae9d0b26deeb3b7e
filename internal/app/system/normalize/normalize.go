// Package normalize collapses the heterogeneous field shapes Airtable
// returns (scalars, arrays, nested objects, JSON-encoded strings) into the
// flat display strings and URL lists the published GeoJSON carries.
//
// Every function here is best-effort and total: malformed input degrades to
// an empty result or a best-effort join, never a panic or an error. The
// output of Scalar is stable under re-normalization, which keeps repeated
// regenerations byte-identical for unchanged source data.
package normalize

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tbcmaps/geofeed/internal/app/system/attachmenturl"
)

// MaxURLs bounds how many URLs a gallery field contributes to a feature.
// The published schema flattens galleries to url1..url6 plus a count.
const MaxURLs = 6

// displayKeys are checked, in order, when a field value is an object.
// Airtable collaborator and lookup cells surface their human-readable text
// under one of these.
var displayKeys = [...]string{"email", "name", "text", "value"}

// Scalar collapses an arbitrary field value into a display string.
//
// Arrays are normalized element-wise, de-duplicated in first-seen order,
// and joined with ", ". Objects yield their first display key when one is
// present, otherwise the join of their normalized values. Anything else is
// stringified and trimmed. Nil yields "".
func Scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []any:
		return joinUnique(t, Scalar)
	case map[string]any:
		for _, k := range displayKeys {
			if cand, ok := t[k]; ok && cand != nil {
				return strings.TrimSpace(stringify(cand))
			}
		}
		return joinUnique(sortedValues(t), Scalar)
	default:
		return strings.TrimSpace(stringify(v))
	}
}

// joinUnique normalizes each element with fn, drops empties, and joins
// the distinct results in first-seen order.
func joinUnique(vals []any, fn func(any) string) string {
	seen := make(map[string]bool, len(vals))
	var parts []string
	for _, v := range vals {
		s := fn(v)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

// sortedValues returns a map's values ordered by key. Go map iteration is
// randomized, and Scalar must be deterministic across runs.
func sortedValues(m map[string]any) []any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]any, 0, len(keys))
	for _, k := range keys {
		vals = append(vals, m[k])
	}
	return vals
}

// stringify renders a scalar the way the published artifact expects:
// floats without a trailing ".0" for whole numbers, bools as true/false.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return strings.Trim(string(b), `"`)
	}
}

var (
	leadingEncodedSpace = regexp.MustCompile(`^(?i:%20)+`)
	schemeSlashes       = regexp.MustCompile(`^(?i)(https?:)/{2,}`)
	doubledSlashes      = regexp.MustCompile(`([^:])/{2,}`)
)

// URL sanitizes a single URL string: leading whitespace and percent-encoded
// spaces are stripped, and runs of path separators are collapsed without
// touching the "scheme://" pair.
func URL(u string) string {
	s := strings.TrimSpace(u)
	s = leadingEncodedSpace.ReplaceAllString(s, "")
	s = strings.TrimLeft(s, " \t\r\n")
	s = schemeSlashes.ReplaceAllString(s, "$1//")
	s = doubledSlashes.ReplaceAllString(s, "$1/")
	return s
}

// URLs hunts through a field value for anything URL-shaped: plain http(s)
// strings, comma-delimited lists, JSON-encoded arrays or objects, and
// attachment objects. Results are sanitized, de-duplicated in first-seen
// order, and truncated to MaxURLs.
func URLs(v any) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(raw string) {
		u := URL(raw)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		out = append(out, u)
	}

	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case nil:
		case []any:
			for _, e := range t {
				walk(e)
			}
		case string:
			s := strings.TrimSpace(t)
			if looksLikeJSON(s) {
				var parsed any
				if err := json.Unmarshal([]byte(s), &parsed); err == nil {
					walk(parsed)
					return
				}
			}
			parts := []string{s}
			if strings.Contains(s, ",") {
				parts = strings.Split(s, ",")
			}
			for _, p := range parts {
				if u, ok := attachmenturl.Pick(p); ok {
					add(u)
				}
			}
		case map[string]any:
			if _, hasURL := t["url"]; hasURL {
				if u, ok := attachmenturl.Pick(t); ok {
					add(u)
				}
				return
			}
			if _, hasThumbs := t["thumbnails"]; hasThumbs {
				if u, ok := attachmenturl.Pick(t); ok {
					add(u)
				}
				return
			}
			for _, e := range sortedValues(t) {
				walk(e)
			}
		}
	}
	walk(v)

	if len(out) > MaxURLs {
		out = out[:MaxURLs]
	}
	return out
}

func looksLikeJSON(s string) bool {
	return (strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")) ||
		(strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"))
}

var (
	// recordIDToken matches Airtable's internal linked-record identifiers.
	// These leak out of lookup fields and must never reach display output.
	recordIDToken = regexp.MustCompile(`^rec[a-zA-Z0-9]{14}$`)
	edgeArtifacts = regexp.MustCompile(`^(\[|\]+|"+|'+)|(\[|\]+|"+|'+)$`)
	innerSpace    = regexp.MustCompile(`\s+`)
	nameSeps      = regexp.MustCompile(`[;,]`)
)

// LeaderNames normalizes a "people" field into a comma-joined list of
// display names. Quote/bracket artifacts from stringified arrays are
// stripped, record-ID tokens are dropped, and JSON-array-shaped strings
// are parsed before splitting on ";" or ",".
func LeaderNames(v any) string {
	var parts []string
	seen := make(map[string]bool)
	pushClean := func(raw any) {
		if raw == nil {
			return
		}
		t := strings.TrimSpace(stringify(raw))
		t = edgeArtifacts.ReplaceAllString(t, "")
		t = strings.TrimSpace(innerSpace.ReplaceAllString(t, " "))
		if t == "" || recordIDToken.MatchString(t) || seen[t] {
			return
		}
		seen[t] = true
		parts = append(parts, t)
	}

	switch t := v.(type) {
	case nil:
	case []any:
		for _, e := range t {
			switch ev := e.(type) {
			case map[string]any:
				if name, ok := ev["name"]; ok {
					pushClean(name)
					continue
				}
				pushClean(Scalar(ev))
			case string:
				// Stringified arrays arrive as one element with embedded
				// `","` separators between the quoted names.
				if strings.Contains(ev, `","`) {
					for _, piece := range strings.Split(ev, `","`) {
						pushClean(strings.Trim(piece, `"`))
					}
					continue
				}
				pushClean(ev)
			default:
				pushClean(ev)
			}
		}
	case string:
		text := strings.TrimSpace(t)
		if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
			var parsed []any
			if err := json.Unmarshal([]byte(text), &parsed); err == nil {
				for _, e := range parsed {
					pushClean(e)
				}
				break
			}
		}
		for _, piece := range nameSeps.Split(text, -1) {
			pushClean(piece)
		}
	default:
		pushClean(v)
	}

	return strings.Join(parts, ", ")
}

// Number parses a field value as a finite float. Strings are trimmed
// first. The second return is false for missing values, non-numeric text,
// and non-finite results; callers exclude such records rather than erroring.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(t)
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
