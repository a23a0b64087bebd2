package trends

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// BreakoutScore is the score floor assigned to breakout terms. It is high
// enough that breakout terms always rank above normally-scored ones.
const BreakoutScore = 100000

// termKeys are the flat field candidates tried after the nested title form,
// in priority order.
var termKeys = []string{"title", "query", "keyword", "term"}

// trafficKeys are the field candidates for the traffic indicator, in
// priority order.
var trafficKeys = []string{"formattedTraffic", "traffic", "value", "score"}

var trafficRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)([km])?`)

// Normalize maps a raw provider item into a canonical scored term. rank is
// the item's zero-based position in the provider's output and doubles as a
// magnitude proxy when no traffic indicator is present.
func Normalize(item RawItem, rank int) ScoredTerm {
	score, breakout := parseTraffic(extractTraffic(item.Fields), rank)
	return ScoredTerm{
		Term:     extractTerm(item.Fields, rank),
		Score:    score,
		Breakout: breakout,
		Payload:  item.Raw,
	}
}

// extractTerm tries the nested title[0].query form first, then the flat
// candidates, and synthesizes "item-<rank>" when nothing matches.
func extractTerm(fields map[string]any, rank int) string {
	if list, ok := fields["title"].([]any); ok && len(list) > 0 {
		if entry, ok := list[0].(map[string]any); ok {
			if q, ok := entry["query"].(string); ok && q != "" {
				return q
			}
		}
	}
	for _, key := range termKeys {
		if s, ok := fields[key].(string); ok && s != "" {
			return s
		}
	}
	return fmt.Sprintf("item-%d", rank)
}

// extractTraffic returns the first present traffic indicator as text.
// Numeric JSON values are stringified so they go through the same parser.
func extractTraffic(fields map[string]any) string {
	for _, key := range trafficKeys {
		switch v := fields[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// parseTraffic turns a traffic indicator like "200k+", "1.5m" or "Breakout"
// into a score. An absent or unparsable indicator falls back to 100-rank,
// preserving the provider's ordering as a magnitude proxy.
func parseTraffic(traffic string, rank int) (score float64, breakout bool) {
	if traffic == "" {
		return rankScore(rank), false
	}
	lower := strings.ToLower(traffic)
	if strings.Contains(lower, "breakout") {
		return BreakoutScore, true
	}

	cleaned := strings.TrimSpace(strings.NewReplacer(",", "", "+", "").Replace(lower))
	m := trafficRe.FindStringSubmatch(cleaned)
	if m == nil {
		return rankScore(rank), false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return rankScore(rank), false
	}
	switch m[2] {
	case "k":
		value *= 1_000
	case "m":
		value *= 1_000_000
	}
	return value, false
}

func rankScore(rank int) float64 {
	if rank >= 100 {
		return 0
	}
	return float64(100 - rank)
}
