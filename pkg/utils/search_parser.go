package utils

import (
	"regexp"
	"strconv"
	"strings"

	"medtour-itinerary-service/internal/domain/entity"
)

var (
	htmlTagRe      = regexp.MustCompile(`<[^>]*>`)
	directRe       = regexp.MustCompile(`(?i)\b(direct|non-?stop)\b`)
	stopCountRe    = regexp.MustCompile(`(?i)\b(\d|zero|one|two)\s*-?\s*stops?\b`)
	dollarPriceRe  = regexp.MustCompile(`(?:\$|USD\s?)\s?(\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?`)
	usdSuffixRe    = regexp.MustCompile(`(?i)\b(\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?\s?(?:USD|dollars)\b`)
	durationRe     = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:hours?|hrs?|h)\b(?:\s*(?:and\s*)?(\d{1,2})\s*(?:minutes?|mins?|m)\b)?`)
	flightNumberRe = regexp.MustCompile(`\b([A-Z]{2})\s?(\d{3,4})\b`)
	negationBefore = regexp.MustCompile(`(?i)\b(no|not|without|never|isn't|aren't|lacks?)\s+(?:\w+\s+){0,2}$`)
	negationAfter  = regexp.MustCompile(`(?i)^\s*(?:flights?|routes?|service|options?)?\s*(?:is|are)?\s*(?:currently\s+)?(?:unavailable|not available|not offered)\b`)
	viaRe          = regexp.MustCompile(`(?:[Vv]ia|[Ll]ayover in|[Cc]onnecting (?:in|at|through)|[Ss]top(?:over)? in)\s+([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)`)
)

var knownAirlines = []string{
	"Air China", "China Eastern", "China Southern", "Hainan Airlines", "Shanghai Airlines",
	"Xiamen Airlines", "Sichuan Airlines", "Cathay Pacific", "United Airlines", "American Airlines",
	"Delta", "Air Canada", "Korean Air", "Asiana", "Japan Airlines", "ANA", "Singapore Airlines",
}

var airlineRes = buildAirlineRes(knownAirlines)

func buildAirlineRes(names []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(names))
	for i, name := range names {
		res[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
	}
	return res
}

// flight-number lookalikes that show up in prose
var flightNumberStoplist = map[string]bool{"AM": true, "PM": true, "US": true, "NO": true}

// RouteSearchParser extracts route signals from best-effort search results
type RouteSearchParser struct{}

// NewRouteSearchParser creates a new route search parser
func NewRouteSearchParser() *RouteSearchParser {
	return &RouteSearchParser{}
}

// cleanHTMLText removes HTML tags and entities
func (p *RouteSearchParser) cleanHTMLText(text string) string {
	cleaned := htmlTagRe.ReplaceAllString(text, " ")
	cleaned = strings.ReplaceAll(cleaned, "&nbsp;", " ")
	cleaned = strings.ReplaceAll(cleaned, "&amp;", "&")
	cleaned = strings.ReplaceAll(cleaned, "&#39;", "'")
	cleaned = strings.ReplaceAll(cleaned, "&quot;", "\"")
	return strings.Join(strings.Fields(cleaned), " ")
}

// Parse scans every result's title and content. Results with no usable text are ignored.
func (p *RouteSearchParser) Parse(results []entity.SearchResult) RouteSignals {
	signals := RouteSignals{StopCount: -1}
	seenFlights := map[string]bool{}
	seenAirlines := map[string]bool{}

	for _, r := range results {
		text := p.cleanHTMLText(r.Title + " " + r.Content)
		if text == "" {
			continue
		}

		if p.mentionsDirect(text) {
			signals.MentionsDirect = true
		}
		if stops, ok := p.extractStopCount(text); ok {
			if signals.StopCount < 0 || stops < signals.StopCount {
				signals.StopCount = stops
			}
		}
		signals.Prices = append(signals.Prices, p.extractPrices(text)...)
		if signals.DurationMinutes == 0 {
			signals.DurationMinutes = p.extractDuration(text)
		}
		for _, fn := range p.extractFlightNumbers(text) {
			if !seenFlights[fn] {
				seenFlights[fn] = true
				signals.FlightNumbers = append(signals.FlightNumbers, fn)
			}
		}
		for i, airline := range knownAirlines {
			if !seenAirlines[airline] && airlineRes[i].MatchString(text) {
				seenAirlines[airline] = true
				signals.Airlines = append(signals.Airlines, airline)
			}
		}
		if signals.ConnectionCity == "" {
			if m := viaRe.FindStringSubmatch(text); m != nil {
				signals.ConnectionCity = m[1]
			}
		}
	}

	return signals
}

// mentionsDirect reports a "direct" or "nonstop" mention that is not negated,
// e.g. "no direct flights" or "direct flights unavailable"
func (p *RouteSearchParser) mentionsDirect(text string) bool {
	for _, loc := range directRe.FindAllStringIndex(text, -1) {
		if negationBefore.MatchString(text[:loc[0]]) || negationAfter.MatchString(text[loc[1]:]) {
			continue
		}
		return true
	}
	return false
}

func (p *RouteSearchParser) extractStopCount(text string) (int, bool) {
	m := stopCountRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	switch strings.ToLower(m[1]) {
	case "zero":
		return 0, true
	case "one":
		return 1, true
	case "two":
		return 2, true
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (p *RouteSearchParser) extractPrices(text string) []float64 {
	var prices []float64
	for _, re := range []*regexp.Regexp{dollarPriceRe, usdSuffixRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
			if err != nil {
				continue
			}
			if v >= minPlausiblePrice && v <= maxPlausiblePrice {
				prices = append(prices, v)
			}
		}
	}
	return prices
}

// extractDuration returns the first plausible flight duration in minutes, or 0
func (p *RouteSearchParser) extractDuration(text string) int {
	for _, m := range durationRe.FindAllStringSubmatch(text, -1) {
		hours, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		minutes := 0
		if m[2] != "" {
			minutes, _ = strconv.Atoi(m[2])
		}
		total := hours*60 + minutes
		if total >= minFlightMinutes && total <= maxFlightMinutes {
			return total
		}
	}
	return 0
}

func (p *RouteSearchParser) extractFlightNumbers(text string) []string {
	var out []string
	for _, m := range flightNumberRe.FindAllStringSubmatch(text, -1) {
		if flightNumberStoplist[m[1]] {
			continue
		}
		out = append(out, m[1]+m[2])
	}
	return out
}
