package app

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"sifnos_hotels/internal/domain"
)

// Villages recognised in free-text queries, in canonical spelling.
var Villages = []string{
	"Kamares",
	"Apollonia",
	"Artemonas",
	"Platis Gialos",
	"Vathi",
	"Faros",
	"Kastro",
	"Chrysopigi",
	"Cheronissos",
	"Exambela",
}

// Neighbouring islands that sit one edit away from a village name
// (paros/faros). Ferry questions mention them often.
var nearbyIslands = map[string]bool{
	"paros": true, "milos": true, "naxos": true, "syros": true,
	"serifos": true, "kimolos": true, "folegandros": true,
}

var (
	adultsRe   = regexp.MustCompile(`\b(\d{1,2})\s*(?:adults?|persons?|people|guests?)\b`)
	childrenRe = regexp.MustCompile(`\b(\d{1,2})\s*(?:child(?:ren)?|kids?)\b`)

	// YYYY-MM-DD | MM/DD/YYYY | DD-MM-YYYY
	dateRe = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b|\b(\d{1,2})/(\d{1,2})/(\d{4})\b|\b(\d{1,2})-(\d{1,2})-(\d{4})\b`)
)

var amenityPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"Pool", regexp.MustCompile(`\b(?:swimming )?pool\b`)},
	{"WiFi", regexp.MustCompile(`\bwi-?fi\b`)},
	{"Breakfast", regexp.MustCompile(`\bbreakfast\b`)},
	{"Parking", regexp.MustCompile(`\bparking\b`)},
	{"Sea View", regexp.MustCompile(`\bsea ?views?\b`)},
	{"Spa", regexp.MustCompile(`\bspa\b`)},
}

// normalizeText transliterates to ASCII and lower-cases.
func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(s)))
}

// ExtractSearchParams pulls search hints out of free text. It never fails:
// anything it cannot recognise stays nil. The first two dates found, in order
// of appearance, become check-in and check-out.
func ExtractSearchParams(text string) domain.SearchParams {
	var p domain.SearchParams
	norm := normalizeText(text)
	if norm == "" {
		return p
	}

	if loc := extractLocation(norm); loc != "" {
		p.Location = &loc
	}
	if m := adultsRe.FindStringSubmatch(norm); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			p.Adults = &n
		}
	}
	if m := childrenRe.FindStringSubmatch(norm); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			p.Children = &n
		}
	}

	dates := extractDates(norm)
	if len(dates) > 0 {
		p.CheckIn = &dates[0]
	}
	if len(dates) > 1 {
		p.CheckOut = &dates[1]
	}

	if a := extractAmenity(norm); a != "" {
		p.Amenity = &a
	}
	return p
}

func extractLocation(norm string) string {
	best, bestAt := "", -1
	for _, v := range Villages {
		if i := strings.Index(norm, strings.ToLower(v)); i >= 0 && (bestAt < 0 || i < bestAt) {
			best, bestAt = v, i
		}
	}
	if best != "" {
		return best
	}

	// one typo allowed on single-word names long enough to be unambiguous
	words := strings.FieldsFunc(norm, func(r rune) bool { return !unicode.IsLetter(r) })
	for _, w := range words {
		if nearbyIslands[w] {
			continue
		}
		for _, v := range Villages {
			lv := strings.ToLower(v)
			if strings.Contains(lv, " ") || len(lv) < 5 {
				continue
			}
			d := levenshtein.DistanceForStrings([]rune(w), []rune(lv), levenshtein.DefaultOptionsWithSub)
			if d <= 1 {
				return v
			}
		}
	}
	return ""
}

func extractDates(norm string) []time.Time {
	var out []time.Time
	for _, m := range dateRe.FindAllStringSubmatch(norm, -1) {
		var y, mo, d string
		switch {
		case m[1] != "":
			y, mo, d = m[1], m[2], m[3]
		case m[4] != "":
			mo, d, y = m[4], m[5], m[6]
		default:
			d, mo, y = m[7], m[8], m[9]
		}
		if t, ok := civilDate(y, mo, d); ok {
			out = append(out, t)
			if len(out) == 2 {
				break
			}
		}
	}
	return out
}

func extractAmenity(norm string) string {
	type hit struct {
		name string
		at   int
	}
	var hits []hit
	for _, a := range amenityPatterns {
		if loc := a.re.FindStringIndex(norm); loc != nil {
			hits = append(hits, hit{a.name, loc[0]})
		}
	}
	if len(hits) == 0 {
		return ""
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].at < hits[j].at })
	return hits[0].name
}

// civilDate builds a UTC midnight date, rejecting values time.Date would normalise.
func civilDate(y, m, d string) (time.Time, bool) {
	yi, err1 := strconv.Atoi(y)
	mi, err2 := strconv.Atoi(m)
	di, err3 := strconv.Atoi(d)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	t := time.Date(yi, time.Month(mi), di, 0, 0, 0, 0, time.UTC)
	if t.Year() != yi || int(t.Month()) != mi || t.Day() != di {
		return time.Time{}, false
	}
	return t, true
}

// dayOf truncates t to its calendar day in UTC.
func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts exactly one date in any of the extractor's three formats.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if loc := dateRe.FindStringIndex(s); loc == nil || loc[0] != 0 || loc[1] != len(s) {
		return time.Time{}, false
	}
	dates := extractDates(s)
	if len(dates) == 0 {
		return time.Time{}, false
	}
	return dates[0], true
}
