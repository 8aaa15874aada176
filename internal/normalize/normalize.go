// Package normalize holds the pure text normalizers shared by the
// extractors and the merge engine: slug derivation, province
// canonicalization, date sanity checks, and keyword classification of
// auction titles.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AuctionType classifies the purpose of an auction.
const (
	TypeInvernada     = "invernada"
	TypeCria          = "cria"
	TypeReproductores = "reproductores"
	TypeEspecial      = "especial"
	TypeGeneral       = "general"
)

// MainCategory classifies the dominant livestock class on offer.
const (
	CategoryTerneros    = "terneros"
	CategoryNovillos    = "novillos"
	CategoryVacaGorda   = "vaca_gorda"
	CategoryVaquillonas = "vaquillonas"
	CategoryToros       = "toros"
	CategoryMixto       = "mixto"
)

var (
	nonSlugRuns  = regexp.MustCompile(`[^a-z0-9]+`)
	dateShape    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

func removeDiacritics(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify derives the canonical identifier form of a name: lowercase
// ASCII, accents stripped, runs of non-alphanumerics collapsed to a
// single hyphen, no leading or trailing hyphen. Idempotent.
func Slugify(s string) string {
	s = removeDiacritics(strings.ToLower(s))
	s = nonSlugRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Province uppercases and strips accents from a province name. It does
// not validate membership in the canonical 24-name set; unrecognized
// values flow through for downstream consumers to bucket as "other".
func Province(s string) string {
	return removeDiacritics(strings.ToUpper(s))
}

// IsValidDate reports whether s is a YYYY-MM-DD date with year in
// [2024,2030], month in [1,12] and day in [1,31]. This is a cheap
// guard against scraped garbage, not calendar validation: Feb 30
// passes on purpose.
func IsValidDate(s string) bool {
	if !dateShape.MatchString(s) {
		return false
	}
	year := atoi(s[0:4])
	month := atoi(s[5:7])
	day := atoi(s[8:10])
	if year < 2024 || year > 2030 {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}
	if day < 1 || day > 31 {
		return false
	}
	return true
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// keywordRule pairs a keyword set with the classification it yields.
// Rules are evaluated top to bottom, first match wins; order is load
// bearing and covered by tests.
type keywordRule struct {
	keywords []string
	result   string
}

var auctionTypeRules = []keywordRule{
	{[]string{"invernada"}, TypeInvernada},
	{[]string{"cria", "cría"}, TypeCria},
	{[]string{"reproductor", "toro", "cabaña", "genética"}, TypeReproductores},
	{[]string{"especial", "expo", "fiesta"}, TypeEspecial},
}

var mainCategoryRules = []keywordRule{
	{[]string{"ternero"}, CategoryTerneros},
	{[]string{"novill"}, CategoryNovillos},
	{[]string{"vaca gorda", "gordo"}, CategoryVacaGorda},
	{[]string{"vaquillona"}, CategoryVaquillonas},
	{[]string{"toro", "reproductor"}, CategoryToros},
}

func classify(title string, rules []keywordRule, fallback string) string {
	lower := strings.ToLower(title)
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.result
			}
		}
	}
	return fallback
}

// AuctionType maps a title to its auction-type enumeration value.
func AuctionType(title string) string {
	return classify(title, auctionTypeRules, TypeGeneral)
}

// MainCategory maps a title to its livestock-category enumeration value.
func MainCategory(title string) string {
	return classify(title, mainCategoryRules, CategoryMixto)
}
