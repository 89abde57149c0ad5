package normalize

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// countryAliases covers official and colloquial names that CLDR does not
// use as the English display name.
var countryAliases = map[string]string{
	"united states of america":               "US",
	"usa":                                    "US",
	"america":                                "US",
	"great britain":                          "GB",
	"england":                                "GB",
	"russian federation":                     "RU",
	"korea, republic of":                     "KR",
	"republic of korea":                      "KR",
	"korea":                                  "KR",
	"korea, democratic people's republic of": "KP",
	"north korea":                            "KP",
	"iran, islamic republic of":              "IR",
	"viet nam":                               "VN",
	"czech republic":                         "CZ",
	"turkey":                                 "TR",
	"turkiye":                                "TR",
	"ivory coast":                            "CI",
	"holland":                                "NL",
	"tanzania, united republic of":           "TZ",
	"syrian arab republic":                   "SY",
	"lao people's democratic republic":       "LA",
	"bolivia, plurinational state of":        "BO",
	"venezuela, bolivarian republic of":      "VE",
	"moldova, republic of":                   "MD",
	"taiwan, province of china":              "TW",
	"macedonia":                              "MK",
	"swaziland":                              "SZ",
	"burma":                                  "MM",
	"uae":                                    "AE",
}

// CountryDB resolves country names and ISO codes to ISO 3166-1 alpha-2.
// It is built once from the CLDR region data shipped with x/text and is
// safe for concurrent use.
type CountryDB struct {
	byKey map[string]string
}

// NewCountryDB indexes every CLDR country by English display name and
// alpha-3 code, then layers the alias table on top.
func NewCountryDB() *CountryDB {
	db := &CountryDB{byKey: make(map[string]string, 600)}
	namer := display.English.Regions()

	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			r, err := language.ParseRegion(string([]rune{a, b}))
			if err != nil || !r.IsCountry() {
				continue
			}
			code := r.String()
			if len(code) != 2 {
				continue
			}
			if name := namer.Name(r); name != "" {
				db.add(name, code)
			}
			if iso3 := r.ISO3(); iso3 != "" {
				db.add(iso3, code)
			}
		}
	}

	for alias, code := range countryAliases {
		db.add(alias, code)
	}
	return db
}

func (db *CountryDB) add(name, code string) {
	key := foldKey(name)
	if key == "" {
		return
	}
	if _, exists := db.byKey[key]; !exists {
		db.byKey[key] = code
	}
}

// Resolve maps user input to an alpha-2 code. Empty input and unknown names
// resolve to "" (worldwide). Any two-letter alphabetic input is taken as a
// code and upper-cased without checking it exists.
func (db *CountryDB) Resolve(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if utf8.RuneCountInString(s) == 2 && isAlpha(s) {
		return strings.ToUpper(s)
	}
	return db.byKey[foldKey(s)]
}

// Len returns the number of indexed names and codes.
func (db *CountryDB) Len() int {
	return len(db.byKey)
}

var (
	defaultDBOnce sync.Once
	defaultDB     *CountryDB
)

// DefaultCountryDB returns the lazily built shared database.
func DefaultCountryDB() *CountryDB {
	defaultDBOnce.Do(func() {
		defaultDB = NewCountryDB()
	})
	return defaultDB
}

// ResolveCountry resolves raw against the shared database.
func ResolveCountry(raw string) string {
	return DefaultCountryDB().Resolve(raw)
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

// foldKey produces the lookup key: accents removed, case folded, curly
// apostrophes straightened and runs of whitespace collapsed.
func foldKey(s string) string {
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		stripped = s
	}
	folded := cases.Fold().String(apostrophes.Replace(stripped))
	return strings.Join(strings.Fields(folded), " ")
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
