package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultAliases maps exterior grid cells to the settlement that occupies
// them. Keys are matched case-insensitively after title-casing.
var DefaultAliases = map[string]string{
	"13, -1": "Erabenimsun Camp",
	"2, -7":  "Dren Plantation",
	"13, -8": "Molag Mar",
	"17, 4":  "Sadrith Mora",
	"18, 4":  "Sadrith Mora",
	"11, 14": "Vos",
}

var (
	saintPattern = regexp.MustCompile(`\bSt\.`)
	fortPattern  = regexp.MustCompile(`\bFt\.`)
)

type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer layers extra aliases over DefaultAliases.
func NewNormalizer(extra map[string]string) *Normalizer {
	aliases := make(map[string]string, len(DefaultAliases)+len(extra))
	for from, to := range DefaultAliases {
		aliases[strings.ToLower(from)] = to
	}
	for from, to := range extra {
		aliases[strings.ToLower(strings.TrimSpace(from))] = strings.TrimSpace(to)
	}
	return &Normalizer{aliases: aliases}
}

func (n *Normalizer) Normalize(location string) string {
	location = titleCase(strings.TrimSpace(location))
	if alias, ok := n.aliases[strings.ToLower(location)]; ok {
		return alias
	}
	if strings.HasPrefix(location, "Tel Vos") {
		return "Tel Vos"
	}
	location = saintPattern.ReplaceAllString(location, "Saint")
	location = fortPattern.ReplaceAllString(location, "Fort")
	return location
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
