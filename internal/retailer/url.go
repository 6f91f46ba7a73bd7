package retailer

import (
	"net/url"
	"strings"

	"github.com/lookbook-labs/stylist-cli/internal/model"
)

// theme detection, priority ordered: first match wins, default casual.
var themes = []struct {
	name     string
	keywords []string
	phrase   string
}{
	{"winter", []string{"winter", "cold", "snow", "cozy", "ski"}, "winter warm"},
	{"beach", []string{"beach", "vacation", "tropical", "resort", "pool"}, "beach vacation"},
	{"office", []string{"office", "work", "business", "professional", "interview"}, "office professional"},
	{"evening", []string{"evening", "gala", "formal", "cocktail", "black tie", "date night"}, "evening elegant"},
	{"festival", []string{"festival", "concert", "rave", "coachella"}, "festival statement"},
	{"casual", []string{"casual", "everyday", "weekend", "brunch"}, "casual everyday"},
}

// url categories, substring matched against description + product name.
// Ordered most-specific first; default "clothing".
var urlCategories = []struct {
	term     string
	keywords []string
}{
	{"sweater", []string{"sweater", "knit", "pullover", "cardigan"}},
	{"coat", []string{"coat", "jacket", "blazer", "parka", "trench"}},
	{"dress", []string{"dress", "gown", "jumpsuit"}},
	{"swimwear", []string{"swim", "bikini", "swimsuit"}},
	{"shorts", []string{"short"}},
	{"pants", []string{"pant", "jean", "trouser", "legging"}},
	{"boots", []string{"boot"}},
	{"shoes", []string{"shoe", "sneaker", "heel", "sandal", "loafer", "flat"}},
	{"bag", []string{"bag", "tote", "clutch", "purse"}},
	{"accessories", []string{"belt", "scarf", "hat", "jewelry", "necklace", "earring", "sunglasses", "watch"}},
	{"top", []string{"top", "shirt", "blouse", "tee", "tank"}},
}

// BuildProductURL synthesizes a themed retailer search URL for an item. It
// never fails: a missing brand or unmatched theme/category degrades to the
// bare category term on the default retailer template.
func BuildProductURL(brand, productName, description string, decision model.RetailerDecision) string {
	themePhrase := detectTheme(decision.Prompt + " " + decision.Style)
	category := detectURLCategory(description + " " + productName)

	var parts []string
	brand = strings.TrimSpace(brand)
	switch {
	case brand != "":
		parts = append(parts, brand)
	case budgetQualifier(decision.Prompt) != "":
		parts = append(parts, budgetQualifier(decision.Prompt))
	}
	if themePhrase != "" {
		parts = append(parts, themePhrase)
	}
	parts = append(parts, category)

	term := strings.Join(parts, " ")
	return SearchTemplate(decision.Retailer) + url.QueryEscape(term)
}

func detectTheme(text string) string {
	t := strings.ToLower(text)
	for _, theme := range themes {
		for _, kw := range theme.keywords {
			if strings.Contains(t, kw) {
				return theme.phrase
			}
		}
	}
	return "casual everyday"
}

func detectURLCategory(text string) string {
	t := strings.ToLower(text)
	for _, c := range urlCategories {
		for _, kw := range c.keywords {
			if strings.Contains(t, kw) {
				return c.term
			}
		}
	}
	return "clothing"
}

// budgetQualifier maps prompt budget signals to a search qualifier when no
// brand anchors the term.
func budgetQualifier(prompt string) string {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "luxury") || strings.Contains(p, "designer") || strings.Contains(p, "high-end"):
		return "premium"
	case strings.Contains(p, "quality") || strings.Contains(p, "elevated") || strings.Contains(p, "investment"):
		return "contemporary"
	default:
		return ""
	}
}
