package resolver

import (
	"regexp"
	"strings"
)

var (
	parenthetical = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)
	sellerPrefix  = regexp.MustCompile(`(?i)^(?:sold by|from|by)\s+[\w .&'-]+?\s*[-:|]\s*`)
	multiSpace    = regexp.MustCompile(`\s{2,}`)
)

// boilerplate suffixes marketplaces append to listing titles.
var titleSuffixes = []string{
	"| nordstrom", "| nordstrom rack", "| amazon", "- amazon.com",
	"- free shipping", "+ free shipping", "- free returns",
	"- new with tags", "- nwt", "- sale", "- clearance",
}

// CleanTitle strips marketplace boilerplate, parenthetical asides, and seller
// prefixes from a listing title.
func CleanTitle(title string) string {
	t := strings.TrimSpace(title)
	t = sellerPrefix.ReplaceAllString(t, "")
	t = parenthetical.ReplaceAllString(t, "")

	lower := strings.ToLower(t)
	for _, suffix := range titleSuffixes {
		if idx := strings.LastIndex(lower, suffix); idx > 0 {
			t = t[:idx]
			lower = lower[:idx]
		}
	}

	t = multiSpace.ReplaceAllString(t, " ")
	return strings.Trim(strings.TrimSpace(t), "-|: ")
}

// CleanBrand normalizes a brand string; marketplace listings often embed the
// brand inside the title rather than a dedicated field.
func CleanBrand(brand, title string) string {
	b := strings.TrimSpace(brand)
	if b != "" {
		return b
	}
	// Many marketplace titles lead with the brand: "Madewell - The Perfect Jean".
	if i := strings.Index(title, " - "); i > 0 && i < 30 {
		return strings.TrimSpace(title[:i])
	}
	return ""
}
