package identifiers

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns a human readable label into a lower case, URI safe identifier.
// Diacritics are folded away, every run of characters outside [a-z0-9] becomes
// a single dash and leading or trailing dashes are dropped.
//
//	Slugify("Life Expectancy (Years)") == "life-expectancy-years"
func Slugify(label string) string {
	// transformers carry state and must not be shared between goroutines
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(folder, label)
	if err != nil {
		folded = label
	}

	var sb strings.Builder
	sb.Grow(len(folded))

	pendingDash := false

	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && sb.Len() > 0 {
				sb.WriteRune('-')
			}
			pendingDash = false
			sb.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	return sb.String()
}

// CSVWColumnName returns the name a column with the given title gets in a CSV-W
// table schema. Names are also the variable names used in URI templates.
func CSVWColumnName(title string) string {
	return strings.ReplaceAll(Slugify(title), "-", "_")
}

// FindCollisions returns every slug that more than one distinct label maps to,
// together with the sorted labels that collided.
func FindCollisions(labels []string) map[string][]string {
	bySlug := map[string]map[string]struct{}{}

	for _, label := range labels {
		slug := Slugify(label)
		if _, ok := bySlug[slug]; !ok {
			bySlug[slug] = map[string]struct{}{}
		}
		bySlug[slug][label] = struct{}{}
	}

	collisions := map[string][]string{}

	for slug, distinct := range bySlug {
		if len(distinct) < 2 {
			continue
		}

		collided := make([]string, 0, len(distinct))
		for label := range distinct {
			collided = append(collided, label)
		}
		sort.Strings(collided)

		collisions[slug] = collided
	}

	return collisions
}

// EnsureUniqueSlugs fails if two distinct labels would collapse to the same slug
func EnsureUniqueSlugs(labels []string) error {
	collisions := FindCollisions(labels)
	if len(collisions) == 0 {
		return nil
	}

	slugs := make([]string, 0, len(collisions))
	for slug := range collisions {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	descriptions := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		descriptions = append(descriptions, fmt.Sprintf("%q <- %q", slug, collisions[slug]))
	}

	return fmt.Errorf("labels collide on identifier: %s", strings.Join(descriptions, ", "))
}
