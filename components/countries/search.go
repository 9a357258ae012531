package countries

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Search filters countries by a case-insensitive substring match on the
// name or an exact code match, preferring name-prefix matches.
func Search(countries []Country, query string, limit int, opts Options) []Country {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchTop {
			if len(countries) <= limit {
				return append([]Country{}, countries...)
			}
			return append([]Country{}, countries[:limit]...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedCountry, 0, 32)
	for _, country := range countries {
		lowerName := strings.ToLower(country.Name)
		if !strings.Contains(lowerName, q) && !strings.EqualFold(country.Code, query) {
			continue
		}
		matches = append(matches, matchedCountry{
			country:  country,
			isPrefix: strings.HasPrefix(lowerName, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].country.Name < matches[j].country.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Country, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.country)
	}
	return out
}

// SearchOptions returns search results shaped as form options, labeled by
// name with the alpha-2 code as the value.
func SearchOptions(countries []Country, query string, limit int, opts Options) schema.OptionList {
	results := Search(countries, query, limit, opts)
	if len(results) == 0 {
		return nil
	}

	out := make(schema.OptionList, 0, len(results))
	for _, country := range results {
		out = append(out, schema.Option{Label: country.Name, Value: country.Code})
	}
	return out
}

type matchedCountry struct {
	country  Country
	isPrefix bool
}
