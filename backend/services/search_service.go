package services

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/kitchen-service/kitchen/kitchen/config"
)

// nameSource implements fuzzy.Source over lower-cased names.
type nameSource []string

func (n nameSource) Len() int {
	return len(n)
}

func (n nameSource) String(i int) string {
	return strings.ToLower(n[i])
}

// SearchService produces "did you mean" suggestions for list filters.
type SearchService struct {
	limit int
}

func NewSearchService() *SearchService {
	return &SearchService{limit: config.MaxSuggestions}
}

// Suggest returns up to limit distinct names that fuzzy-match query, best first.
func (s *SearchService) Suggest(query string, names []string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(names) == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(query, nameSource(names))
	seen := make(map[string]struct{}, s.limit)
	suggestions := make([]string, 0, s.limit)
	for _, m := range matches {
		name := names[m.Index]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		suggestions = append(suggestions, name)
		if len(suggestions) == s.limit {
			break
		}
	}
	return suggestions
}
