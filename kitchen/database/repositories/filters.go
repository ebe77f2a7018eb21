package repositories

import "strings"

// ListFilter narrows and pages a list query.
type ListFilter struct {
	// Query is matched case-insensitively as a substring of the name column.
	Query  string
	Offset int
	Limit  int
}

func (f ListFilter) HasQuery() bool {
	return strings.TrimSpace(f.Query) != ""
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps q for a literal ILIKE substring match.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(q)) + "%"
}
