package forum

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultPage is used whenever the page parameter is missing or unusable.
	DefaultPage = 1
	// DefaultLimit is used whenever the limit parameter is missing or falls
	// outside [1, MaxLimit]. Out-of-range values fall back to the default,
	// not to a clamp.
	DefaultLimit = 20
	// MaxLimit bounds the page size a caller may request.
	MaxLimit = 100
	// MaxSearchLength bounds the free-text search term.
	MaxSearchLength = 200
)

// SortBy is one of the five canonical post orderings.
type SortBy string

const (
	SortRecent     SortBy = "recent"
	SortPopular    SortBy = "popular"
	SortUnanswered SortBy = "unanswered"
	SortMostViewed SortBy = "mostViewed"
	SortLastReply  SortBy = "lastReply"
)

// sortAliases maps lowercased user input to canonical sorts.
var sortAliases = map[string]SortBy{
	"recent":     SortRecent,
	"newest":     SortRecent,
	"latest":     SortRecent,
	"popular":    SortPopular,
	"top":        SortPopular,
	"votes":      SortPopular,
	"unanswered": SortUnanswered,
	"noreplies":  SortUnanswered,
	"mostviewed": SortMostViewed,
	"views":      SortMostViewed,
	"lastreply":  SortLastReply,
	"active":     SortLastReply,
}

var (
	idPattern   = regexp.MustCompile(`^c[a-z0-9]{24}$`)
	slugPattern = regexp.MustCompile(`^[a-z0-9-]{1,100}$`)
)

// ListPostsQuery is the normalized form of the GET /posts query string.
// Empty strings and nil flags mean "dimension not applied".
type ListPostsQuery struct {
	Page         int
	Limit        int
	SortBy       SortBy
	CategoryID   string
	CategorySlug string
	BookID       string
	Search       string
	IsPinned     *bool
	IsFeatured   *bool
	IsAnswered   *bool

	// ViewerTier is resolved from the caller, not the query string, but it
	// filters results and therefore participates in the cache key.
	ViewerTier string
}

// ParseListPostsQuery normalizes a raw query string into a bounded query
// description. Malformed values degrade to defaults; browsing never fails
// on bad input.
func ParseListPostsQuery(values url.Values) ListPostsQuery {
	return ListPostsQuery{
		Page:         ParsePage(values.Get("page")),
		Limit:        ParseLimit(values.Get("limit")),
		SortBy:       ParseSortBy(values.Get("sortBy")),
		CategoryID:   ParseID(values.Get("categoryId")),
		CategorySlug: ParseSlug(values.Get("categorySlug")),
		BookID:       ParseID(values.Get("bookId")),
		Search:       ParseSearch(values.Get("search")),
		IsPinned:     ParseBoolFlag(values.Get("isPinned")),
		IsFeatured:   ParseBoolFlag(values.Get("isFeatured")),
		IsAnswered:   ParseBoolFlag(values.Get("isAnswered")),
	}
}

// ParsePage returns the requested page, flooring fractional values and
// defaulting to 1 for missing, non-numeric or non-positive input.
func ParsePage(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultPage
	}
	n := int(math.Floor(f))
	if n <= 0 {
		return DefaultPage
	}
	return n
}

// ParseLimit returns the requested page size, flooring fractional values.
// Missing, non-numeric or out-of-range input yields DefaultLimit.
func ParseLimit(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultLimit
	}
	n := int(math.Floor(f))
	if n < 1 || n > MaxLimit {
		return DefaultLimit
	}
	return n
}

// ParseSortBy resolves raw input through the alias table, case-insensitively.
// Unrecognized input defaults to SortRecent.
func ParseSortBy(raw string) SortBy {
	if s, ok := sortAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return SortRecent
}

// ParseID returns the trimmed value when it matches the row identifier
// shape, otherwise "".
func ParseID(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if idPattern.MatchString(trimmed) {
		return trimmed
	}
	return ""
}

// ParseSlug lowercases and validates a category slug, returning "" when it
// does not match.
func ParseSlug(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if slugPattern.MatchString(trimmed) {
		return trimmed
	}
	return ""
}

// ParseSearch trims the search term and drops it when empty or longer than
// MaxSearchLength characters.
func ParseSearch(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > MaxSearchLength {
		return ""
	}
	return trimmed
}

// ParseBoolFlag accepts "true"/"1" and "false"/"0"; anything else means the
// flag is not applied.
func ParseBoolFlag(raw string) *bool {
	switch raw {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	default:
		return nil
	}
}

// OrderRule is one (column, direction) step of a post ordering.
type OrderRule struct {
	Column string
	Desc   bool
}

// BuildOrderBy returns the ordered tie-break rules for a sort mode. Every
// ordering starts with is_pinned desc and ends with created_at desc;
// unanswered carries no distinguishing primary key because it is expressed
// as a filter in the list query.
func BuildOrderBy(sortBy SortBy) []OrderRule {
	rules := []OrderRule{{Column: "is_pinned", Desc: true}}
	switch sortBy {
	case SortPopular:
		rules = append(rules, OrderRule{Column: "vote_score", Desc: true})
	case SortMostViewed:
		rules = append(rules, OrderRule{Column: "view_count", Desc: true})
	case SortLastReply:
		rules = append(rules, OrderRule{Column: "last_reply_at", Desc: true})
	}
	return append(rules, OrderRule{Column: "created_at", Desc: true})
}

// OrderClause renders order rules into a SQL ORDER BY fragment.
func OrderClause(rules []OrderRule) string {
	parts := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.Desc {
			parts = append(parts, r.Column+" DESC")
		} else {
			parts = append(parts, r.Column+" ASC")
		}
	}
	return strings.Join(parts, ", ")
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// CalculatePagination derives the page envelope from a total row count.
func CalculatePagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    int64(page)*int64(limit) < total,
	}
}

// BuildPostsCacheKey encodes every normalized dimension of a list query into
// a deterministic string. Free-text values are escaped so they cannot forge
// another dimension's separator.
func BuildPostsCacheKey(q ListPostsQuery) string {
	var b strings.Builder
	b.WriteString("posts")
	fmt.Fprintf(&b, ":page=%d", q.Page)
	fmt.Fprintf(&b, ":limit=%d", q.Limit)
	fmt.Fprintf(&b, ":sort=%s", q.SortBy)
	fmt.Fprintf(&b, ":cat=%s", q.CategoryID)
	fmt.Fprintf(&b, ":slug=%s", q.CategorySlug)
	fmt.Fprintf(&b, ":book=%s", q.BookID)
	fmt.Fprintf(&b, ":q=%s", url.QueryEscape(q.Search))
	fmt.Fprintf(&b, ":pinned=%s", flagToken(q.IsPinned))
	fmt.Fprintf(&b, ":featured=%s", flagToken(q.IsFeatured))
	fmt.Fprintf(&b, ":answered=%s", flagToken(q.IsAnswered))
	fmt.Fprintf(&b, ":tier=%s", q.ViewerTier)
	return b.String()
}

func flagToken(v *bool) string {
	if v == nil {
		return "any"
	}
	if *v {
		return "1"
	}
	return "0"
}
