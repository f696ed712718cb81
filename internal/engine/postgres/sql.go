package postgres

import (
	"fmt"
	"strings"

	"github.com/utafrali/catalog-readpath/internal/domain"
)

// selectColumns is the column list shared by all entry queries. Category name
// is resolved through the categories table; the relational store does not
// denormalize it.
const selectColumns = `p.id, p.name, p.slug, p.description, p.sku, p.category_id,
	       COALESCE(c.name, '') AS category_name, p.price, p.currency, p.stock,
	       p.popularity, p.active, p.created_at, p.updated_at`

// buildSearchSQL translates a normalized search request into a relational
// query. Free text degrades to a case-insensitive substring match over name
// and description; there is no fuzziness or relevance weighting in this mode.
func buildSearchSQL(req *domain.SearchRequest) (string, []any) {
	conditions := []string{"p.active = true"}
	var args []any
	argIndex := 1

	f := &req.Filters

	if f.Query != "" {
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+f.Query+"%")
		argIndex++
	}

	if f.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argIndex))
		args = append(args, *f.CategoryID)
		argIndex++
	}

	if f.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("p.price >= $%d", argIndex))
		args = append(args, *f.MinPrice)
		argIndex++
	}

	if f.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("p.price <= $%d", argIndex))
		args = append(args, *f.MaxPrice)
		argIndex++
	}

	if f.InStock {
		conditions = append(conditions, "p.stock > 0")
	}

	query := fmt.Sprintf(`
		SELECT %s,
		       count(*) OVER() AS total_count
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		selectColumns,
		strings.Join(conditions, " AND "),
		buildOrderBy(req.Sort),
		argIndex, argIndex+1,
	)

	args = append(args, req.PerPage, (req.Page-1)*req.PerPage)

	return query, args
}

// buildOrderBy maps the logical sort onto the relational allow-list
// {name, price, created_at}. Anything else, including popularity, silently
// degrades to the default ordering. Entry ID breaks ties so a fixed dataset
// always orders deterministically.
func buildOrderBy(s domain.SearchSort) string {
	var column string
	switch s.Field {
	case domain.SortName:
		column = "p.name"
	case domain.SortPrice:
		column = "p.price"
	case domain.SortCreatedAt:
		column = "p.created_at"
	default:
		return "p.created_at DESC, p.id"
	}

	direction := "ASC"
	if s.Direction == domain.SortDesc {
		direction = "DESC"
	}

	return fmt.Sprintf("%s %s, p.id", column, direction)
}

// buildSuggestSQL builds the prefix-completion fallback query.
func buildSuggestSQL() string {
	return `
		SELECT DISTINCT p.name
		FROM products p
		WHERE p.active = true AND p.name ILIKE $1
		ORDER BY p.name
		LIMIT $2`
}

// buildListActiveSQL builds the paging query used to re-derive the search
// index from the system of record.
func buildListActiveSQL() string {
	return fmt.Sprintf(`
		SELECT %s,
		       count(*) OVER() AS total_count
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.active = true
		ORDER BY p.created_at DESC, p.id
		LIMIT $1 OFFSET $2`, selectColumns)
}
