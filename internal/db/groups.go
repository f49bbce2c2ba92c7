package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"jobmate/jobcollect/internal/model"
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LoadSearchGroups fetches all is_active = true rows from search_groups, in
// position order. NULL term arrays load as nil lists.
func LoadSearchGroups(ctx context.Context, q querier) ([]model.SearchGroup, error) {
	rows, err := q.Query(ctx,
		`SELECT name, search_include, search_exclude,
		        title_include, title_exclude,
		        description_include, description_exclude
		 FROM search_groups
		 WHERE is_active = true
		 ORDER BY position, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("query search_groups: %w", err)
	}
	defer rows.Close()

	var groups []model.SearchGroup
	for rows.Next() {
		var g model.SearchGroup
		if err := rows.Scan(
			&g.Name, &g.SearchInclude, &g.SearchExclude,
			&g.TitleInclude, &g.TitleExclude,
			&g.DescriptionInclude, &g.DescriptionExclude,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}
