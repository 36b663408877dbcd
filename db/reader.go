package db

import (
	"context"
	"fmt"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
)

// Tables holds the row count of every exported table
type Tables struct {
	Profiles int
	Posts    int
	Comments int
	Likes    int
	Shares   int
}

// Counts reads the number of rows per table from an exported database
func Counts(ctx context.Context, path string) (Tables, error) {
	db, err := openReader(ctx, path)
	if err != nil {
		return Tables{}, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var t Tables
	targets := map[string]*int{
		"profiles": &t.Profiles,
		"posts":    &t.Posts,
		"comments": &t.Comments,
		"likes":    &t.Likes,
		"shares":   &t.Shares,
	}

	for table, dest := range targets {
		sb := sqlbuilder.NewSelectBuilder()
		query, args := sb.Select("count(*)").From(table).BuildWithFlavor(sqlbuilder.SQLite)
		if err := db.QueryRowContext(ctx, query, args...).Scan(dest); err != nil {
			return Tables{}, fmt.Errorf("count %s: %w", table, err)
		}
	}

	return t, nil
}

// FeedOrder returns exported post ids in feed order
func FeedOrder(ctx context.Context, path string) ([]string, error) {
	db, err := openReader(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id").From("posts").OrderBy("feed_position").Asc()
	query, args := sb.BuildWithFlavor(sqlbuilder.SQLite)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
