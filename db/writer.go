package db

import (
	"context"
	"database/sql"
	"fmt"
	"socialfeed/store"
	"time"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// Rows per INSERT statement, keeps us well below SQLite's variable limit
const insertBatchSize = 500

// Export writes the snapshot to the SQLite database at path, replacing any
// previously exported data. The schema is migrated first.
func Export(ctx context.Context, path string, snap store.Snapshot) error {
	if err := Migrate(path); err != nil {
		return err
	}

	db, err := openWriter(ctx, path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Children first so foreign keys hold
	for _, table := range []string{"shares", "likes", "comments", "posts", "profiles"} {
		del := sqlbuilder.NewDeleteBuilder()
		query, args := del.DeleteFrom(table).BuildWithFlavor(sqlbuilder.SQLite)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	profiles := make([][]interface{}, len(snap.Profiles))
	for i, p := range snap.Profiles {
		profiles[i] = []interface{}{p.Id, p.Handle, p.DisplayName, nullable(p.Bio), nullable(p.AvatarUrl)}
	}

	posts := make([][]interface{}, len(snap.Posts))
	for i, p := range snap.Posts {
		posts[i] = []interface{}{p.Id, i, p.AuthorId, p.Text, p.CreatedAt.Unix(), p.LikeCount, p.CommentCount, p.ShareCount}
	}

	comments := make([][]interface{}, len(snap.Comments))
	for i, c := range snap.Comments {
		comments[i] = []interface{}{c.Id, c.PostId, c.UserId, c.Text, c.CreatedAt.Unix()}
	}

	likes := make([][]interface{}, len(snap.Likes))
	for i, l := range snap.Likes {
		likes[i] = []interface{}{l.PostId, l.UserId}
	}

	shares := make([][]interface{}, len(snap.Shares))
	for i, s := range snap.Shares {
		shares[i] = []interface{}{s.PostId, s.UserId}
	}

	inserts := []struct {
		table string
		cols  []string
		rows  [][]interface{}
	}{
		{"profiles", []string{"id", "handle", "display_name", "bio", "avatar_url"}, profiles},
		{"posts", []string{"id", "feed_position", "author_id", "text", "created_at", "like_count", "comment_count", "share_count"}, posts},
		{"comments", []string{"id", "post_id", "user_id", "text", "created_at"}, comments},
		{"likes", []string{"post_id", "user_id"}, likes},
		{"shares", []string{"post_id", "user_id"}, shares},
	}

	for _, ins := range inserts {
		if err := insertRows(ctx, tx, ins.table, ins.cols, ins.rows); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}

	log.WithFields(log.Fields{
		"database": path,
		"profiles": len(snap.Profiles),
		"posts":    len(snap.Posts),
		"comments": len(snap.Comments),
		"likes":    len(snap.Likes),
		"shares":   len(snap.Shares),
	}).Info("Exported snapshot")

	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, cols []string, rows [][]interface{}) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))

		ib := sqlbuilder.NewInsertBuilder()
		ib.InsertInto(table).Cols(cols...)
		for _, row := range rows[start:end] {
			ib.Values(row...)
		}
		query, args := ib.BuildWithFlavor(sqlbuilder.SQLite)

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
