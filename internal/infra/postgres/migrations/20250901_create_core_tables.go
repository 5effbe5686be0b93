package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

const createQuestionSetsSQL = `
CREATE TABLE IF NOT EXISTS question_sets (
	id TEXT PRIMARY KEY,
	data JSONB NOT NULL
)`

const createCandidateArchiveSQL = `
CREATE TABLE IF NOT EXISTS candidate_archive (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	transcript JSONB NOT NULL DEFAULT '[]',
	final_score DOUBLE PRECISION,
	summary TEXT NOT NULL DEFAULT '',
	archived_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.ExecContext(ctx, createQuestionSetsSQL); err != nil {
				return err
			}
			_, err := db.ExecContext(ctx, createCandidateArchiveSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS candidate_archive`); err != nil {
				return err
			}
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS question_sets`)
			return err
		},
	)
}
