// Package store persists aggregated units as job_posts rows, deduplicating
// by exact raw-text equality.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"jobmate/scout-service/internal/model"
)

// seenDigestsKey holds sha256 digests of raw texts whose record is already
// complete (summary present). Purely an advisory fast path — Postgres stays
// the source of truth and cache errors only log.
const seenDigestsKey = "scout:seen_digests"

// Action is the merge decision for one incoming aggregate.
type Action int

const (
	// ActionInsert creates a new record: no row matches the raw text.
	ActionInsert Action = iota
	// ActionBackfill fills a null summary on an existing row; nothing else
	// on that row changes.
	ActionBackfill
	// ActionSkip leaves the existing row untouched. Repeated identical text
	// never overwrites a summary: last write does not win.
	ActionSkip
)

// Plan decides what Upsert does for a raw text already looked up. Shared by
// the pgx implementation and by test fakes so both enforce the same policy.
func Plan(found bool, existingSummary *string, incomingSummary string) Action {
	if !found {
		return ActionInsert
	}
	if (existingSummary == nil || *existingSummary == "") && incomingSummary != "" {
		return ActionBackfill
	}
	return ActionSkip
}

// Store is the Postgres-backed record store with a Redis seen-digest cache.
type Store struct {
	pool *pgxpool.Pool
	rdb  *redis.Client

	// mu serializes the lookup-then-write sequence so concurrent triggers
	// cannot produce duplicate raw texts within this process. The unique
	// index on md5(raw_text) is the cross-process backstop.
	mu sync.Mutex
}

// New returns a configured Store. rdb may be nil; the cache is then skipped.
func New(pool *pgxpool.Pool, rdb *redis.Client) *Store {
	return &Store{pool: pool, rdb: rdb}
}

// EnsureSchema creates the job_posts table and its uniqueness backstop.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS job_posts (
			id          BIGSERIAL PRIMARY KEY,
			source      TEXT NOT NULL,
			post_url    TEXT,
			raw_text    TEXT NOT NULL,
			summary     TEXT,
			image_paths TEXT,
			scraped_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create job_posts: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS job_posts_raw_text_md5_idx
		 ON job_posts (md5(raw_text))`)
	if err != nil {
		return fmt.Errorf("create raw_text index: %w", err)
	}
	return nil
}

// Upsert merges one aggregated unit into the store, atomically per call.
//
// Existing row with a null summary gets the incoming summary backfilled;
// existing row with a summary is left untouched; no row means a fresh insert
// with scraped_at set once, at creation.
func (s *Store) Upsert(ctx context.Context, agg model.Aggregate, source string) error {
	digest := rawTextDigest(agg.CombinedText)
	if s.alreadyComplete(ctx, digest) {
		log.Println("[store] Raw text already stored with a summary — skipping")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		id       int64
		existing *string
		found    = true
	)
	err = tx.QueryRow(ctx,
		`SELECT id, summary FROM job_posts WHERE raw_text = $1`,
		agg.CombinedText,
	).Scan(&id, &existing)
	if errors.Is(err, pgx.ErrNoRows) {
		found = false
	} else if err != nil {
		return fmt.Errorf("lookup raw_text: %w", err)
	}

	complete := false
	switch Plan(found, existing, agg.Summary) {
	case ActionBackfill:
		if _, err := tx.Exec(ctx,
			`UPDATE job_posts SET summary = $1 WHERE id = $2`,
			agg.Summary, id,
		); err != nil {
			return fmt.Errorf("backfill summary: %w", err)
		}
		complete = true
		log.Printf("[store] Backfilled summary on record %d", id)

	case ActionInsert:
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_posts (source, raw_text, summary, image_paths, scraped_at)
			 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), now())`,
			source, agg.CombinedText, agg.Summary, strings.Join(agg.Images, ","),
		); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		complete = agg.Summary != ""
		log.Printf("[store] Inserted new record (%d image(s))", len(agg.Images))

	case ActionSkip:
		complete = existing != nil && *existing != ""
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if complete {
		s.remember(ctx, digest)
	}
	return nil
}

// List returns stored records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]model.JobPost, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, source, post_url, raw_text, summary, image_paths, scraped_at
		 FROM job_posts
		 ORDER BY scraped_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query job_posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.JobPost, 0)
	for rows.Next() {
		var p model.JobPost
		if err := rows.Scan(
			&p.ID, &p.Source, &p.PostURL, &p.RawText,
			&p.Summary, &p.ImagePaths, &p.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("scan job_post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *Store) alreadyComplete(ctx context.Context, digest string) bool {
	if s.rdb == nil {
		return false
	}
	seen, err := s.rdb.SIsMember(ctx, seenDigestsKey, digest).Result()
	if err != nil {
		log.Printf("[store] Digest cache check failed: %v — falling through to Postgres", err)
		return false
	}
	return seen
}

func (s *Store) remember(ctx context.Context, digest string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.SAdd(ctx, seenDigestsKey, digest).Err(); err != nil {
		log.Printf("[store] Digest cache update failed: %v", err)
	}
}

func rawTextDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
