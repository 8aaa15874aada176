package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	listAuctionsSQL = `SELECT
        id,
        title,
        consignataria_name,
        consignataria_slug,
        auction_date,
        auction_time,
        location,
        province,
        auction_type,
        main_category,
        estimated_heads,
        description,
        youtube_url,
        catalog_url,
        source,
        source_url,
        status
    FROM auctions
    ORDER BY id;`

	deleteAuctionsSQL = `DELETE FROM auctions;`

	selectSnapshotSQL = `SELECT payload FROM market_snapshot WHERE id = 1;`

	upsertSnapshotSQL = `INSERT INTO market_snapshot (id, payload)
    VALUES (1, $1)
    ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload;`
)

var auctionColumns = []string{
	"id",
	"title",
	"consignataria_name",
	"consignataria_slug",
	"auction_date",
	"auction_time",
	"location",
	"province",
	"auction_type",
	"main_category",
	"estimated_heads",
	"description",
	"youtube_url",
	"catalog_url",
	"source",
	"source_url",
	"status",
}

// Repository is the Postgres-backed persistence adapter. It satisfies
// the same wholesale-replace contract as the file store: one run, one
// atomic read-modify-write per artifact.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgx pool into a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Close releases the underlying pool resources.
func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

func (r *Repository) getPool() (*pgxpool.Pool, error) {
	if r == nil || r.pool == nil {
		return nil, ErrNotConfigured
	}
	return r.pool, nil
}

// LoadAuctions reads the full auction collection ordered by id.
func (r *Repository) LoadAuctions(ctx context.Context) ([]Auction, error) {
	pool, err := r.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listAuctionsSQL)
	if queryErr != nil {
		return nil, fmt.Errorf("list auctions: %w", queryErr)
	}
	defer rows.Close()

	auctions := make([]Auction, 0)
	for rows.Next() {
		auction, scanErr := scanAuction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		auctions = append(auctions, auction)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return auctions, nil
}

// SaveAuctions replaces the auction collection wholesale inside one
// transaction.
func (r *Repository) SaveAuctions(ctx context.Context, auctions []Auction) error {
	pool, err := r.getPool()
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin auctions tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteAuctionsSQL); err != nil {
		return fmt.Errorf("clear auctions: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"auctions"}, auctionColumns,
		pgx.CopyFromSlice(len(auctions), func(i int) ([]any, error) {
			a := auctions[i]
			return []any{
				a.ID,
				a.Title,
				a.ConsignatariaName,
				a.ConsignatariaSlug,
				a.Date,
				a.Time,
				a.Location,
				a.Province,
				a.Type,
				a.MainCategory,
				a.EstimatedHeads,
				a.Description,
				a.YoutubeURL,
				a.CatalogURL,
				a.Source,
				a.SourceURL,
				a.Status,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy auctions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit auctions tx: %w", err)
	}
	return nil
}

// LoadMarketSnapshot reads the snapshot payload. A missing row yields
// an empty snapshot rather than an error so a first run can seed it.
func (r *Repository) LoadMarketSnapshot(ctx context.Context) (MarketSnapshot, error) {
	pool, err := r.getPool()
	if err != nil {
		return MarketSnapshot{}, err
	}

	var payload []byte
	if scanErr := pool.QueryRow(ctx, selectSnapshotSQL).Scan(&payload); scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return MarketSnapshot{}, nil
		}
		return MarketSnapshot{}, fmt.Errorf("load market snapshot: %w", scanErr)
	}

	var snapshot MarketSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return MarketSnapshot{}, fmt.Errorf("parse market snapshot: %w", err)
	}
	return snapshot, nil
}

// SaveMarketSnapshot upserts the snapshot payload.
func (r *Repository) SaveMarketSnapshot(ctx context.Context, snapshot MarketSnapshot) error {
	pool, err := r.getPool()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal market snapshot: %w", err)
	}

	if _, execErr := pool.Exec(ctx, upsertSnapshotSQL, payload); execErr != nil {
		return fmt.Errorf("save market snapshot: %w", execErr)
	}
	return nil
}

func scanAuction(rows pgx.Rows) (Auction, error) {
	var a Auction
	if err := rows.Scan(
		&a.ID,
		&a.Title,
		&a.ConsignatariaName,
		&a.ConsignatariaSlug,
		&a.Date,
		&a.Time,
		&a.Location,
		&a.Province,
		&a.Type,
		&a.MainCategory,
		&a.EstimatedHeads,
		&a.Description,
		&a.YoutubeURL,
		&a.CatalogURL,
		&a.Source,
		&a.SourceURL,
		&a.Status,
	); err != nil {
		return Auction{}, err
	}
	return a, nil
}

var _ Store = (*Repository)(nil)
