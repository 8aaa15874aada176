package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists both artifacts as pretty-printed flat JSON files,
// the shape the dashboard reads directly. Saves go through a temp file
// and rename so a crashed run never leaves a half-written artifact.
type FileStore struct {
	auctionsPath string
	marketPath   string
}

// NewFileStore builds a file-backed store over the two artifact paths.
func NewFileStore(auctionsPath, marketPath string) *FileStore {
	return &FileStore{auctionsPath: auctionsPath, marketPath: marketPath}
}

// LoadAuctions reads the persisted auction collection. A missing file
// means a first run and yields an empty collection.
func (f *FileStore) LoadAuctions(ctx context.Context) ([]Auction, error) {
	data, err := os.ReadFile(f.auctionsPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read auctions file: %w", err)
	}

	var auctions []Auction
	if err := json.Unmarshal(data, &auctions); err != nil {
		return nil, fmt.Errorf("parse auctions file: %w", err)
	}
	return auctions, nil
}

// SaveAuctions replaces the auction collection wholesale.
func (f *FileStore) SaveAuctions(ctx context.Context, auctions []Auction) error {
	return writeJSONFile(f.auctionsPath, auctions)
}

// LoadMarketSnapshot reads the persisted market snapshot. A missing
// file yields an empty snapshot.
func (f *FileStore) LoadMarketSnapshot(ctx context.Context) (MarketSnapshot, error) {
	data, err := os.ReadFile(f.marketPath)
	if errors.Is(err, os.ErrNotExist) {
		return MarketSnapshot{}, nil
	}
	if err != nil {
		return MarketSnapshot{}, fmt.Errorf("read market file: %w", err)
	}

	var snapshot MarketSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return MarketSnapshot{}, fmt.Errorf("parse market file: %w", err)
	}
	return snapshot, nil
}

// SaveMarketSnapshot replaces the market snapshot wholesale.
func (f *FileStore) SaveMarketSnapshot(ctx context.Context, snapshot MarketSnapshot) error {
	return writeJSONFile(f.marketPath, snapshot)
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
