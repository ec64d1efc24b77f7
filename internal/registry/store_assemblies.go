package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"seqvault/internal/services"
)

// EnsureAssembly fetches the named assembly, creating it if absent.
func (s *Store) EnsureAssembly(ctx context.Context, name string) (*Assembly, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "registry", "ensure assembly", "assembly name is required", nil)
	}

	now := timestamp()
	_, err := s.execWithRetry(ctx,
		`INSERT INTO assemblies (name, reference_data, created_at, updated_at)
		 VALUES (?, '{}', ?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, now, now)
	if err != nil {
		return nil, fmt.Errorf("ensure assembly: %w", err)
	}
	return s.AssemblyByName(ctx, name)
}

// AssemblyByName fetches one assembly.
func (s *Store) AssemblyByName(ctx context.Context, name string) (*Assembly, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT name, storage_url, storage_usage, reference_data, created_at, updated_at
		 FROM assemblies WHERE name = ?`, name)

	var (
		assembly  Assembly
		refData   string
		createdAt string
		updatedAt string
	)
	err := row.Scan(&assembly.Name, &assembly.StorageURL, &assembly.StorageUsage, &refData, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "registry", "get assembly", fmt.Sprintf("no assembly named %q", name), nil)
	}
	if err != nil {
		return nil, err
	}

	assembly.ReferenceData = map[string]ReferenceData{}
	if refData != "" {
		if err := json.Unmarshal([]byte(refData), &assembly.ReferenceData); err != nil {
			return nil, fmt.Errorf("decode reference data for %q: %w", name, err)
		}
	}
	assembly.CreatedAt = parseTimestamp(createdAt)
	assembly.UpdatedAt = parseTimestamp(updatedAt)
	return &assembly, nil
}

// SetAssemblyStorage records a freshly allocated storage location.
func (s *Store) SetAssemblyStorage(ctx context.Context, name, storageURL string) (*Assembly, error) {
	_, err := s.execWithRetry(ctx,
		`UPDATE assemblies SET storage_url = ?, updated_at = ? WHERE name = ?`,
		storageURL, timestamp(), name)
	if err != nil {
		return nil, fmt.Errorf("set assembly storage: %w", err)
	}
	return s.AssemblyByName(ctx, name)
}

// RecordReferenceData persists a new reference data entry plus usage.
func (s *Store) RecordReferenceData(ctx context.Context, name string, referenceData map[string]ReferenceData, storageUsage int64) (*Assembly, error) {
	encoded, err := json.Marshal(referenceData)
	if err != nil {
		return nil, fmt.Errorf("marshal reference data: %w", err)
	}
	_, err = s.execWithRetry(ctx,
		`UPDATE assemblies SET reference_data = ?, storage_usage = ?, updated_at = ? WHERE name = ?`,
		string(encoded), storageUsage, timestamp(), name)
	if err != nil {
		return nil, fmt.Errorf("record reference data: %w", err)
	}
	return s.AssemblyByName(ctx, name)
}
