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

const targetColumns = `pk, system_id, center_id, sample_id, data_type, raw_data,
	storage_url, storage_usage, created_at, updated_at`

// CreateTarget registers a new target. CenterID and SampleID may be empty,
// which stores them as NULL identifiers.
func (s *Store) CreateTarget(ctx context.Context, systemID, centerID, sampleID string) (*Target, error) {
	systemID = strings.TrimSpace(systemID)
	if systemID == "" {
		return nil, services.Wrap(services.ErrValidation, "registry", "create target", "system_id is required", nil)
	}

	now := timestamp()
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO targets (system_id, center_id, sample_id, raw_data, created_at, updated_at)
		 VALUES (?, ?, ?, '[]', ?, ?)`,
		systemID,
		nullableString(centerID),
		nullableString(sampleID),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert target: %w", err)
	}

	pk, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByPK(ctx, pk)
}

// GetByPK fetches one target by primary key.
func (s *Store) GetByPK(ctx context.Context, pk int64) (*Target, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+targetColumns+` FROM targets WHERE pk = ?`, pk)
	target, err := scanTarget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "registry", "get target", fmt.Sprintf("no target with pk %d", pk), nil)
	}
	return target, err
}

// GetBySystemID fetches one target by its system identifier.
func (s *Store) GetBySystemID(ctx context.Context, systemID string) (*Target, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+targetColumns+` FROM targets WHERE system_id = ?`, systemID)
	target, err := scanTarget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "registry", "get target", fmt.Sprintf("no target with system_id %q", systemID), nil)
	}
	return target, err
}

// filterSQL renders the filter as a WHERE fragment plus its arguments.
// The fragment is empty when the filter selects everything.
func filterSQL(filter Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if len(filter.PKs) > 0 {
		placeholders := make([]string, len(filter.PKs))
		for i, pk := range filter.PKs {
			placeholders[i] = "?"
			args = append(args, pk)
		}
		clauses = append(clauses, fmt.Sprintf("pk IN (%s)", strings.Join(placeholders, ", ")))
	}
	if filter.SystemID != "" {
		clauses = append(clauses, "system_id = ?")
		args = append(args, filter.SystemID)
	}
	if filter.CenterID != "" {
		clauses = append(clauses, "center_id = ?")
		args = append(args, filter.CenterID)
	}
	if filter.HasData != nil {
		if *filter.HasData {
			clauses = append(clauses, "data_type IS NOT NULL AND data_type != ''")
		} else {
			clauses = append(clauses, "(data_type IS NULL OR data_type = '')")
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Targets returns all targets matching the filter, ordered by primary key so
// downstream pattern compilation is deterministic.
func (s *Store) Targets(ctx context.Context, filter Filter) ([]Target, error) {
	where, args := filterSQL(filter)
	query := `SELECT ` + targetColumns + ` FROM targets` + where + " ORDER BY pk"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query targets: %w", err)
	}
	defer rows.Close()

	var targets []Target
	for rows.Next() {
		target, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		targets = append(targets, *target)
	}
	return targets, rows.Err()
}

// CountTargets returns the number of targets matching the filter without
// materializing the rows.
func (s *Store) CountTargets(ctx context.Context, filter Filter) (int64, error) {
	where, args := filterSQL(filter)
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT COUNT(*) FROM targets`+where, args...)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count targets: %w", err)
	}
	return count, nil
}

// SetStorage records a freshly allocated storage location for a target.
func (s *Store) SetStorage(ctx context.Context, pk int64, storageURL string) (*Target, error) {
	_, err := s.execWithRetry(ctx,
		`UPDATE targets SET storage_url = ?, updated_at = ? WHERE pk = ?`,
		storageURL, timestamp(), pk)
	if err != nil {
		return nil, fmt.Errorf("set storage: %w", err)
	}
	return s.GetByPK(ctx, pk)
}

// RecordImport persists the outcome of a committed import. It refuses to
// overwrite a target that already has recorded data.
func (s *Store) RecordImport(ctx context.Context, pk int64, update ImportUpdate) (*Target, error) {
	current, err := s.GetByPK(ctx, pk)
	if err != nil {
		return nil, err
	}
	if current.HasData() {
		return nil, services.Wrap(services.ErrPrecondition, "registry", "record import",
			fmt.Sprintf("target %s already has %s data recorded", current.SystemID, current.DataType), nil)
	}

	rawData, err := json.Marshal(update.RawData)
	if err != nil {
		return nil, fmt.Errorf("marshal raw data: %w", err)
	}

	_, err = s.execWithRetry(ctx,
		`UPDATE targets
		 SET storage_url = ?, data_type = ?, raw_data = ?, storage_usage = ?, updated_at = ?
		 WHERE pk = ?`,
		update.StorageURL, update.DataType, string(rawData), update.StorageUsage, timestamp(), pk)
	if err != nil {
		return nil, fmt.Errorf("record import: %w", err)
	}
	return s.GetByPK(ctx, pk)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTarget(row rowScanner) (*Target, error) {
	var (
		target    Target
		centerID  sql.NullString
		sampleID  sql.NullString
		dataType  sql.NullString
		rawData   string
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&target.PK,
		&target.SystemID,
		&centerID,
		&sampleID,
		&dataType,
		&rawData,
		&target.StorageURL,
		&target.StorageUsage,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	target.CenterID = centerID.String
	target.SampleID = sampleID.String
	target.DataType = dataType.String
	if rawData != "" {
		if err := json.Unmarshal([]byte(rawData), &target.RawData); err != nil {
			return nil, fmt.Errorf("decode raw data for pk %d: %w", target.PK, err)
		}
	}
	target.CreatedAt = parseTimestamp(createdAt)
	target.UpdatedAt = parseTimestamp(updatedAt)
	return &target, nil
}
