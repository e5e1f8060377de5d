package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"caselog/internal/models"
)

const recordColumns = `id, case_number, examiner, investigator, agency,
	city_of_offense, state_of_offense, start_date, end_date, volume_size_gb,
	offense_type, device_type, model, os, data_recovered, fpr_complete,
	notes, created_at`

const insertRecordQuery = `INSERT INTO case_log (
	case_number, examiner, investigator, agency, city_of_offense,
	state_of_offense, start_date, end_date, volume_size_gb, offense_type,
	device_type, model, os, data_recovered, fpr_complete, notes, created_at
) VALUES (
	:case_number, :examiner, :investigator, :agency, :city_of_offense,
	:state_of_offense, :start_date, :end_date, :volume_size_gb, :offense_type,
	:device_type, :model, :os, :data_recovered, :fpr_complete, :notes, :created_at
)`

const updateRecordQuery = `UPDATE case_log SET
	case_number = :case_number, examiner = :examiner,
	investigator = :investigator, agency = :agency,
	city_of_offense = :city_of_offense, state_of_offense = :state_of_offense,
	start_date = :start_date, end_date = :end_date,
	volume_size_gb = :volume_size_gb, offense_type = :offense_type,
	device_type = :device_type, model = :model, os = :os,
	data_recovered = :data_recovered, fpr_complete = :fpr_complete,
	notes = :notes
WHERE id = :id`

// ErrRecordNotFound is returned when an update references a missing row.
var ErrRecordNotFound = errors.New("case record not found")

// InsertRecord validates and stores a new case record, returning its id.
// created_at is stamped here when the caller left it empty.
func (s *Store) InsertRecord(ctx context.Context, rec *models.CaseRecord) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}
	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().UTC().Format("2006-01-02 15:04:05")
	}

	res, err := s.db.NamedExecContext(ctx, insertRecordQuery, rec)
	if err != nil {
		return 0, fmt.Errorf("failed to insert case record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted record id: %w", err)
	}
	rec.ID = id

	s.logger.Debug("case record inserted", map[string]interface{}{
		"id":          id,
		"case_number": rec.CaseNumber,
	})
	return id, nil
}

// ListRecords returns every case record in id order.
func (s *Store) ListRecords(ctx context.Context) ([]models.CaseRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM case_log ORDER BY id", recordColumns)

	var records []models.CaseRecord
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to list case records: %w", err)
	}
	return records, nil
}

// ListFiltered returns the records matching the filter. Dimension values are
// exact matches; an empty dimension means no constraint. When either date
// bound is set, records without a start date are excluded.
func (s *Store) ListFiltered(ctx context.Context, filter models.Filter) ([]models.CaseRecord, error) {
	filter = filter.Normalized()

	builder := s.builder.
		Select(recordColumns).
		From("case_log").
		OrderBy("id")

	if filter.Examiner != "" {
		builder = builder.Where(sq.Eq{"examiner": filter.Examiner})
	}
	if filter.Investigator != "" {
		builder = builder.Where(sq.Eq{"investigator": filter.Investigator})
	}
	if filter.Agency != "" {
		builder = builder.Where(sq.Eq{"agency": filter.Agency})
	}
	if filter.HasDateRange() {
		builder = builder.Where(sq.NotEq{"start_date": ""})
		if filter.DateFrom != "" {
			builder = builder.Where(sq.GtOrEq{"start_date": filter.DateFrom})
		}
		if filter.DateTo != "" {
			builder = builder.Where(sq.LtOrEq{"start_date": filter.DateTo})
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter query: %w", err)
	}

	var records []models.CaseRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list filtered records: %w", err)
	}
	return records, nil
}

// FindByCaseNumber returns the record with the given case number, or nil when
// absent.
func (s *Store) FindByCaseNumber(ctx context.Context, caseNumber string) (*models.CaseRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM case_log WHERE case_number = ?", recordColumns)

	var rec models.CaseRecord
	err := s.db.GetContext(ctx, &rec, query, caseNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up case number: %w", err)
	}
	return &rec, nil
}

// UpdateRecord rewrites an existing record's fields by id.
func (s *Store) UpdateRecord(ctx context.Context, rec *models.CaseRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	res, err := s.db.NamedExecContext(ctx, updateRecordQuery, rec)
	if err != nil {
		return fmt.Errorf("failed to update case record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	s.logger.Debug("case record updated", map[string]interface{}{
		"id":          rec.ID,
		"case_number": rec.CaseNumber,
	})
	return nil
}

// DeleteRecords removes the records with the given ids and reports how many
// rows went away.
func (s *Store) DeleteRecords(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := s.builder.Delete("case_log").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete records: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}

	s.logger.Info("case records deleted", map[string]interface{}{"count": affected})
	return affected, nil
}

// DeleteAllRecords wipes the case log. Only the wipe flow calls this.
func (s *Store) DeleteAllRecords(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM case_log")
	if err != nil {
		return 0, fmt.Errorf("failed to delete all records: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}

	s.logger.Warning("all case records deleted", map[string]interface{}{"count": affected})
	return affected, nil
}

// CountRecords returns the number of stored records.
func (s *Store) CountRecords(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM case_log"); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// DistinctValues returns the sorted distinct non-empty values of a dimension,
// for filter selectors.
func (s *Store) DistinctValues(ctx context.Context, dim models.Dimension) ([]string, error) {
	column, ok := dimensionColumn(dim)
	if !ok {
		return nil, fmt.Errorf("unknown dimension %q", dim)
	}

	query := fmt.Sprintf("SELECT DISTINCT %s FROM case_log WHERE %s != '' ORDER BY %s", column, column, column)

	var values []string
	if err := s.db.SelectContext(ctx, &values, query); err != nil {
		return nil, fmt.Errorf("failed to list distinct values: %w", err)
	}
	return values, nil
}

func dimensionColumn(dim models.Dimension) (string, bool) {
	switch dim {
	case models.DimensionExaminer:
		return "examiner", true
	case models.DimensionInvestigator:
		return "investigator", true
	case models.DimensionAgency:
		return "agency", true
	case models.DimensionOffenseType:
		return "offense_type", true
	case models.DimensionDeviceType:
		return "device_type", true
	case models.DimensionState:
		return "state_of_offense", true
	case models.DimensionOS:
		return "os", true
	default:
		return "", false
	}
}
