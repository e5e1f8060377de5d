package services

import (
	"context"
	"fmt"

	"caselog/internal/logger"
	"caselog/internal/models"
	"caselog/internal/store"
)

// RecordService handles case record entry, listing, and deletion.
type RecordService struct {
	store  *store.Store
	logger logger.Logger
}

// NewRecordService creates a new record service
func NewRecordService(st *store.Store, log logger.Logger) *RecordService {
	return &RecordService{
		store:  st,
		logger: log,
	}
}

// AddRecord validates and stores a new case record, returning its id.
func (rs *RecordService) AddRecord(ctx context.Context, rec *models.CaseRecord) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	id, err := rs.store.InsertRecord(ctx, rec)
	if err != nil {
		return 0, err
	}

	rs.logger.Info("case record added", map[string]interface{}{
		"id":          id,
		"case_number": rec.CaseNumber,
	})
	return id, nil
}

// ListRecords returns every case record in insertion order.
func (rs *RecordService) ListRecords(ctx context.Context) ([]models.CaseRecord, error) {
	return rs.store.ListRecords(ctx)
}

// UpdateRecord validates and saves changes to an existing record.
func (rs *RecordService) UpdateRecord(ctx context.Context, rec *models.CaseRecord) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := rs.store.UpdateRecord(ctx, rec); err != nil {
		return err
	}

	rs.logger.Info("case record updated", map[string]interface{}{
		"id":          rec.ID,
		"case_number": rec.CaseNumber,
	})
	return nil
}

// DeleteRecords removes the records with the given ids and reports how many
// went away.
func (rs *RecordService) DeleteRecords(ctx context.Context, ids []int64) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	return rs.store.DeleteRecords(ctx, ids)
}

// RecordCount returns the number of stored records.
func (rs *RecordService) RecordCount(ctx context.Context) (int64, error) {
	return rs.store.CountRecords(ctx)
}

// FilterOptions carries the distinct values for the chart filter dropdowns.
type FilterOptions struct {
	Examiners     []string
	Investigators []string
	Agencies      []string
}

// FilterOptions collects the distinct examiner, investigator, and agency
// values present in the case log.
func (rs *RecordService) FilterOptions(ctx context.Context) (FilterOptions, error) {
	var opts FilterOptions

	examiners, err := rs.store.DistinctValues(ctx, models.DimensionExaminer)
	if err != nil {
		return opts, fmt.Errorf("failed to list examiners: %w", err)
	}
	investigators, err := rs.store.DistinctValues(ctx, models.DimensionInvestigator)
	if err != nil {
		return opts, fmt.Errorf("failed to list investigators: %w", err)
	}
	agencies, err := rs.store.DistinctValues(ctx, models.DimensionAgency)
	if err != nil {
		return opts, fmt.Errorf("failed to list agencies: %w", err)
	}

	opts.Examiners = examiners
	opts.Investigators = investigators
	opts.Agencies = agencies
	return opts, nil
}
