package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/poliux/poliux/internal/billnum"
	"github.com/poliux/poliux/internal/webhook"
	"github.com/poliux/poliux/pkg/models"
)

// Analysis trigger outcomes.
const (
	AnalysisStatusCurrent = "current"
	AnalysisStatusQueued  = "queued"
)

// BillSearchResult pairs matches with how the query was interpreted.
type BillSearchResult struct {
	Bills    []*models.Bill   `json:"bills"`
	Analysis billnum.Analysis `json:"query_analysis"`
}

// SearchBills routes a free-text query through the bill-number classifier: a
// pure citation searches bill_number across all its variants, anything else
// searches title/description with any embedded citations OR'd in.
func (s *Service) SearchBills(ctx context.Context, q string, limit int) (*BillSearchResult, error) {
	analysis := billnum.AnalyzeSearchTerm(q)

	var (
		bills []*models.Bill
		err   error
	)
	switch analysis.SearchType {
	case billnum.SearchTypeBillNumber:
		bills, err = s.repo.SearchBillsByNumber(analysis.SearchTerms, limit)
	default:
		bills, err = s.repo.SearchBillsText(strings.TrimSpace(q), analysis.SearchTerms, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("search bills: %w", err)
	}
	return &BillSearchResult{Bills: bills, Analysis: analysis}, nil
}

func (s *Service) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	return s.repo.GetBill(id)
}

// IngestBills upserts legislative data, canonicalizing bill numbers to the
// compact LegiScan form.
func (s *Service) IngestBills(ctx context.Context, bills []*models.Bill) error {
	for _, b := range bills {
		b.BillNumber = billnum.NormalizeToLegiScan(b.BillNumber)
	}
	return s.repo.SaveBills(bills)
}

func (s *Service) IngestPeople(ctx context.Context, people []*models.Person) error {
	return s.repo.SavePeople(people)
}

func (s *Service) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	return s.repo.GetPerson(id)
}

func (s *Service) SearchPeople(ctx context.Context, q string, limit int) ([]*models.Person, error) {
	return s.repo.SearchPeople(q, limit)
}

// TrackBill subscribes the caller to a bill; the bill must exist first.
func (s *Service) TrackBill(ctx context.Context, userID, billID string) error {
	if _, err := s.repo.GetBill(billID); err != nil {
		return err
	}
	return s.repo.TrackBill(userID, billID)
}

func (s *Service) UntrackBill(ctx context.Context, userID, billID string) error {
	return s.repo.UntrackBill(userID, billID)
}

func (s *Service) TrackedBills(ctx context.Context, userID string) ([]*models.Bill, error) {
	return s.repo.TrackedBills(userID)
}

// AnalysisResult reports whether an existing analysis was current or a new
// workflow run was queued.
type AnalysisResult struct {
	Status     string `json:"status"`
	AnalysisID string `json:"analysis_id,omitempty"`
	RunID      string `json:"run_id,omitempty"`
}

// TriggerAnalysis returns the latest analysis when it is still current,
// otherwise delegates generation to the external workflow. An analysis is
// stale once the bill has had action on a later calendar day (UTC) than the
// analysis was generated.
func (s *Service) TriggerAnalysis(ctx context.Context, billID string, force bool) (*AnalysisResult, error) {
	bill, err := s.repo.GetBill(billID)
	if err != nil {
		return nil, err
	}

	if !force {
		latest, err := s.repo.LatestAnalysis(billID)
		if err == nil && !analysisStale(bill, latest) {
			return &AnalysisResult{Status: AnalysisStatusCurrent, AnalysisID: latest.ID}, nil
		}
		if err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("latest analysis: %w", err)
		}
	}

	runID, err := s.wf.TriggerAnalysis(ctx, webhook.AnalysisRequest{
		BillID:     bill.ID,
		BillNumber: bill.BillNumber,
		Title:      bill.Title,
		Force:      force,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkflow, err)
	}
	return &AnalysisResult{Status: AnalysisStatusQueued, RunID: runID}, nil
}

// analysisStale compares calendar days, not instants: an analysis generated
// any time on or after the bill's last-action day is still current.
func analysisStale(bill *models.Bill, latest *models.BillAnalysis) bool {
	if bill.LastActionDate == nil {
		return false
	}
	return dateOnly(*bill.LastActionDate).After(dateOnly(latest.GeneratedAt))
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
