package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"taxmind/internal/models"
	"taxmind/internal/store"
)

// Sentinel errors surfaced to the command layer
var (
	// ErrNoticeRejected means the notice is not a filing acknowledgement
	ErrNoticeRejected = errors.New("notice is not an accepted filing acknowledgement")

	// ErrForeignCompany means the company is managed by another team's group
	ErrForeignCompany = errors.New("company is managed by another team")
)

// IngestStore is the storage ingestion needs
type IngestStore interface {
	TeamByChatID(ctx context.Context, chatID int64) (*models.Team, error)
	KnownFormCodes(ctx context.Context) ([]string, error)
	ClaimCompany(ctx context.Context, taxID, name string, teamID uint, ownerID *int64, ownerName string) error
	CompanyByTaxID(ctx context.Context, taxID string) (*models.Company, error)
	UpdateCompanyContact(ctx context.Context, taxID, name string, ownerID *int64, ownerName string) error
	RecordSubmission(ctx context.Context, sub models.Submission) error
}

// IngestService turns uploaded XML filing notices into submission records
type IngestService struct {
	store IngestStore
	log   *zap.SugaredLogger
}

// NewIngestService wires the ingestion flow
func NewIngestService(store IngestStore, log *zap.SugaredLogger) *IngestService {
	return &IngestService{store: store, log: log}
}

// IngestResult summarizes what an accepted notice recorded
type IngestResult struct {
	Notice   ParsedNotice `json:"notice"`
	TeamName string       `json:"team_name"`
}

// Ingest parses an uploaded notice from a registered team's chat group and
// records the filed submission. The sender becomes the company's provisional
// responsible owner. Companies already claimed by another team are left
// untouched and the submission is not recorded.
func (s *IngestService) Ingest(ctx context.Context, chatID, senderID int64, senderName string, data []byte) (*IngestResult, error) {
	team, err := s.store.TeamByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	knownCodes, err := s.store.KnownFormCodes(ctx)
	if err != nil {
		s.log.Warnw("form catalog unavailable, detection degraded", "error", err)
		knownCodes = nil
	}

	notice := ParseNotice(data, knownCodes)
	if !notice.Accepted {
		return nil, ErrNoticeRejected
	}
	if notice.CompanyTaxID == "" {
		return nil, fmt.Errorf("notice carries no company tax id")
	}

	companyName := notice.CompanyName
	if companyName == "" {
		companyName = notice.Address
	}
	if companyName == "" {
		companyName = notice.CompanyTaxID
	}

	owner := &senderID
	err = s.store.ClaimCompany(ctx, notice.CompanyTaxID, companyName, team.ID, owner, senderName)
	if errors.Is(err, store.ErrForeignTeam) {
		return nil, ErrForeignCompany
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	// the team holds the company now: refresh its name and owner identity
	if err := s.store.UpdateCompanyContact(ctx, notice.CompanyTaxID, companyName, owner, senderName); err != nil {
		s.log.Errorw("failed to refresh company contact", "tax_id", notice.CompanyTaxID, "error", err)
	}

	details, err := json.Marshal(notice)
	if err != nil {
		details = nil
	}

	sub := models.Submission{
		CompanyTaxID: notice.CompanyTaxID,
		FormCode:     notice.FormCode,
		Period:       notice.Period,
		CompanyName:  companyName,
		FormRaw:      notice.FormRaw,
		Details:      datatypes.JSON(details),
	}
	if err := s.store.RecordSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	return &IngestResult{Notice: notice, TeamName: team.Name}, nil
}
