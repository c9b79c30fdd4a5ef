package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/aura-backend/internal/data/repos"
	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/apierr"
	"github.com/yungbote/aura-backend/internal/platform/dberr"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/realtime"
)

type AddPaperInput struct {
	Title         string
	Authors       []string
	Abstract      string
	URL           string
	PDFURL        string
	PublishedDate *time.Time
	Source        string
	ExternalID    string
	Metadata      types.PaperMetadata
	QueryID       *uuid.UUID
}

type PaperService interface {
	// Add stores a paper. When the project already holds a paper with the
	// same source and external id, that paper is returned with created=false.
	Add(ctx context.Context, projectID uuid.UUID, in AddPaperInput) (paper *types.Paper, created bool, err error)
	List(ctx context.Context, projectID uuid.UUID) ([]*types.Paper, error)
	Get(ctx context.Context, projectID, paperID uuid.UUID) (*types.Paper, error)
	Delete(ctx context.Context, projectID, paperID uuid.UUID) error
}

type paperService struct {
	db       *gorm.DB
	log      *logger.Logger
	projects repos.ProjectRepo
	papers   repos.PaperRepo
	events   realtime.Emitter
}

func NewPaperService(db *gorm.DB, baseLog *logger.Logger, projectRepo repos.ProjectRepo, paperRepo repos.PaperRepo, events realtime.Emitter) PaperService {
	return &paperService{
		db:       db,
		log:      baseLog.With("service", "PaperService"),
		projects: projectRepo,
		papers:   paperRepo,
		events:   events,
	}
}

func (s *paperService) requireProject(ctx context.Context, projectID uuid.UUID) error {
	if _, err := s.projects.GetByID(ctx, nil, projectID); err != nil {
		return notFoundOr("project_not_found", "project", err)
	}
	return nil
}

func (s *paperService) Add(ctx context.Context, projectID uuid.UUID, in AddPaperInput) (*types.Paper, bool, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, false, apierr.BadRequest("title_required", "title is required")
	}
	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = types.SourceManual
	}
	if !types.ValidSource(source) {
		return nil, false, apierr.BadRequest("invalid_source", "unknown source %q", in.Source)
	}
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, false, err
	}

	externalID := strings.TrimSpace(in.ExternalID)
	if externalID != "" {
		existing, err := s.papers.FindByExternalID(ctx, nil, projectID, source, externalID)
		if err == nil {
			return existing, false, nil
		}
		if !dberr.IsNotFound(err) {
			return nil, false, internal("find paper", err)
		}
	}

	authors := make(datatypes.JSONSlice[string], 0, len(in.Authors))
	for _, a := range in.Authors {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	paper := &types.Paper{
		ProjectID:     projectID,
		QueryID:       in.QueryID,
		Title:         title,
		Authors:       authors,
		Abstract:      strings.TrimSpace(in.Abstract),
		URL:           strings.TrimSpace(in.URL),
		PDFURL:        strings.TrimSpace(in.PDFURL),
		PublishedDate: in.PublishedDate,
		Source:        source,
		ExternalID:    externalID,
		Metadata:      datatypes.NewJSONType(in.Metadata),
	}

	var created *types.Paper
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.papers.Create(ctx, tx, []*types.Paper{paper})
		if err != nil {
			return err
		}
		created = rows[0]
		return s.projects.Touch(ctx, tx, projectID)
	})
	if err != nil {
		// a concurrent add of the same external id won the unique index
		if dberr.IsConflict(err) && externalID != "" {
			existing, ferr := s.papers.FindByExternalID(ctx, nil, projectID, source, externalID)
			if ferr == nil {
				return existing, false, nil
			}
		}
		return nil, false, internal("create paper", err)
	}
	s.log.Info("Paper added", "project_id", projectID, "paper_id", created.ID, "source", source)
	s.events.Emit(ctx, projectID, realtime.SSEEventPaperAdded, created)
	return created, true, nil
}

func (s *paperService) List(ctx context.Context, projectID uuid.UUID) ([]*types.Paper, error) {
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	rows, err := s.papers.ListByProject(ctx, nil, projectID, 0)
	if err != nil {
		return nil, internal("list papers", err)
	}
	if rows == nil {
		rows = []*types.Paper{}
	}
	return rows, nil
}

func (s *paperService) Get(ctx context.Context, projectID, paperID uuid.UUID) (*types.Paper, error) {
	p, err := s.papers.GetByID(ctx, nil, projectID, paperID)
	if err != nil {
		return nil, notFoundOr("paper_not_found", "paper", err)
	}
	return p, nil
}

func (s *paperService) Delete(ctx context.Context, projectID, paperID uuid.UUID) error {
	if err := s.papers.Delete(ctx, nil, projectID, paperID); err != nil {
		return notFoundOr("paper_not_found", "paper", err)
	}
	s.events.Emit(ctx, projectID, realtime.SSEEventPaperRemoved, map[string]string{"paper_id": paperID.String()})
	return nil
}

// ParseDate accepts the date shapes paper sources and clients send:
// YYYY-MM-DD, RFC 3339 timestamps and bare years. Blank input is nil.
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01", "2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", raw)
}
