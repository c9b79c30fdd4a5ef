package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/aura-backend/internal/data/repos"
	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/export"
	"github.com/yungbote/aura-backend/internal/platform/apierr"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

// ExportFile is a rendered export ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type ExportService interface {
	Export(ctx context.Context, projectID uuid.UUID, format string, opts export.Options) (*ExportFile, error)
}

type exportService struct {
	db          *gorm.DB
	log         *logger.Logger
	projects    repos.ProjectRepo
	papers      repos.PaperRepo
	hypotheses  repos.HypothesisRepo
	experiments repos.ExperimentRepo
	messages    repos.ChatMessageRepo
	now         func() time.Time
}

func NewExportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	projectRepo repos.ProjectRepo,
	paperRepo repos.PaperRepo,
	hypothesisRepo repos.HypothesisRepo,
	experimentRepo repos.ExperimentRepo,
	messageRepo repos.ChatMessageRepo,
) ExportService {
	return &exportService{
		db:          db,
		log:         baseLog.With("service", "ExportService"),
		projects:    projectRepo,
		papers:      paperRepo,
		hypotheses:  hypothesisRepo,
		experiments: experimentRepo,
		messages:    messageRepo,
		now:         time.Now,
	}
}

func (s *exportService) Export(ctx context.Context, projectID uuid.UUID, format string, opts export.Options) (*ExportFile, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			return nil, apierr.BadRequest("invalid_format", "format must be json, yaml or markdown")
		}
		return nil, internal("parse format", err)
	}
	project, err := s.projects.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, notFoundOr("project_not_found", "project", err)
	}

	var (
		papers     []*types.Paper
		hypotheses []*types.Hypothesis
		chat       []*types.ChatMessage
	)
	if opts.Papers {
		if papers, err = s.papers.ListByProject(ctx, nil, projectID, 0); err != nil {
			return nil, internal("load papers", err)
		}
		reverse(papers)
	}
	if opts.Hypotheses {
		if hypotheses, err = s.hypotheses.ListByProject(ctx, nil, projectID, 0); err != nil {
			return nil, internal("load hypotheses", err)
		}
		reverse(hypotheses)
		if opts.Experiments {
			if err := s.attachExperiments(ctx, hypotheses); err != nil {
				return nil, err
			}
		}
	}
	if opts.Chat {
		if chat, err = s.messages.ListByProject(ctx, nil, projectID, 0); err != nil {
			return nil, internal("load chat", err)
		}
	}

	doc := export.Build(project, papers, hypotheses, chat, opts, s.now())
	body, err := export.Render(doc, f)
	if err != nil {
		return nil, internal("render export", err)
	}
	s.log.Info("Project exported", "project_id", projectID, "format", f, "bytes", len(body))
	return &ExportFile{
		Filename:    fmt.Sprintf("%s.%s", exportSlug(project.Title), f.Extension()),
		ContentType: f.ContentType(),
		Body:        body,
	}, nil
}

func (s *exportService) attachExperiments(ctx context.Context, hs []*types.Hypothesis) error {
	ids := make([]uuid.UUID, 0, len(hs))
	for _, h := range hs {
		ids = append(ids, h.ID)
	}
	rows, err := s.experiments.ListByHypothesisIDs(ctx, nil, ids)
	if err != nil {
		return internal("load experiments", err)
	}
	byHypothesis := map[uuid.UUID][]*types.Experiment{}
	for _, e := range rows {
		byHypothesis[e.HypothesisID] = append(byHypothesis[e.HypothesisID], e)
	}
	for _, h := range hs {
		h.Experiments = byHypothesis[h.ID]
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func exportSlug(title string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "project"
	}
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	return slug + "-export"
}

// reverse flips repo results from newest-first to chronological order.
func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
