package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/aura-backend/internal/data/repos"
	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/apierr"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/realtime"
)

// ProjectListItem is a project with its paper count, as shown in listings.
type ProjectListItem struct {
	*types.Project
	PaperCount int64 `json:"paper_count"`
}

// ProjectDetail is a project with all derived counts.
type ProjectDetail struct {
	*types.Project
	types.ProjectStats
}

type ProjectUpdate struct {
	Title       *string
	Description *string
}

type ProjectService interface {
	Create(ctx context.Context, title, description string) (*types.Project, error)
	List(ctx context.Context) ([]ProjectListItem, error)
	Get(ctx context.Context, id uuid.UUID) (*ProjectDetail, error)
	Update(ctx context.Context, id uuid.UUID, upd ProjectUpdate) (*types.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Require loads a project or fails with a 404 apierr.
	Require(ctx context.Context, id uuid.UUID) (*types.Project, error)
}

type projectService struct {
	db       *gorm.DB
	log      *logger.Logger
	projects repos.ProjectRepo
	events   realtime.Emitter
}

func NewProjectService(db *gorm.DB, baseLog *logger.Logger, projectRepo repos.ProjectRepo, events realtime.Emitter) ProjectService {
	return &projectService{
		db:       db,
		log:      baseLog.With("service", "ProjectService"),
		projects: projectRepo,
		events:   events,
	}
}

func (s *projectService) Create(ctx context.Context, title, description string) (*types.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apierr.BadRequest("title_required", "title is required")
	}
	p, err := s.projects.Create(ctx, nil, &types.Project{Title: title, Description: strings.TrimSpace(description)})
	if err != nil {
		return nil, internal("create project", err)
	}
	s.log.Info("Project created", "project_id", p.ID)
	return p, nil
}

func (s *projectService) List(ctx context.Context) ([]ProjectListItem, error) {
	rows, err := s.projects.List(ctx, nil)
	if err != nil {
		return nil, internal("list projects", err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.ID)
	}
	counts, err := s.projects.PaperCounts(ctx, nil, ids)
	if err != nil {
		return nil, internal("count papers", err)
	}
	out := make([]ProjectListItem, 0, len(rows))
	for _, p := range rows {
		out = append(out, ProjectListItem{Project: p, PaperCount: counts[p.ID]})
	}
	return out, nil
}

func (s *projectService) Require(ctx context.Context, id uuid.UUID) (*types.Project, error) {
	p, err := s.projects.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr("project_not_found", "project", err)
	}
	return p, nil
}

func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*ProjectDetail, error) {
	p, err := s.Require(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.projects.Stats(ctx, nil, id)
	if err != nil {
		return nil, internal("project stats", err)
	}
	return &ProjectDetail{Project: p, ProjectStats: stats}, nil
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, upd ProjectUpdate) (*types.Project, error) {
	updates := map[string]interface{}{}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, apierr.BadRequest("title_required", "title must not be blank")
		}
		updates["title"] = title
	}
	if upd.Description != nil {
		updates["description"] = strings.TrimSpace(*upd.Description)
	}
	if len(updates) > 0 {
		if err := s.projects.Update(ctx, nil, id, updates); err != nil {
			return nil, notFoundOr("project_not_found", "project", err)
		}
	}
	p, err := s.Require(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		s.events.Emit(ctx, id, realtime.SSEEventProjectUpdated, p)
	}
	return p, nil
}

func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.projects.DeleteCascade(ctx, nil, id); err != nil {
		return notFoundOr("project_not_found", "project", err)
	}
	s.log.Info("Project deleted", "project_id", id)
	s.events.Emit(ctx, id, realtime.SSEEventProjectDeleted, map[string]string{"project_id": id.String()})
	return nil
}
