package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/aura-backend/internal/data/repos"
	"github.com/yungbote/aura-backend/internal/data/repos/testutil"
	"github.com/yungbote/aura-backend/internal/platform/apierr"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/platform/openai"
	"github.com/yungbote/aura-backend/internal/prompts"
	"github.com/yungbote/aura-backend/internal/realtime"
)

type fakeLLM struct {
	mu      sync.Mutex
	json    map[string]string // by schema name
	text    string
	err     error
	embeds  [][]float32
	schemas []string
	users   []string
}

func (f *fakeLLM) GenerateText(_ context.Context, _ string, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, user)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeLLM) GenerateJSON(_ context.Context, _ string, user string, schemaName string, _ map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schemas = append(f.schemas, schemaName)
	f.users = append(f.users, user)
	if f.err != nil {
		return "", f.err
	}
	out, ok := f.json[schemaName]
	if !ok {
		return "", errors.New("no canned output for " + schemaName)
	}
	return out, nil
}

func (f *fakeLLM) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.embeds[:len(inputs)], nil
}

type recordedEvent struct {
	projectID uuid.UUID
	event     realtime.SSEEvent
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (e *recordingEmitter) Emit(_ context.Context, projectID uuid.UUID, event realtime.SSEEvent, _ any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, recordedEvent{projectID: projectID, event: event})
}

func (e *recordingEmitter) count(event realtime.SSEEvent) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, ev := range e.events {
		if ev.event == event {
			n++
		}
	}
	return n
}

type fakeSource struct {
	name    string
	results []SearchResult
	err     error
	gotMax  int
	lookups map[string]SearchResult
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Search(_ context.Context, _ string, maxResults int) ([]SearchResult, error) {
	f.gotMax = maxResults
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeSource) Lookup(_ context.Context, id string) (*SearchResult, error) {
	r, ok := f.lookups[id]
	if !ok {
		return nil, ErrSourcePaperNotFound
	}
	return &r, nil
}

type testEnv struct {
	db     *gorm.DB
	log    *logger.Logger
	llm    *fakeLLM
	events *recordingEmitter

	projectRepo    repos.ProjectRepo
	paperRepo      repos.PaperRepo
	summaryRepo    repos.SummaryRepo
	hypothesisRepo repos.HypothesisRepo
	experimentRepo repos.ExperimentRepo
	queryRepo      repos.ResearchQueryRepo
	messageRepo    repos.ChatMessageRepo

	projects    ProjectService
	papers      PaperService
	summaries   SummarizationService
	hypotheses  HypothesisService
	experiments ExperimentService
	analysis    AnalysisService
	chat        ChatService
	exports     ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	reg := prompts.NewRegistry()
	env := &testEnv{
		db:             db,
		log:            log,
		llm:            &fakeLLM{json: map[string]string{}},
		events:         &recordingEmitter{},
		projectRepo:    repos.NewProjectRepo(db, log),
		paperRepo:      repos.NewPaperRepo(db, log),
		summaryRepo:    repos.NewSummaryRepo(db, log),
		hypothesisRepo: repos.NewHypothesisRepo(db, log),
		experimentRepo: repos.NewExperimentRepo(db, log),
		queryRepo:      repos.NewResearchQueryRepo(db, log),
		messageRepo:    repos.NewChatMessageRepo(db, log),
	}
	var llm openai.Client = env.llm
	env.projects = NewProjectService(db, log, env.projectRepo, env.events)
	env.papers = NewPaperService(db, log, env.projectRepo, env.paperRepo, env.events)
	env.summaries = NewSummarizationService(db, log, llm, reg, env.paperRepo, env.summaryRepo, env.events)
	env.hypotheses = NewHypothesisService(db, log, llm, reg, env.projectRepo, env.paperRepo, env.hypothesisRepo, env.events)
	env.experiments = NewExperimentService(db, log, llm, reg, env.paperRepo, env.hypothesisRepo, env.experimentRepo, env.events)
	env.analysis = NewAnalysisService(db, log, llm, reg, env.projectRepo, env.paperRepo, env.messageRepo, env.events)
	env.chat = NewChatService(db, log, llm, reg, env.projectRepo, env.paperRepo, env.hypothesisRepo, env.messageRepo, env.events)
	env.exports = NewExportService(db, log, env.projectRepo, env.paperRepo, env.hypothesisRepo, env.experimentRepo, env.messageRepo)
	return env
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %d %s, got nil error", status, code)
	}
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected apierr, got %T: %v", err, err)
	}
	if ae.Status != status || ae.Code != code {
		t.Fatalf("want %d %s, got %d %s (%v)", status, code, ae.Status, ae.Code, err)
	}
}
