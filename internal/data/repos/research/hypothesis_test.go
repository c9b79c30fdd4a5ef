package research

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/aura-backend/internal/data/repos/testutil"
	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/dberr"
)

func TestHypothesisAndExperimentRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	log := testutil.Logger(t)
	hRepo := NewHypothesisRepo(db, log)
	eRepo := NewExperimentRepo(db, log)
	p := testutil.SeedProject(t, ctx, tx, "hyp")
	paperID := uuid.New().String()

	h, err := hRepo.Create(ctx, tx, &types.Hypothesis{
		ProjectID:          p.ID,
		ResearchQuestion:   "Does X cause Y?",
		HypothesisText:     "X causes Y",
		Reasoning:          "because",
		ConfidenceScore:    0.7,
		SupportingEvidence: datatypes.NewJSONType(types.Evidence{paperID: "quote"}),
	})
	if err != nil {
		t.Fatalf("Create hypothesis: %v", err)
	}

	e, err := eRepo.Create(ctx, tx, &types.Experiment{
		HypothesisID: h.ID,
		Title:        "RCT",
		Variables:    datatypes.NewJSONType(types.Variables{Independent: []string{"x"}}),
	})
	if err != nil {
		t.Fatalf("Create experiment: %v", err)
	}

	got, err := hRepo.GetByID(ctx, tx, h.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ConfidenceScore != 0.7 {
		t.Fatalf("confidence round-trip: %v", got.ConfidenceScore)
	}
	if got.SupportingEvidence.Data()[paperID] != "quote" {
		t.Fatalf("evidence round-trip: %#v", got.SupportingEvidence.Data())
	}
	if len(got.Experiments) != 1 || got.Experiments[0].ID != e.ID {
		t.Fatalf("experiments not preloaded: %#v", got.Experiments)
	}

	gotE, err := eRepo.GetByID(ctx, tx, e.ID)
	if err != nil {
		t.Fatalf("experiment GetByID: %v", err)
	}
	vars := gotE.Variables.Data()
	if len(vars.Independent) != 1 || vars.Dependent == nil || len(vars.Dependent) != 0 {
		t.Fatalf("variables round-trip: %#v", vars)
	}

	list, err := hRepo.ListByProject(ctx, tx, p.ID, 0)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByProject: err=%v len=%d", err, len(list))
	}
	exps, err := eRepo.ListByHypothesisIDs(ctx, tx, []uuid.UUID{h.ID})
	if err != nil || len(exps) != 1 {
		t.Fatalf("ListByHypothesisIDs: err=%v len=%d", err, len(exps))
	}
	if _, err := hRepo.GetByID(ctx, tx, uuid.New()); !dberr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := eRepo.GetByID(ctx, tx, uuid.New()); !dberr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResearchQueryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewResearchQueryRepo(db, testutil.Logger(t))
	p := testutil.SeedProject(t, ctx, tx, "queries")

	q, err := repo.Create(ctx, tx, &types.ResearchQuery{
		ProjectID:   p.ID,
		QueryText:   "graph neural networks",
		Sources:     datatypes.JSONSlice[string]{"arxiv"},
		ResultCount: 3,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	list, err := repo.ListByProject(ctx, tx, p.ID)
	if err != nil || len(list) != 1 || list[0].ID != q.ID {
		t.Fatalf("ListByProject: err=%v len=%d", err, len(list))
	}
	if list[0].Sources[0] != "arxiv" {
		t.Fatalf("sources round-trip: %#v", list[0].Sources)
	}
}
