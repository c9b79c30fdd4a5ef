package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/aura-backend/internal/domain"
)

func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Project {
	tb.Helper()
	p := &types.Project{Title: title, Description: "seeded"}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedPaper(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID uuid.UUID, title, abstract string) *types.Paper {
	tb.Helper()
	p := &types.Paper{
		ProjectID: projectID,
		Title:     title,
		Abstract:  abstract,
		Authors:   datatypes.JSONSlice[string]{"A. Author"},
		Source:    types.SourceManual,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed paper: %v", err)
	}
	return p
}

func SeedHypothesis(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID uuid.UUID, text string) *types.Hypothesis {
	tb.Helper()
	h := &types.Hypothesis{
		ProjectID:        projectID,
		ResearchQuestion: "why?",
		HypothesisText:   text,
		ConfidenceScore:  0.5,
	}
	if err := tx.WithContext(ctx).Create(h).Error; err != nil {
		tb.Fatalf("seed hypothesis: %v", err)
	}
	return h
}

func SeedExperiment(tb testing.TB, ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID) *types.Experiment {
	tb.Helper()
	e := &types.Experiment{
		HypothesisID: hypothesisID,
		Title:        "experiment",
		Methodology:  "randomized",
		Variables:    datatypes.NewJSONType(types.Variables{Independent: []string{"dose"}, Dependent: []string{"response"}}),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed experiment: %v", err)
	}
	return e
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

func PtrString(v string) *string { return &v }
