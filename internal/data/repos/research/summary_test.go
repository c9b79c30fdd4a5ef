package research

import (
	"context"
	"testing"

	"gorm.io/datatypes"

	"github.com/yungbote/aura-backend/internal/data/repos/testutil"
	types "github.com/yungbote/aura-backend/internal/domain"
)

func TestSummaryRepoUpsertOverwrites(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSummaryRepo(db, testutil.Logger(t))
	p := testutil.SeedProject(t, ctx, tx, "summaries")
	paper := testutil.SeedPaper(t, ctx, tx, p.ID, "P", "abstract")

	first, err := repo.Upsert(ctx, tx, &types.Summary{
		PaperID:     paper.ID,
		SummaryText: "first",
		KeyFindings: datatypes.JSONSlice[string]{"a"},
	})
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	second, err := repo.Upsert(ctx, tx, &types.Summary{
		PaperID:     paper.ID,
		SummaryText: "second",
		KeyFindings: datatypes.JSONSlice[string]{"b", "c"},
	})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert should keep the original row id")
	}
	if second.SummaryText != "second" || len(second.KeyFindings) != 2 || second.KeyFindings[1] != "c" {
		t.Fatalf("summary not overwritten: %+v", second)
	}

	var n int64
	tx.Model(&types.Summary{}).Where("paper_id = ?", paper.ID).Count(&n)
	if n != 1 {
		t.Fatalf("expected exactly one summary row, got %d", n)
	}
}
