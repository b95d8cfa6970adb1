package rentals

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/vistral/rentals-backend/internal/data/repos/testutil"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
)

func TestPropertyTaskRepo_CompletionTimestampLockstep(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewPropertyTaskRepo(gdb, testutil.Logger(t))

	testutil.SeedProperty(t, ctx, tx, "PROP-T-1")
	if _, err := repo.Upsert(ctx, tx, &rentals.PropertyTask{
		PropertyUniqueID: "PROP-T-1",
		Phase:            "renovation",
		TaskType:         "paint_walls",
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := repo.SetCompletion(ctx, tx, "PROP-T-1", "renovation", "paint_walls", true); err != nil {
		t.Fatalf("complete: %v", err)
	}
	task, err := repo.GetByKey(ctx, tx, "PROP-T-1", "renovation", "paint_walls")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !task.IsCompleted || task.CompletedAt == nil {
		t.Fatalf("completed task missing timestamp: %+v", task)
	}

	if err := repo.SetCompletion(ctx, tx, "PROP-T-1", "renovation", "paint_walls", false); err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	task, err = repo.GetByKey(ctx, tx, "PROP-T-1", "renovation", "paint_walls")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if task.IsCompleted || task.CompletedAt != nil {
		t.Fatalf("reopened task kept completion state: %+v", task)
	}
}

func TestPropertyTaskRepo_SetCompletionMissingTask(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewPropertyTaskRepo(gdb, testutil.Logger(t))

	err := repo.SetCompletion(context.Background(), tx, "PROP-T-NONE", "renovation", "paint_walls", true)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("got %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestPropertyTaskRepo_UpsertSamePhaseTaskKeepsOneRow(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewPropertyTaskRepo(gdb, testutil.Logger(t))

	testutil.SeedProperty(t, ctx, tx, "PROP-T-2")
	for i := 0; i < 2; i++ {
		if _, err := repo.Upsert(ctx, tx, &rentals.PropertyTask{
			PropertyUniqueID: "PROP-T-2",
			Phase:            "publication",
			TaskType:         "photos",
		}); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	list, err := repo.ListByPhase(ctx, tx, "PROP-T-2", "publication")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d rows, want 1", len(list))
	}
}
