package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/dberr"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

type ChatMessageRepo interface {
	// Append assigns consecutive seq numbers to rows and inserts them.
	Append(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, rows []*types.ChatMessage) ([]*types.ChatMessage, error)
	ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.ChatMessage, error)
	ListRecent(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.ChatMessage, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, log *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: log.With("repo", "ChatMessageRepo")}
}

// maxAppendAttempts bounds retries when a concurrent append took the same seq.
const maxAppendAttempts = 5

func (r *chatMessageRepo) Append(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, rows []*types.ChatMessage) ([]*types.ChatMessage, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("missing project_id")
	}
	if len(rows) == 0 {
		return []*types.ChatMessage{}, nil
	}
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var err error
	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		err = transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
			return appendRows(t, projectID, rows)
		})
		if err == nil {
			return rows, nil
		}
		err = dberr.Map("append chat messages", err)
		if !dberr.IsConflict(err) || ctx.Err() != nil {
			break
		}
		r.log.Debug("Chat seq taken, retrying", "project_id", projectID, "attempt", attempt)
	}
	return nil, err
}

// appendRows numbers rows after the project's current last message. On
// Postgres the project row is locked first so appends to one project queue
// up instead of racing for the same seq.
func appendRows(t *gorm.DB, projectID uuid.UUID, rows []*types.ChatMessage) error {
	if t.Dialector.Name() == "postgres" {
		var p types.Project
		if err := t.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", projectID).
			Limit(1).
			Find(&p).Error; err != nil {
			return err
		}
	}
	var maxSeq int64
	if err := t.Model(&types.ChatMessage{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq).Error; err != nil {
		return err
	}
	for i, row := range rows {
		row.ProjectID = projectID
		row.Seq = maxSeq + int64(i) + 1
	}
	return t.Create(&rows).Error
}

// ListByProject returns the first limit messages in conversation order.
// limit <= 0 means all.
func (r *chatMessageRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("seq ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.ChatMessage
	if err := q.Find(&out).Error; err != nil {
		return nil, dberr.Map("list chat messages", err)
	}
	return out, nil
}

// ListRecent returns the last limit messages, oldest first.
func (r *chatMessageRepo) ListRecent(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ChatMessage
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("seq DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, dberr.Map("list recent chat messages", err)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
