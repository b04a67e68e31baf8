package memory

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

// SkillParams holds input for learning a skill.
type SkillParams struct {
	SkillName string
	Steps     string
}

// LearnSkill inserts or replaces the steps of a procedure keyed by skill
// name. success_rate and execution_count are preserved on replace; the
// operation that would evolve them is deliberately not part of this surface.
func (m *Manager) LearnSkill(ctx context.Context, p SkillParams) (*model.ProceduralMemoryItem, error) {
	if p.SkillName == "" {
		return nil, model.NewError(model.KindInvalidArgument, "skill_name is required")
	}
	if p.Steps == "" {
		return nil, model.NewError(model.KindInvalidArgument, "steps is required")
	}

	var item *model.ProceduralMemoryItem
	err := m.store.Update(ctx, func(q store.Querier) error {
		_, err := q.ExecContext(ctx,
			`INSERT INTO procedural_memory (id, skill_name, steps, created_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(skill_name) DO UPDATE SET steps = excluded.steps`,
			m.store.NewID(), p.SkillName, p.Steps, fmtTime(time.Now()))
		if err != nil {
			return model.WrapError(model.KindStorageUnavailable, err, "upsert skill")
		}

		stored, err := GetSkill(ctx, q, p.SkillName)
		if err != nil {
			return err
		}
		item = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetSkill returns the procedure stored under the given skill name.
func GetSkill(ctx context.Context, q store.Querier, skillName string) (*model.ProceduralMemoryItem, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, skill_name, steps, success_rate, execution_count, created_at
		 FROM procedural_memory WHERE skill_name = ?`, skillName)

	item, err := scanSkill(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewError(model.KindNotFound, "skill not found: %s", skillName)
		}
		return nil, err
	}
	return &item, nil
}

// Skills returns every stored procedure in insertion order.
func Skills(ctx context.Context, q store.Querier) ([]model.ProceduralMemoryItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, skill_name, steps, success_rate, execution_count, created_at
		 FROM procedural_memory ORDER BY id`)
	if err != nil {
		return nil, model.WrapError(model.KindStorageUnavailable, err, "query skills")
	}
	defer rows.Close()

	var items []model.ProceduralMemoryItem
	for rows.Next() {
		item, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanSkill(row scanner) (model.ProceduralMemoryItem, error) {
	var item model.ProceduralMemoryItem
	var createdAt string

	err := row.Scan(&item.ID, &item.SkillName, &item.Steps, &item.SuccessRate, &item.ExecutionCount, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return item, err
		}
		return item, model.WrapError(model.KindStorageUnavailable, err, "scan skill")
	}

	item.CreatedAt = parseTime(createdAt)
	return item, nil
}
