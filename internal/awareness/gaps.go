package awareness

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rcliao/agent-state/internal/memory"
	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

// EventKnowledgeGap is the episodic event type for knowledge gaps.
const EventKnowledgeGap = "knowledge_gap"

// researchThreshold is the severity above which a gap warrants research.
const researchThreshold = 0.7

// Gap is something the agent does not know but should. Gaps live in the
// episodic log; severity is the episode's significance.
type Gap struct {
	ID          string    `json:"id"`
	Domain      string    `json:"domain"`
	Description string    `json:"description"`
	Severity    float64   `json:"severity"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type gapContent struct {
	Domain      string `json:"domain"`
	Description string `json:"description"`
}

// GapReceipt is the result of recording a gap.
type GapReceipt struct {
	GapID    string  `json:"gap_id"`
	Domain   string  `json:"domain"`
	Severity float64 `json:"severity"`
	Action   string  `json:"action"`
}

// RecordGap records a knowledge gap. Severity above 0.7 flags the gap for
// research.
func (s *Service) RecordGap(ctx context.Context, domain, description string, severity float64) (*GapReceipt, error) {
	if domain == "" {
		return nil, model.NewError(model.KindInvalidArgument, "domain is required")
	}
	if description == "" {
		return nil, model.NewError(model.KindInvalidArgument, "description is required")
	}

	content, err := json.Marshal(gapContent{Domain: domain, Description: description})
	if err != nil {
		return nil, model.WrapError(model.KindInvalidArgument, err, "encode gap")
	}

	item, err := s.mem.RecordEpisode(ctx, memory.EpisodeParams{
		EventType:    EventKnowledgeGap,
		Content:      string(content),
		Significance: severity,
	})
	if err != nil {
		return nil, err
	}

	action := "noted"
	if severity > researchThreshold {
		action = "research_recommended"
	}
	return &GapReceipt{GapID: item.ID, Domain: domain, Severity: severity, Action: action}, nil
}

// Gaps returns recorded knowledge gaps at or above the given severity,
// most severe first.
func (s *Service) Gaps(ctx context.Context, minSeverity float64) ([]Gap, error) {
	var gaps []Gap
	err := s.store.View(ctx, func(q store.Querier) error {
		var e error
		gaps, e = GapsAbove(ctx, q, minSeverity, 0)
		return e
	})
	return gaps, err
}

// GapsAbove is the transaction-scoped read behind Gaps. limit <= 0 means no
// limit.
func GapsAbove(ctx context.Context, q store.Querier, minSeverity float64, limit int) ([]Gap, error) {
	episodes, err := memory.Episodes(ctx, q, memory.EpisodeQuery{
		EventType:           EventKnowledgeGap,
		MinSignificance:     minSeverity,
		Limit:               limit,
		OrderBySignificance: true,
	})
	if err != nil {
		return nil, err
	}

	gaps := make([]Gap, 0, len(episodes))
	for _, e := range episodes {
		var c gapContent
		json.Unmarshal([]byte(e.Content), &c)
		gaps = append(gaps, Gap{
			ID:          e.ID,
			Domain:      c.Domain,
			Description: c.Description,
			Severity:    e.Significance,
			RecordedAt:  e.CreatedAt,
		})
	}
	return gaps, nil
}
