package awareness

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/rcliao/agent-state/internal/memory"
	"github.com/rcliao/agent-state/internal/model"
)

// EventActionOutcome is the episodic event type for action outcomes.
const EventActionOutcome = "action_outcome"

// OutcomeParams holds input for recording an action outcome.
type OutcomeParams struct {
	Action       string
	Expected     string
	Actual       string
	SuccessScore float64 // 0.0 failure .. 1.0 perfect
	Context      string
}

type outcomeContent struct {
	Action       string  `json:"action"`
	Expected     string  `json:"expected"`
	Actual       string  `json:"actual"`
	SuccessScore float64 `json:"success_score"`
	Context      string  `json:"context,omitempty"`
	Timestamp    string  `json:"timestamp"`
}

// OutcomeReceipt is the result of recording an outcome.
type OutcomeReceipt struct {
	OutcomeID              string  `json:"outcome_id"`
	SuccessScore           float64 `json:"success_score"`
	LearningRecommendation string  `json:"learning_recommendation,omitempty"`
}

// RecordOutcome appends an action outcome to the episodic log. The success
// score doubles as the episode's significance.
func (s *Service) RecordOutcome(ctx context.Context, p OutcomeParams) (*OutcomeReceipt, error) {
	if p.Action == "" {
		return nil, model.NewError(model.KindInvalidArgument, "action is required")
	}
	if p.SuccessScore < 0 || p.SuccessScore > 1 {
		return nil, model.NewError(model.KindInvalidArgument, "success_score must be between 0.0 and 1.0")
	}

	content, err := json.Marshal(outcomeContent{
		Action:       p.Action,
		Expected:     p.Expected,
		Actual:       p.Actual,
		SuccessScore: p.SuccessScore,
		Context:      p.Context,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, model.WrapError(model.KindInvalidArgument, err, "encode outcome")
	}

	item, err := s.mem.RecordEpisode(ctx, memory.EpisodeParams{
		EventType:    EventActionOutcome,
		Content:      string(content),
		Significance: p.SuccessScore,
	})
	if err != nil {
		return nil, err
	}

	receipt := &OutcomeReceipt{OutcomeID: item.ID, SuccessScore: p.SuccessScore}
	switch {
	case p.SuccessScore >= 0.8:
		receipt.LearningRecommendation = "Consider adding this to procedural memory as a successful pattern."
	case p.SuccessScore <= 0.3:
		receipt.LearningRecommendation = "Consider recording this failure pattern to avoid in future."
	}
	return receipt, nil
}

// SimilarAction is a past outcome relevant to a planned action.
type SimilarAction struct {
	Action       string  `json:"action"`
	Outcome      string  `json:"outcome"`
	SuccessScore float64 `json:"success_score"`
	Relevance    float64 `json:"relevance"`
}

// similarScanWindow bounds how far back similarity lookups scan.
const similarScanWindow = 50

// SimilarActions finds past action outcomes matching the description by
// keyword overlap, most relevant first.
func (s *Service) SimilarActions(ctx context.Context, description string, limit int) ([]SimilarAction, error) {
	if limit <= 0 {
		limit = 5
	}

	episodes, err := s.mem.RecentEpisodes(ctx, memory.EpisodeQuery{
		EventType: EventActionOutcome,
		Limit:     similarScanWindow,
	})
	if err != nil {
		return nil, err
	}

	keywords := strings.Fields(strings.ToLower(description))
	var results []SimilarAction
	for _, e := range episodes {
		var c outcomeContent
		if err := json.Unmarshal([]byte(e.Content), &c); err != nil {
			continue
		}

		action := strings.ToLower(c.Action)
		matched := 0
		for _, kw := range keywords {
			if strings.Contains(action, kw) {
				matched++
			}
		}
		relevance := float64(matched) / float64(max(len(keywords), 1))
		if relevance <= 0.2 {
			continue
		}

		results = append(results, SimilarAction{
			Action:       c.Action,
			Outcome:      c.Actual,
			SuccessScore: c.SuccessScore,
			Relevance:    relevance,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
