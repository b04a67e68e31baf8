package awareness

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rcliao/agent-state/internal/memory"
	"github.com/rcliao/agent-state/internal/model"
)

// EventMetacognitiveState is the episodic event type for metacognitive
// snapshots.
const EventMetacognitiveState = "metacognitive_state"

// MetacognitionParams holds a self-assessment of the agent's thinking.
type MetacognitionParams struct {
	Confidence       float64 // confidence in the current approach
	CognitiveLoad    float64 // complexity of the current task
	ReasoningQuality float64 // self-assessed reasoning quality
	Notes            string
}

type metacognitionContent struct {
	Confidence       float64 `json:"confidence"`
	CognitiveLoad    float64 `json:"cognitive_load"`
	ReasoningQuality float64 `json:"reasoning_quality"`
	Notes            string  `json:"notes,omitempty"`
	Timestamp        string  `json:"timestamp"`
}

// MetacognitionReceipt is the result of recording a metacognitive state.
type MetacognitionReceipt struct {
	Recorded bool     `json:"recorded"`
	Warnings []string `json:"warnings"`
}

// RecordMetacognition appends a metacognitive snapshot to the episodic log
// and returns threshold warnings about the agent's current state.
func (s *Service) RecordMetacognition(ctx context.Context, p MetacognitionParams) (*MetacognitionReceipt, error) {
	for _, v := range []float64{p.Confidence, p.CognitiveLoad, p.ReasoningQuality} {
		if v < 0 || v > 1 {
			return nil, model.NewError(model.KindInvalidArgument, "metacognitive scores must be between 0.0 and 1.0")
		}
	}

	content, err := json.Marshal(metacognitionContent{
		Confidence:       p.Confidence,
		CognitiveLoad:    p.CognitiveLoad,
		ReasoningQuality: p.ReasoningQuality,
		Notes:            p.Notes,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, model.WrapError(model.KindInvalidArgument, err, "encode metacognitive state")
	}

	_, err = s.mem.RecordEpisode(ctx, memory.EpisodeParams{
		EventType:    EventMetacognitiveState,
		Content:      string(content),
		Significance: 0.4,
	})
	if err != nil {
		return nil, err
	}

	receipt := &MetacognitionReceipt{Recorded: true, Warnings: []string{}}
	if p.Confidence < 0.4 {
		receipt.Warnings = append(receipt.Warnings, "Low confidence - consider asking clarifying questions")
	}
	if p.CognitiveLoad > 0.8 {
		receipt.Warnings = append(receipt.Warnings, "High cognitive load - consider breaking task into smaller steps")
	}
	if p.ReasoningQuality < 0.5 {
		receipt.Warnings = append(receipt.Warnings, "Reasoning quality concern - consider using sequential thinking")
	}
	return receipt, nil
}
