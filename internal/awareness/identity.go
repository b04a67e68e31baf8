// Package awareness implements the agent self-model, the knowledge-gap log,
// and action-outcome tracking on top of the memory tiers. The session
// coordinator consumes it through narrow read interfaces.
package awareness

import (
	"context"
	"time"

	"github.com/rcliao/agent-state/internal/memory"
	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/store"
)

// Identity concept keys in semantic memory.
const (
	ConceptName         = "agent_name"
	ConceptPurpose      = "agent_purpose"
	ConceptCapabilities = "agent_capabilities"
	ConceptLimitations  = "agent_limitations"
	ConceptPersonality  = "agent_personality"
)

var identityConcepts = []string{
	ConceptName, ConceptPurpose, ConceptCapabilities, ConceptLimitations, ConceptPersonality,
}

var identityDefaults = map[string]string{
	ConceptName:         "Agentic Assistant",
	ConceptPurpose:      "Help user accomplish their goals effectively",
	ConceptCapabilities: "Memory, goal tracking, learning, self-improvement",
	ConceptLimitations:  "Cannot access internet, cannot execute code without approval",
	ConceptPersonality:  "Helpful, transparent, collaborative",
}

// Identity is the agent's self-model as configured by the user. Unset fields
// fall back to defaults on read.
type Identity struct {
	Name         string `json:"agent_name"`
	Purpose      string `json:"agent_purpose"`
	Capabilities string `json:"agent_capabilities"`
	Limitations  string `json:"agent_limitations"`
	Personality  string `json:"agent_personality"`
}

// Service provides the awareness operations.
type Service struct {
	store *store.Store
	mem   *memory.Manager
}

// NewService creates a Service backed by the given store and memory manager.
func NewService(s *store.Store, mem *memory.Manager) *Service {
	return &Service{store: s, mem: mem}
}

// Identity reads the self-model from semantic memory, filling missing fields
// with defaults.
func (s *Service) Identity(ctx context.Context) (*Identity, error) {
	values := make(map[string]string, len(identityConcepts))
	for k, v := range identityDefaults {
		values[k] = v
	}

	err := s.store.View(ctx, func(q store.Querier) error {
		concepts, err := memory.Concepts(ctx, q, identityConcepts...)
		if err != nil {
			return err
		}
		for _, c := range concepts {
			values[c.Concept] = c.Definition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Identity{
		Name:         values[ConceptName],
		Purpose:      values[ConceptPurpose],
		Capabilities: values[ConceptCapabilities],
		Limitations:  values[ConceptLimitations],
		Personality:  values[ConceptPersonality],
	}, nil
}

// IdentityParams holds an identity update. Empty fields are left unchanged.
type IdentityParams struct {
	Name         string
	Purpose      string
	Capabilities string
	Limitations  string
	Personality  string
}

// SetIdentity writes the provided identity fields as semantic concepts with
// full confidence, all in one transaction. Returns the updated field names.
func (s *Service) SetIdentity(ctx context.Context, p IdentityParams) ([]string, error) {
	fields := []struct {
		concept, value, label string
	}{
		{ConceptName, p.Name, "name"},
		{ConceptPurpose, p.Purpose, "purpose"},
		{ConceptCapabilities, p.Capabilities, "capabilities"},
		{ConceptLimitations, p.Limitations, "limitations"},
		{ConceptPersonality, p.Personality, "personality"},
	}

	var updated []string
	err := s.store.Update(ctx, func(q store.Querier) error {
		now := time.Now().UTC()
		for _, f := range fields {
			if f.value == "" {
				continue
			}
			item := &model.SemanticMemoryItem{
				Concept:    f.concept,
				Definition: f.value,
				Confidence: 1.0,
				CreatedAt:  now,
			}
			if err := memory.PutConcept(ctx, q, item); err != nil {
				return err
			}
			updated = append(updated, f.label)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
