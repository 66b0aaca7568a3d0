package entities

import (
	"encoding/json"
	"fmt"
)

// ActionKind tags one of the closed set of player action types
type ActionKind string

// The closed action set. Anything else fails at decode time, before it
// reaches the engine.
const (
	ActionFoundCity           ActionKind = "found_city"
	ActionCollectResource     ActionKind = "collect_resource"
	ActionMoveArmy            ActionKind = "move_army"
	ActionBuildInfrastructure ActionKind = "build_infrastructure"
	ActionCreateUnit          ActionKind = "create_unit"
	ActionDiplomacy           ActionKind = "diplomacy"
	ActionFreeAction          ActionKind = "free_action"
)

// Action is the closed sum of player action payloads. Only the types in
// this package implement it.
type Action interface {
	Kind() ActionKind
	isAction()
}

// Position is a map coordinate carried by action payloads
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FoundCity founds a new city on a tile
type FoundCity struct {
	Position Position `json:"position"`
	Name     string   `json:"name"`
}

// CollectResource harvests the resource on an owned tile
type CollectResource struct {
	Position Position `json:"position"`
}

// MoveArmy moves a unit to an adjacent tile, fighting if it is occupied
// by another player
type MoveArmy struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// BuildInfrastructure adds a building to a city
type BuildInfrastructure struct {
	Position Position `json:"position"`
	Building string   `json:"building"`
}

// CreateUnit trains a new unit on an owned tile
type CreateUnit struct {
	Position Position `json:"position"`
	UnitType string   `json:"unit_type"`
}

// Diplomacy sends a diplomatic gesture to another player
type Diplomacy struct {
	TargetPlayerID string `json:"target_player_id"`
	Gesture        string `json:"gesture"`
}

// FreeAction is a narrative pass-through with no engine effect
type FreeAction struct {
	Description string `json:"description"`
}

// Kind implements Action
func (FoundCity) Kind() ActionKind { return ActionFoundCity }

// Kind implements Action
func (CollectResource) Kind() ActionKind { return ActionCollectResource }

// Kind implements Action
func (MoveArmy) Kind() ActionKind { return ActionMoveArmy }

// Kind implements Action
func (BuildInfrastructure) Kind() ActionKind { return ActionBuildInfrastructure }

// Kind implements Action
func (CreateUnit) Kind() ActionKind { return ActionCreateUnit }

// Kind implements Action
func (Diplomacy) Kind() ActionKind { return ActionDiplomacy }

// Kind implements Action
func (FreeAction) Kind() ActionKind { return ActionFreeAction }

func (FoundCity) isAction()           {}
func (CollectResource) isAction()     {}
func (MoveArmy) isAction()            {}
func (BuildInfrastructure) isAction() {}
func (CreateUnit) isAction()          {}
func (Diplomacy) isAction()           {}
func (FreeAction) isAction()          {}

// ActionEnvelope is the wire and persistence form of an Action: a kind tag
// plus the raw payload. Decode rejects unknown kinds.
type ActionEnvelope struct {
	Kind    ActionKind      `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EncodeAction wraps a typed action into an envelope
func EncodeAction(a Action) (*ActionEnvelope, error) {
	if a == nil {
		return nil, fmt.Errorf("action is nil")
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", a.Kind(), err)
	}
	return &ActionEnvelope{Kind: a.Kind(), Payload: payload}, nil
}

// Decode returns the typed action inside the envelope, or an error for an
// unknown kind or malformed payload
func (e *ActionEnvelope) Decode() (Action, error) {
	if e == nil {
		return nil, fmt.Errorf("action envelope is nil")
	}

	var a Action
	switch e.Kind {
	case ActionFoundCity:
		a = &FoundCity{}
	case ActionCollectResource:
		a = &CollectResource{}
	case ActionMoveArmy:
		a = &MoveArmy{}
	case ActionBuildInfrastructure:
		a = &BuildInfrastructure{}
	case ActionCreateUnit:
		a = &CreateUnit{}
	case ActionDiplomacy:
		a = &Diplomacy{}
	case ActionFreeAction:
		a = &FreeAction{}
	default:
		return nil, fmt.Errorf("unknown action kind %q", e.Kind)
	}

	if len(e.Payload) > 0 {
		if err := json.Unmarshal(e.Payload, a); err != nil {
			return nil, fmt.Errorf("unmarshal %s payload: %w", e.Kind, err)
		}
	}

	switch v := a.(type) {
	case *FoundCity:
		return *v, nil
	case *CollectResource:
		return *v, nil
	case *MoveArmy:
		return *v, nil
	case *BuildInfrastructure:
		return *v, nil
	case *CreateUnit:
		return *v, nil
	case *Diplomacy:
		return *v, nil
	case *FreeAction:
		return *v, nil
	default:
		return nil, fmt.Errorf("unknown action kind %q", e.Kind)
	}
}

// ActionResult is the structured outcome of one executed action. It is
// appended to history and forwarded to the narrative collaborator.
type ActionResult struct {
	Success        bool          `json:"success"`
	Message        string        `json:"message"`
	City           *City         `json:"city,omitempty"`
	Unit           *Unit         `json:"unit,omitempty"`
	Resource       Resource      `json:"resource,omitempty"`
	Amount         int           `json:"amount,omitempty"`
	Position       *Position     `json:"position,omitempty"`
	Combat         *CombatResult `json:"combat,omitempty"`
	TargetPlayerID string        `json:"target_player_id,omitempty"`
	Description    string        `json:"description,omitempty"`
	NeedsNarrative bool          `json:"needs_narrative,omitempty"`
}
