package server

import (
	"encoding/json"
	"testing"

	"github.com/ggltcg/ggltcg-server-go/internal/game"
)

func TestActionViews(t *testing.T) {
	actions := []game.Action{
		{
			Type:        game.ActionPlayCard,
			CardID:      "card-1",
			Cost:        2,
			Description: "play Dart",
			Targets: []game.TargetSlot{
				{EffectID: "eff-1", Description: "sleep an enemy toy", MaxTargets: 1, ValidIDs: []string{"card-9"}},
			},
		},
		{Type: game.ActionEndTurn, Description: "end turn"},
	}

	views := actionViews(actions)
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}
	if views[0].Type != "play_card" || views[0].Cost != 2 {
		t.Errorf("view = %+v", views[0])
	}
	if len(views[0].Targets) != 1 || views[0].Targets[0].MaxTargets != 1 {
		t.Errorf("target slots = %+v", views[0].Targets)
	}
	if views[1].Type != "end_turn" {
		t.Errorf("view = %+v", views[1])
	}
}

func TestClientMessageDecoding(t *testing.T) {
	raw := `{
		"type": "play_card",
		"game_id": "g1",
		"card_id": "c1",
		"target_ids": ["t1", "t2"],
		"alt_cost_card_id": "c2"
	}`

	var msg ClientMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != "play_card" || msg.GameID != "g1" || msg.CardID != "c1" {
		t.Errorf("msg = %+v", msg)
	}
	if len(msg.TargetIDs) != 2 || msg.AltCostCardID != "c2" {
		t.Errorf("msg = %+v", msg)
	}
}
