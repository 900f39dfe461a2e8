package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/ggltcg/ggltcg-server-go/internal/cards"
	"github.com/ggltcg/ggltcg-server-go/internal/game/effects"
	"github.com/ggltcg/ggltcg-server-go/internal/game/rules"
)

// Snapshot is a complete, self-contained capture of a game for storage
// or transmission. It carries every field needed for a lossless round
// trip: effective stats re-derive deterministically from base stats,
// modifications and zones after reload; there is no hidden runtime-only
// state.
type Snapshot struct {
	GameID       string
	TurnNumber   int
	ActivePlayer string
	Phase        string
	Winner       string
	Players      []PlayerSnapshot
	Log          []string
	CCLedger     []CCTurnRecord
	Version      int
}

// PlayerSnapshot captures one player's zones and resources.
type PlayerSnapshot struct {
	ID                    string
	Name                  string
	CommandCounters       int
	DirectAttacksThisTurn int
	Hand                  []CardSnapshot
	InPlay                []CardSnapshot
	SleepZone             []CardSnapshot
	OwnedCardIDs          []string
}

// CardSnapshot captures one card instance.
type CardSnapshot struct {
	ID             string
	DefID          string
	Name           string
	Type           CardType
	BaseCost       int
	BaseSpeed      int
	BaseStrength   int
	BaseStamina    int
	CurrentStamina int
	Owner          string
	Controller     string
	Zone           Zone
	Modifications  []Modification
}

// SnapshotChecksum is a deterministic digest of a snapshot, used to guard
// against divergent states across save/load or transmission.
type SnapshotChecksum struct {
	Hash    string
	Version int
}

// TakeSnapshot captures the current state.
func TakeSnapshot(state *GameState) *Snapshot {
	snap := &Snapshot{
		GameID:       state.GameID,
		TurnNumber:   state.TurnNumber,
		ActivePlayer: state.ActivePlayer,
		Phase:        state.Phase.String(),
		Winner:       state.Winner,
		Log:          append([]string(nil), state.Log...),
		CCLedger:     append([]CCTurnRecord(nil), state.CCLedger...),
		Version:      1,
	}
	for _, p := range state.Players {
		if p == nil {
			continue
		}
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:                    p.ID,
			Name:                  p.Name,
			CommandCounters:       p.CommandCounters,
			DirectAttacksThisTurn: p.DirectAttacksThisTurn,
			Hand:                  snapshotZone(p.Hand),
			InPlay:                snapshotZone(p.InPlay),
			SleepZone:             snapshotZone(p.SleepZone),
			OwnedCardIDs:          append([]string(nil), p.OwnedCardIDs...),
		})
	}
	return snap
}

func snapshotZone(zone []*Card) []CardSnapshot {
	out := make([]CardSnapshot, 0, len(zone))
	for _, c := range zone {
		out = append(out, CardSnapshot{
			ID:             c.ID,
			DefID:          c.DefID,
			Name:           c.Name,
			Type:           c.Type,
			BaseCost:       c.BaseCost,
			BaseSpeed:      c.BaseSpeed,
			BaseStrength:   c.BaseStrength,
			BaseStamina:    c.BaseStamina,
			CurrentStamina: c.CurrentStamina,
			Owner:          c.Owner,
			Controller:     c.Controller,
			Zone:           c.Zone,
			Modifications:  append([]Modification(nil), c.Modifications...),
		})
	}
	return out
}

// RestoreGame rebuilds a game state and effect registry from a snapshot.
// The card set must contain every definition the snapshot references.
func RestoreGame(snap *Snapshot, set *cards.Set) (*GameState, *effects.Registry, error) {
	if len(snap.Players) != 2 {
		return nil, nil, fmt.Errorf("snapshot has %d players, want 2", len(snap.Players))
	}
	phase, ok := rules.ParsePhase(snap.Phase)
	if !ok {
		return nil, nil, fmt.Errorf("snapshot has unknown phase %q", snap.Phase)
	}

	registry := effects.NewRegistry()
	state := &GameState{
		GameID:       snap.GameID,
		TurnNumber:   snap.TurnNumber,
		ActivePlayer: snap.ActivePlayer,
		Phase:        phase,
		Winner:       snap.Winner,
		Log:          append([]string(nil), snap.Log...),
		CCLedger:     append([]CCTurnRecord(nil), snap.CCLedger...),
	}

	for i, ps := range snap.Players {
		player := &Player{
			ID:                    ps.ID,
			Name:                  ps.Name,
			CommandCounters:       ps.CommandCounters,
			DirectAttacksThisTurn: ps.DirectAttacksThisTurn,
			OwnedCardIDs:          append([]string(nil), ps.OwnedCardIDs...),
		}
		var err error
		if player.Hand, err = restoreZone(ps.Hand, set, registry); err != nil {
			return nil, nil, err
		}
		if player.InPlay, err = restoreZone(ps.InPlay, set, registry); err != nil {
			return nil, nil, err
		}
		if player.SleepZone, err = restoreZone(ps.SleepZone, set, registry); err != nil {
			return nil, nil, err
		}
		state.Players[i] = player
	}

	registry.Seal()
	return state, registry, nil
}

func restoreZone(snaps []CardSnapshot, set *cards.Set, registry *effects.Registry) ([]*Card, error) {
	out := make([]*Card, 0, len(snaps))
	for _, cs := range snaps {
		def, ok := set.ByID(cs.DefID)
		if !ok {
			return nil, fmt.Errorf("snapshot references unknown card definition %q", cs.DefID)
		}
		card := &Card{
			ID:             cs.ID,
			DefID:          cs.DefID,
			Name:           cs.Name,
			Type:           cs.Type,
			BaseCost:       cs.BaseCost,
			BaseSpeed:      cs.BaseSpeed,
			BaseStrength:   cs.BaseStrength,
			BaseStamina:    cs.BaseStamina,
			CurrentStamina: cs.CurrentStamina,
			Owner:          cs.Owner,
			Controller:     cs.Controller,
			Zone:           cs.Zone,
			Modifications:  append([]Modification(nil), cs.Modifications...),
		}
		if err := registry.Bind(card.ID, def.Parsed); err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, nil
}

// Encode serializes the snapshot with gob, the format used for replay
// files and transmission.
func (snap *Snapshot) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot deserializes a gob-encoded snapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Checksum computes a deterministic digest over a canonical sorted
// representation, independent of map iteration order or timestamps.
func (snap *Snapshot) Checksum() SnapshotChecksum {
	hash := sha256.Sum256([]byte(snap.canonical()))
	return SnapshotChecksum{Hash: hex.EncodeToString(hash[:]), Version: snap.Version}
}

func (snap *Snapshot) canonical() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "GAME:%s|%d|%s|%s|%s\n",
		snap.GameID, snap.TurnNumber, snap.ActivePlayer, snap.Phase, snap.Winner)

	players := append([]PlayerSnapshot(nil), snap.Players...)
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })

	for _, p := range players {
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%d|%d\n",
			p.ID, p.Name, p.CommandCounters, p.DirectAttacksThisTurn)
		writeZone(&buf, "HAND", p.Hand)
		writeZone(&buf, "IN_PLAY", p.InPlay)
		writeZone(&buf, "SLEEP", p.SleepZone)
		fmt.Fprintf(&buf, "  OWNED:%s\n", strings.Join(sortedCopy(p.OwnedCardIDs), ","))
	}
	return buf.String()
}

func writeZone(buf *bytes.Buffer, label string, zone []CardSnapshot) {
	// Zone order matters in play; keep it, sort nothing here.
	fmt.Fprintf(buf, "  %s:\n", label)
	for _, c := range zone {
		fmt.Fprintf(buf, "    CARD:%s|%s|%s|%d|%d|%d|%d|%d|%s|%s|%d\n",
			c.ID, c.DefID, c.Type,
			c.BaseCost, c.BaseSpeed, c.BaseStrength, c.BaseStamina, c.CurrentStamina,
			c.Owner, c.Controller, c.Zone)
		for _, m := range c.Modifications {
			fmt.Fprintf(buf, "      MOD:%s|%d|%d\n", m.Stat, m.Delta, m.ExpiresTurn)
		}
	}
}

func sortedCopy(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

// ValidateRoundtrip asserts a snapshot survives encode/decode without
// loss by comparing checksums.
func ValidateRoundtrip(snap *Snapshot) error {
	original := snap.Checksum()
	data, err := snap.Encode()
	if err != nil {
		return err
	}
	decoded, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}
	restored := decoded.Checksum()
	if original.Hash != restored.Hash {
		return fmt.Errorf("checksum mismatch: original=%s, restored=%s", original.Hash, restored.Hash)
	}
	return nil
}
