package game

import (
	"go.uber.org/zap"

	"github.com/ggltcg/ggltcg-server-go/internal/game/effects"
	"github.com/ggltcg/ggltcg-server-go/internal/game/rules"
)

// Config holds the game-rule tunables. Defaults match the published
// rules; the config file can override them for balance experiments.
type Config struct {
	FirstTurnCC        int // CC granted on the first player's opening turn
	CCPerTurn          int // CC granted at every other turn start
	CCMax              int // command counter cap
	TussleCost         int // base CC cost to initiate a tussle
	DirectAttackLimit  int // direct attacks allowed per turn
	AttackerSpeedBonus int // transient speed bonus for the acting attacker
}

// DefaultConfig returns the standard rule set.
func DefaultConfig() Config {
	return Config{
		FirstTurnCC:        1,
		CCPerTurn:          2,
		CCMax:              7,
		TussleCost:         2,
		DirectAttackLimit:  2,
		AttackerSpeedBonus: 1,
	}
}

// ActionResult reports an executed action back to the caller: the latest
// play-by-play line and the winner, if the action ended the game.
type ActionResult struct {
	LogLine string
	Victory string // winning player id, empty while the game is running
}

// GameEngine orchestrates turns and actions over one GameState. It is the
// sole mutator of the state; the caller serializes all actions against a
// game instance. All cascading triggers resolve synchronously before an
// action call returns.
type GameEngine struct {
	logger   *zap.Logger
	cfg      Config
	state    *GameState
	registry *effects.Registry
	bus      *rules.EventBus
	triggers *rules.TriggerManager
	turns    *rules.TurnManager

	// triggerQueue holds firings produced by events during the current
	// action, drained breadth-first before control returns.
	triggerQueue []rules.Firing
	draining     bool
}

// NewGameEngine wires an engine over an existing state and a sealed
// effect registry. The registry is passed by reference, never reached
// through a package-level singleton.
func NewGameEngine(logger *zap.Logger, cfg Config, state *GameState, registry *effects.Registry) *GameEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &GameEngine{
		logger:   logger,
		cfg:      cfg,
		state:    state,
		registry: registry,
		bus:      rules.NewEventBus(),
		triggers: rules.NewTriggerManager(),
		turns:    rules.NewTurnManager(state.ActivePlayer),
	}
	e.turns.Restore(state.TurnNumber, state.Phase, state.ActivePlayer)
	e.bus.Subscribe(e.collectFirings)
	e.registerCardTriggers()
	return e
}

// State exposes the game state for read-only callers (views, snapshots).
func (e *GameEngine) State() *GameState {
	return e.state
}

// EventBus exposes the bus for boundary-layer observers.
func (e *GameEngine) EventBus() *rules.EventBus {
	return e.bus
}

// Begin grants the opening turn's CC and moves to the main phase. Called
// exactly once after construction for a fresh game.
func (e *GameEngine) Begin() error {
	if e.state.Phase != rules.PhaseStart {
		return invariantf("Begin called in phase %s", e.state.Phase)
	}
	e.startTurn()
	return nil
}

// registerCardTriggers installs every triggered effect of every card for
// the whole game. Conditions gate on the source's zone at fire time, so
// registration does not need to chase zone transitions.
func (e *GameEngine) registerCardTriggers() {
	for _, p := range e.state.Players {
		if p == nil {
			continue
		}
		for _, zone := range [][]*Card{p.Hand, p.InPlay, p.SleepZone} {
			for _, card := range zone {
				for _, eff := range e.registry.Effects(card.ID) {
					if eff.Kind == effects.KindTriggered {
						e.registerTrigger(card, eff)
					}
				}
			}
		}
	}
}

func (e *GameEngine) registerTrigger(card *Card, eff effects.Effect) {
	var (
		eventType rules.EventType
		condition func(rules.Event) bool
	)
	cardID := card.ID

	switch eff.Trigger {
	case effects.TriggerOnSleep:
		eventType = rules.EventCardSlept
		condition = func(evt rules.Event) bool {
			// Sleeping from hand never fires on-sleep effects.
			return evt.TargetID == cardID && evt.WasInPlay
		}
	case effects.TriggerOnTurnStart:
		eventType = rules.EventTurnStarted
		condition = func(evt rules.Event) bool {
			source, ok := e.state.FindCard(cardID)
			return ok && source.Zone == ZoneInPlay && source.Controller == evt.PlayerID
		}
	case effects.TriggerOnCardPlayed:
		eventType = rules.EventCardPlayed
		condition = func(evt rules.Event) bool {
			source, ok := e.state.FindCard(cardID)
			return ok && source.Zone == ZoneInPlay && evt.TargetID != cardID
		}
	default:
		e.logger.Warn("unknown trigger event", zap.String("trigger", string(eff.Trigger)))
		return
	}

	op := eff.Op
	e.triggers.Register(rules.AbilityTrigger{
		SourceID:  cardID,
		EventType: eventType,
		Condition: condition,
		Build: func(evt rules.Event) rules.Firing {
			return rules.Firing{
				SourceID:    cardID,
				Controller:  e.controllerOf(cardID),
				Description: eff.Description(),
				Resolve: func() error {
					controller := e.controllerOf(cardID)
					// A cascade never fails validation: it skips quietly
					// when its own target set is empty.
					return e.applyOneShot(op, controller, cardID, nil, true)
				},
			}
		},
	})
}

// controllerOf returns the current controller of a card, falling back to
// owner for cards outside play.
func (e *GameEngine) controllerOf(cardID string) string {
	if card, ok := e.state.FindCard(cardID); ok {
		return card.Controller
	}
	return ""
}

// collectFirings routes every published event through the trigger manager
// and enqueues the resulting firings.
func (e *GameEngine) collectFirings(evt rules.Event) {
	firings := e.triggers.Handle(evt)
	if len(firings) > 0 {
		e.triggerQueue = append(e.triggerQueue, firings...)
	}
}

// publish sends an event to the bus. Firings it produces are queued, not
// resolved inline; drainTriggerQueue runs them breadth-first.
func (e *GameEngine) publish(evt rules.Event) {
	e.bus.Publish(evt)
}

// drainTriggerQueue resolves queued firings in FIFO order. Firings may
// publish further events which enqueue more firings; the queue drains
// fully before returning, keeping cascade ordering deterministic.
func (e *GameEngine) drainTriggerQueue() {
	if e.draining {
		return
	}
	e.draining = true
	defer func() { e.draining = false }()

	for len(e.triggerQueue) > 0 {
		firing := e.triggerQueue[0]
		e.triggerQueue = e.triggerQueue[1:]
		if firing.Resolve == nil {
			continue
		}
		if err := firing.Resolve(); err != nil {
			// Cascades cannot fail validation by construction; anything
			// surfacing here is a programming bug worth shouting about.
			e.logger.Error("trigger cascade failed",
				zap.String("source_id", firing.SourceID),
				zap.String("description", firing.Description),
				zap.Error(err),
			)
		}
	}
}

// startTurn grants CC, fires start-of-turn triggers for the active
// player's in-play cards, and enters the main phase.
func (e *GameEngine) startTurn() {
	active, ok := e.state.ActivePlayerState()
	if !ok {
		e.logger.Error("active player missing", zap.String("player_id", e.state.ActivePlayer))
		return
	}

	grant := e.cfg.CCPerTurn
	if e.turns.TurnNumber() == 1 {
		grant = e.cfg.FirstTurnCC
	}

	record := CCTurnRecord{
		TurnNumber: e.turns.TurnNumber(),
		PlayerID:   active.ID,
		StartCC:    active.CommandCounters,
	}
	gained := e.gainCC(active, grant)
	record.GainedCC = gained
	e.state.CCLedger = append(e.state.CCLedger, record)

	e.state.appendLog("turn %d: %s gains %d CC", e.turns.TurnNumber(), active.Name, gained)
	e.logger.Info("turn started",
		zap.Int("turn", e.turns.TurnNumber()),
		zap.String("active_player", active.ID),
		zap.Int("cc", active.CommandCounters),
	)

	e.publish(rules.NewEventWithAmount(rules.EventTurnStarted, active.ID, "", active.ID, gained))
	e.drainTriggerQueue()

	e.state.Phase = e.turns.AdvancePhase("")
	e.publish(rules.NewEvent(rules.EventPhaseChanged, active.ID, "", active.ID))
}

// EndTurn expires turn-scoped modifications, resets the direct-attack
// counter, rotates the active player and starts their turn.
func (e *GameEngine) EndTurn(actingPlayerID string) (*ActionResult, error) {
	if e.state.Winner != "" {
		return nil, validationErrorf("the game is over")
	}
	if actingPlayerID != e.state.ActivePlayer {
		return nil, validationErrorf("it is not %s's turn", actingPlayerID)
	}

	active, _ := e.state.ActivePlayerState()
	opponent, ok := e.state.OpponentOf(actingPlayerID)
	if !ok {
		return nil, invariantf("no opponent for player %s", actingPlayerID)
	}

	turn := e.turns.TurnNumber()
	for _, card := range e.state.ToysInPlay() {
		card.expireModifications(turn)
	}
	active.DirectAttacksThisTurn = 0

	if n := len(e.state.CCLedger); n > 0 && e.state.CCLedger[n-1].TurnNumber == turn {
		e.state.CCLedger[n-1].EndCC = active.CommandCounters
	}

	e.state.Phase = e.turns.AdvancePhase("") // Main -> End
	e.publish(rules.NewEvent(rules.EventTurnEnded, active.ID, "", active.ID))
	e.state.appendLog("%s ends turn %d", active.Name, turn)

	e.state.Phase = e.turns.AdvancePhase(opponent.ID) // End -> next Start
	e.state.TurnNumber = e.turns.TurnNumber()
	e.state.ActivePlayer = e.turns.ActivePlayer()

	e.startTurn()
	e.state.TurnNumber = e.turns.TurnNumber()

	return e.result(), nil
}

// PlayCard validates and plays a card from the player's hand. Toys enter
// play; actions resolve their one-shot effects against the supplied
// targets and then sleep. altCostCardID, when set, pays the cost by
// sleeping that card instead of spending CC.
func (e *GameEngine) PlayCard(playerID, cardID string, targetIDs []string, altCostCardID string) (*ActionResult, error) {
	if e.state.Winner != "" {
		return nil, validationErrorf("the game is over")
	}
	if playerID != e.state.ActivePlayer {
		return nil, validationErrorf("it is not %s's turn", playerID)
	}
	if e.state.Phase != rules.PhaseMain {
		return nil, validationErrorf("cards can only be played in the main phase")
	}

	player, ok := e.state.PlayerByID(playerID)
	if !ok {
		return nil, validationErrorf("unknown player %s", playerID)
	}
	if !zoneContains(player.Hand, cardID) {
		return nil, validationErrorf("card %s is not in %s's hand", cardID, playerID)
	}
	card, _ := e.state.FindCard(cardID)

	cost := e.playCostFor(player, card)

	var altCostCard *Card
	if altCostCardID != "" {
		if altCostCardID == cardID {
			return nil, validationErrorf("a card cannot pay for itself")
		}
		alt, found := e.state.FindCard(altCostCardID)
		if !found {
			return nil, validationErrorf("alternative cost card %s not found", altCostCardID)
		}
		if alt.Zone == ZoneSleep {
			return nil, validationErrorf("alternative cost card is already asleep")
		}
		if alt.Owner != playerID {
			return nil, validationErrorf("alternative cost card is not owned by %s", playerID)
		}
		altCostCard = alt
	} else if player.CommandCounters < cost {
		return nil, validationErrorf("%s costs %d CC, %s has %d", card.Name, cost, playerID, player.CommandCounters)
	}

	// Validate targets for every targeted one-shot effect before any
	// mutation. Caller-supplied ids must be members of the effect's own
	// valid-target set; partial fills are legal, illegal ids are not.
	oneShots := e.oneShotEffectsOf(card)
	assignments, err := e.assignTargets(oneShots, targetIDs, playerID)
	if err != nil {
		return nil, err
	}

	// Commit.
	if altCostCard != nil {
		wasInPlay := altCostCard.Zone == ZoneInPlay
		e.state.appendLog("%s sleeps %s to pay for %s", player.Name, altCostCard.Name, card.Name)
		if err := e.sleepCard(altCostCard, wasInPlay); err != nil {
			return nil, err
		}
	} else {
		e.spendCC(player, cost)
	}

	player.Hand, _ = removeFromZone(player.Hand, cardID)

	switch card.Type {
	case TypeToy:
		card.Zone = ZoneInPlay
		card.Controller = playerID
		player.InPlay = append(player.InPlay, card)
		if err := e.verifyZoneInvariants(card); err != nil {
			return nil, err
		}
		e.state.appendLog("%s plays %s", player.Name, card.Name)
		for i, eff := range oneShots {
			if err := e.applyOneShot(eff.Op, playerID, card.ID, assignments[i], true); err != nil {
				return nil, err
			}
		}
	case TypeAction:
		// Put the action back long enough to keep zone bookkeeping
		// consistent: it resolves from hand, then sleeps without
		// firing on-sleep triggers.
		player.Hand = append(player.Hand, card)
		e.state.appendLog("%s plays %s", player.Name, card.Name)
		for i, eff := range oneShots {
			if err := e.applyOneShot(eff.Op, playerID, card.ID, assignments[i], true); err != nil {
				return nil, err
			}
		}
		if card.Zone == ZoneHand {
			if err := e.sleepCard(card, false); err != nil {
				return nil, err
			}
		}
	default:
		return nil, invariantf("card %s has unknown type %q", card.ID, card.Type)
	}

	e.publish(rules.NewEvent(rules.EventCardPlayed, card.ID, card.ID, playerID))
	e.drainTriggerQueue()
	return e.result(), nil
}

// DirectAttack sleeps a card from the opponent's hand. Legal only while
// the opponent has no toys in play, and capped per turn. The caller picks
// the hand card; when it names none, the first card in hand order sleeps.
func (e *GameEngine) DirectAttack(attackingCardID, actingPlayerID, opponentHandCardID string) (*ActionResult, error) {
	if e.state.Winner != "" {
		return nil, validationErrorf("the game is over")
	}
	if actingPlayerID != e.state.ActivePlayer {
		return nil, validationErrorf("it is not %s's turn", actingPlayerID)
	}
	if e.state.Phase != rules.PhaseMain {
		return nil, validationErrorf("direct attacks are only legal in the main phase")
	}

	acting, ok := e.state.PlayerByID(actingPlayerID)
	if !ok {
		return nil, validationErrorf("unknown player %s", actingPlayerID)
	}
	if acting.DirectAttacksThisTurn >= e.cfg.DirectAttackLimit {
		return nil, validationErrorf("direct attack limit of %d reached this turn", e.cfg.DirectAttackLimit)
	}

	attacker, ok := e.state.FindCard(attackingCardID)
	if !ok {
		return nil, validationErrorf("attacker %s not found", attackingCardID)
	}
	if attacker.Zone != ZoneInPlay || !attacker.IsToy() || attacker.Controller != actingPlayerID {
		return nil, validationErrorf("attacker must be a toy you control in play")
	}

	opponent, ok := e.state.OpponentOf(actingPlayerID)
	if !ok {
		return nil, invariantf("no opponent for player %s", actingPlayerID)
	}
	for _, c := range opponent.InPlay {
		if c.IsToy() {
			return nil, validationErrorf("opponent has toys in play")
		}
	}
	if len(opponent.Hand) == 0 {
		return nil, validationErrorf("opponent has no cards in hand")
	}

	target := opponent.Hand[0]
	if opponentHandCardID != "" {
		if !zoneContains(opponent.Hand, opponentHandCardID) {
			return nil, validationErrorf("card %s is not in the opponent's hand", opponentHandCardID)
		}
		target, _ = e.state.FindCard(opponentHandCardID)
	}

	acting.DirectAttacksThisTurn++
	e.state.appendLog("%s attacks %s directly", attacker.Name, opponent.Name)
	e.publish(rules.NewEvent(rules.EventDirectAttack, target.ID, attacker.ID, actingPlayerID))
	if err := e.sleepCard(target, false); err != nil {
		return nil, err
	}
	e.drainTriggerQueue()
	return e.result(), nil
}

// ActivateAbility pays an activated effect's CC cost and resolves its op.
func (e *GameEngine) ActivateAbility(playerID, cardID, effectID string, targetIDs []string) (*ActionResult, error) {
	if e.state.Winner != "" {
		return nil, validationErrorf("the game is over")
	}
	if playerID != e.state.ActivePlayer {
		return nil, validationErrorf("it is not %s's turn", playerID)
	}
	if e.state.Phase != rules.PhaseMain {
		return nil, validationErrorf("abilities can only be activated in the main phase")
	}

	player, ok := e.state.PlayerByID(playerID)
	if !ok {
		return nil, validationErrorf("unknown player %s", playerID)
	}
	source, ok := e.state.FindCard(cardID)
	if !ok {
		return nil, validationErrorf("card %s not found", cardID)
	}
	if source.Zone != ZoneInPlay || source.Controller != playerID {
		return nil, validationErrorf("ability source must be in play under your control")
	}

	eff, ok := e.registry.EffectByID(cardID, effectID)
	if !ok {
		return nil, validationErrorf("card %s has no effect %s", cardID, effectID)
	}
	if eff.Kind != effects.KindActivated {
		return nil, validationErrorf("effect %s is not activatable", effectID)
	}
	if player.CommandCounters < eff.ActivationCost {
		return nil, validationErrorf("activation costs %d CC, %s has %d", eff.ActivationCost, playerID, player.CommandCounters)
	}

	valid := e.ValidTargetsFor(eff, playerID)
	if err := validateTargetSubset(targetIDs, valid, eff.Op.TargetCount()); err != nil {
		return nil, err
	}

	e.spendCC(player, eff.ActivationCost)
	e.state.appendLog("%s activates %s", player.Name, source.Name)
	e.publish(rules.NewEvent(rules.EventAbilityActivated, cardID, cardID, playerID))
	if err := e.applyOneShot(eff.Op, playerID, cardID, targetIDs, true); err != nil {
		return nil, err
	}
	e.drainTriggerQueue()
	return e.result(), nil
}

// checkVictory ends the game the instant a player's full card set is
// asleep. Called after every sleep-causing event.
func (e *GameEngine) checkVictory() {
	if e.state.Winner != "" {
		return
	}
	for _, p := range e.state.Players {
		if p == nil {
			continue
		}
		if len(p.SleepZone) >= len(p.OwnedCardIDs) && len(p.OwnedCardIDs) > 0 {
			winner, ok := e.state.OpponentOf(p.ID)
			if !ok {
				return
			}
			e.state.Winner = winner.ID
			e.state.appendLog("%s wins: all of %s's cards are asleep", winner.Name, p.Name)
			e.logger.Info("game over",
				zap.String("game_id", e.state.GameID),
				zap.String("winner", winner.ID),
			)
			e.publish(rules.NewEvent(rules.EventGameOver, p.ID, "", winner.ID))
			return
		}
	}
}

// gainCC grants CC up to the cap, returning the amount actually gained.
func (e *GameEngine) gainCC(player *Player, amount int) int {
	if amount <= 0 {
		return 0
	}
	before := player.CommandCounters
	player.CommandCounters += amount
	if player.CommandCounters > e.cfg.CCMax {
		player.CommandCounters = e.cfg.CCMax
	}
	gained := player.CommandCounters - before
	if gained > 0 {
		e.publish(rules.NewEventWithAmount(rules.EventCCGained, player.ID, "", player.ID, gained))
	}
	return gained
}

func (e *GameEngine) spendCC(player *Player, amount int) {
	if amount <= 0 {
		return
	}
	player.CommandCounters -= amount
	if player.CommandCounters < 0 {
		// Affordability is validated before every spend.
		e.logger.Error("CC went negative", zap.String("player_id", player.ID))
		player.CommandCounters = 0
	}
	e.publish(rules.NewEventWithAmount(rules.EventCCSpent, player.ID, "", player.ID, amount))
}

// result packages the latest log line and the victory signal.
func (e *GameEngine) result() *ActionResult {
	res := &ActionResult{Victory: e.state.Winner}
	if n := len(e.state.Log); n > 0 {
		res.LogLine = e.state.Log[n-1]
	}
	return res
}

// oneShotEffectsOf returns the card's one-shot effects in definition order.
func (e *GameEngine) oneShotEffectsOf(card *Card) []effects.Effect {
	var out []effects.Effect
	for _, eff := range e.registry.Effects(card.ID) {
		if eff.Kind == effects.KindOneShot {
			out = append(out, eff)
		}
	}
	return out
}

// assignTargets splits a flat caller-supplied target list across the
// card's one-shot effects in order, validating each id against the
// owning effect's valid-target set. Fewer targets than an effect's upper
// bound is legal; an id outside the valid set never is.
func (e *GameEngine) assignTargets(oneShots []effects.Effect, targetIDs []string, playerID string) ([][]string, error) {
	assignments := make([][]string, len(oneShots))
	remaining := targetIDs

	for i, eff := range oneShots {
		want := eff.Op.TargetCount()
		if want == 0 {
			continue
		}
		take := want
		if take > len(remaining) {
			take = len(remaining)
		}
		chosen := remaining[:take]
		remaining = remaining[take:]

		valid := e.ValidTargetsFor(eff, playerID)
		if err := validateTargetSubset(chosen, valid, want); err != nil {
			return nil, err
		}
		assignments[i] = chosen
	}

	if len(remaining) > 0 {
		return nil, validationErrorf("%d surplus targets supplied", len(remaining))
	}
	return assignments, nil
}

func validateTargetSubset(chosen, valid []string, limit int) error {
	if len(chosen) > limit {
		return validationErrorf("too many targets: effect takes at most %d", limit)
	}
	seen := make(map[string]bool, len(chosen))
	for _, id := range chosen {
		if seen[id] {
			return validationErrorf("duplicate target %s", id)
		}
		seen[id] = true
		found := false
		for _, v := range valid {
			if v == id {
				found = true
				break
			}
		}
		if !found {
			return validationErrorf("target %s is not a legal target for this effect", id)
		}
	}
	return nil
}
