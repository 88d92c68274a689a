// Package packet defines the per-house, per-turn command bundle the
// orchestrator consumes during the Command Phase (spec.md §6.2) and applies
// each of its items against GameState, emitting OrderAccepted/OrderRejected
// per item without aborting the rest of the packet.
package packet

import (
	"github.com/google/uuid"

	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/diplomacy"
	"github.com/ec4x/engine/internal/economy"
	"github.com/ec4x/engine/internal/espionage"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

// AdminCommandKind is the closed set of zero-turn fleet/ship reorganization
// commands (spec.md §6.2, "ordered list of zero-turn admin commands").
type AdminCommandKind string

const (
	AdminDetachShip      AdminCommandKind = "detach_ship"
	AdminTransferShip    AdminCommandKind = "transfer_ship"
	AdminMergeFleets     AdminCommandKind = "merge_fleets"
	AdminLoadCargo       AdminCommandKind = "load_cargo"
	AdminUnloadCargo     AdminCommandKind = "unload_cargo"
	AdminAssignSquadron  AdminCommandKind = "assign_squadron"
	AdminLoadFighters    AdminCommandKind = "load_fighters"
)

// AdminCommand is one zero-turn reorganization action.
type AdminCommand struct {
	Kind         AdminCommandKind
	SourceFleet  id.FleetId
	TargetFleet  id.FleetId
	Ship         id.ShipId
	Squadron     id.SquadronId
	CargoType    string
	Quantity     int
}

// FleetCommand assigns an order (from the 20-order table) to one fleet, or
// updates its standing order (spec.md §6.2).
type FleetCommand struct {
	Fleet          id.FleetId
	Order          *state.FleetOrder
	StandingUpdate *state.StandingOrder
}

// DiplomaticAction is one relation-transition request (spec.md §4.10).
type DiplomaticAction struct {
	Kind   string // "declare_war", "propose_nap", "break_nap", "sign_peace", "form_alliance", "break_alliance"
	Target id.HouseId
}

// CommandPacket is one house's full turn submission (spec.md §6.2).
type CommandPacket struct {
	Token  uuid.UUID // idempotency/correlation token; carried for the transport layer, not checked for repeats by this module
	Turn   int
	House  id.HouseId

	AdminCommands   []AdminCommand
	BuildCommands   []economy.BuildRequest
	FleetCommands   []FleetCommand
	StandingUpdates []FleetCommand
	TaxRate         *int
	ResearchAlloc   map[state.TechField]int
	EspionageSpend  int
	MissionOrders   []espionage.MissionOrder
	DiplomaticActions []DiplomaticAction
}

// NewToken mints a fresh idempotency token. The caller stamps it onto a
// packet before submission; the transport layer (out of scope here) is
// responsible for persisting seen tokens across retries.
func NewToken() uuid.UUID { return uuid.New() }

// Apply validates and applies every item in p against st, in the order
// spec.md §6.2 specifies, rejecting individual items without aborting the
// rest of the packet. It returns every accepted build project; each one has
// already been enqueued by economy.ValidateAndCommit.
func Apply(st *state.GameState, cfg *config.Config, ledger *economy.Ledger, turn int, p CommandPacket, log *event.Log) []state.ConstructionProject {
	if p.Turn != turn || p.House.IsZero() {
		reject(log, turn, "packet", "turn/house mismatch")
		return nil
	}

	for _, cmd := range p.AdminCommands {
		applyAdminCommand(st, turn, p.House, cmd, log)
	}

	var accepted []state.ConstructionProject
	for _, req := range p.BuildCommands {
		proj, ok := economy.ValidateAndCommit(st, cfg, ledger, turn, p.House, req, log)
		if ok {
			accepted = append(accepted, proj)
		}
	}

	for _, fc := range p.FleetCommands {
		applyFleetCommand(st, turn, p.House, fc, log)
	}
	for _, fc := range p.StandingUpdates {
		applyStandingUpdate(st, turn, p.House, fc, log)
	}

	if p.TaxRate != nil {
		rate := *p.TaxRate
		st.MutateHouse(p.House, func(h *state.House) { h.TaxRate = rate })
	}

	if len(p.ResearchAlloc) > 0 {
		st.MutateHouse(p.House, func(h *state.House) {
			if h.PendingResearch == nil {
				h.PendingResearch = map[state.TechField]int{}
			}
			for field, amount := range p.ResearchAlloc {
				h.PendingResearch[field] += amount
				h.Treasury -= amount
			}
		})
	}

	if p.EspionageSpend > 0 {
		st.MutateHouse(p.House, func(h *state.House) {
			h.PendingEspionageSpend += p.EspionageSpend
			h.Treasury -= p.EspionageSpend
		})
	}

	for _, mo := range p.MissionOrders {
		mo.Actor = p.House
		applyMissionDispatch(st, cfg, turn, mo, log)
	}

	for _, da := range p.DiplomaticActions {
		applyDiplomaticAction(st, cfg, turn, p.House, da, log)
	}

	return accepted
}

func reject(log *event.Log, turn int, item, reason string) {
	if log == nil {
		return
	}
	log.Emit(turn, event.PhaseCommand, event.KindOrderRejected, map[string]any{"item": item, "reason": reason})
}

func accept(log *event.Log, turn int, item string, fields map[string]any) {
	if log == nil {
		return
	}
	if fields == nil {
		fields = map[string]any{}
	}
	fields["item"] = item
	log.Emit(turn, event.PhaseCommand, event.KindOrderAccepted, fields)
}

func applyAdminCommand(st *state.GameState, turn int, owner id.HouseId, cmd AdminCommand, log *event.Log) {
	switch cmd.Kind {
	case AdminDetachShip:
		detachShip(st, owner, cmd, log, turn)
	case AdminTransferShip:
		transferShip(st, owner, cmd, log, turn)
	case AdminMergeFleets:
		mergeFleets(st, owner, cmd, log, turn)
	case AdminLoadCargo:
		setCargo(st, owner, cmd, log, turn, true)
	case AdminUnloadCargo:
		setCargo(st, owner, cmd, log, turn, false)
	case AdminAssignSquadron:
		assignSquadron(st, owner, cmd, log, turn)
	case AdminLoadFighters:
		loadFighters(st, owner, cmd, log, turn)
	default:
		reject(log, turn, string(cmd.Kind), "unknown admin command")
	}
}

func detachShip(st *state.GameState, owner id.HouseId, cmd AdminCommand, log *event.Log, turn int) {
	f, ok := st.GetFleet(cmd.SourceFleet)
	if !ok || f.Owner != owner {
		reject(log, turn, string(cmd.Kind), "fleet not found or not owned")
		return
	}
	nf := state.Fleet{
		ID: st.Allocator.NewFleetId(), Owner: owner, Location: f.Location,
		Status: state.FleetActive, SpaceliftShips: []id.ShipId{cmd.Ship},
	}
	f.SpaceliftShips = removeShipID(f.SpaceliftShips, cmd.Ship)
	st.PutFleet(f)
	st.PutFleet(nf)
	accept(log, turn, string(cmd.Kind), map[string]any{"new_fleet": nf.ID})
}

func removeShipID(ships []id.ShipId, target id.ShipId) []id.ShipId {
	out := make([]id.ShipId, 0, len(ships))
	for _, s := range ships {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}

func transferShip(st *state.GameState, owner id.HouseId, cmd AdminCommand, log *event.Log, turn int) {
	src, ok := st.GetFleet(cmd.SourceFleet)
	if !ok || src.Owner != owner {
		reject(log, turn, string(cmd.Kind), "source fleet not found or not owned")
		return
	}
	dst, ok := st.GetFleet(cmd.TargetFleet)
	if !ok || dst.Owner != owner || dst.Location != src.Location {
		reject(log, turn, string(cmd.Kind), "target fleet not found, not owned, or not co-located")
		return
	}
	src.SpaceliftShips = removeShipID(src.SpaceliftShips, cmd.Ship)
	dst.SpaceliftShips = append(dst.SpaceliftShips, cmd.Ship)
	st.PutFleet(src)
	st.PutFleet(dst)
	accept(log, turn, string(cmd.Kind), nil)
}

func mergeFleets(st *state.GameState, owner id.HouseId, cmd AdminCommand, log *event.Log, turn int) {
	src, ok := st.GetFleet(cmd.SourceFleet)
	if !ok || src.Owner != owner {
		reject(log, turn, string(cmd.Kind), "source fleet not found or not owned")
		return
	}
	dst, ok := st.GetFleet(cmd.TargetFleet)
	if !ok || dst.Owner != owner || dst.Location != src.Location {
		reject(log, turn, string(cmd.Kind), "target fleet not found, not owned, or not co-located")
		return
	}
	dst.Squadrons = append(dst.Squadrons, src.Squadrons...)
	dst.SpaceliftShips = append(dst.SpaceliftShips, src.SpaceliftShips...)
	st.PutFleet(dst)
	st.DestroyFleetShallow(src.ID)
	accept(log, turn, string(cmd.Kind), map[string]any{"survivor": dst.ID})
}

func setCargo(st *state.GameState, owner id.HouseId, cmd AdminCommand, log *event.Log, turn int, loading bool) {
	sh, ok := st.GetShip(cmd.Ship)
	if !ok || sh.Owner != owner {
		reject(log, turn, string(cmd.Kind), "ship not found or not owned")
		return
	}
	st.MutateShip(cmd.Ship, func(s *state.Ship) {
		if loading {
			s.Cargo = &state.CargoHold{CargoType: cmd.CargoType, Quantity: cmd.Quantity}
		} else {
			s.Cargo = nil
		}
	})
	accept(log, turn, string(cmd.Kind), nil)
}

func assignSquadron(st *state.GameState, owner id.HouseId, cmd AdminCommand, log *event.Log, turn int) {
	q, ok := st.GetSquadron(cmd.Squadron)
	if !ok || q.Owner != owner {
		reject(log, turn, string(cmd.Kind), "squadron not found or not owned")
		return
	}
	f, ok := st.GetFleet(cmd.TargetFleet)
	if !ok || f.Owner != owner || f.Location != q.Location {
		reject(log, turn, string(cmd.Kind), "target fleet not found, not owned, or not co-located")
		return
	}
	f.Squadrons = append(f.Squadrons, cmd.Squadron)
	st.PutFleet(f)
	accept(log, turn, string(cmd.Kind), nil)
}

func loadFighters(st *state.GameState, owner id.HouseId, cmd AdminCommand, log *event.Log, turn int) {
	carrier, ok := st.GetShip(cmd.Ship)
	if !ok || carrier.Owner != owner {
		reject(log, turn, string(cmd.Kind), "carrier not found or not owned")
		return
	}
	q, ok := st.GetSquadron(cmd.Squadron)
	if !ok || q.Owner != owner {
		reject(log, turn, string(cmd.Kind), "fighter squadron not found or not owned")
		return
	}
	fighters := append([]id.ShipId{q.Flagship}, q.Escorts...)
	st.MutateShip(cmd.Ship, func(s *state.Ship) { s.Embarked = append(s.Embarked, fighters...) })
	st.DestroySquadron(cmd.Squadron)
	accept(log, turn, string(cmd.Kind), map[string]any{"carrier": cmd.Ship, "fighters": len(fighters)})
}

func applyFleetCommand(st *state.GameState, turn int, owner id.HouseId, fc FleetCommand, log *event.Log) {
	f, ok := st.GetFleet(fc.Fleet)
	if !ok || f.Owner != owner {
		reject(log, turn, "fleet_order", "fleet not found or not owned")
		return
	}
	if fc.Order == nil {
		reject(log, turn, "fleet_order", "no order supplied")
		return
	}
	order := *fc.Order
	st.MutateFleet(fc.Fleet, func(mf *state.Fleet) { mf.Order = &order })
	accept(log, turn, "fleet_order", map[string]any{"fleet": fc.Fleet, "kind": string(order.Kind)})
}

func applyStandingUpdate(st *state.GameState, turn int, owner id.HouseId, fc FleetCommand, log *event.Log) {
	f, ok := st.GetFleet(fc.Fleet)
	if !ok || f.Owner != owner {
		reject(log, turn, "standing_order", "fleet not found or not owned")
		return
	}
	if fc.StandingUpdate == nil {
		reject(log, turn, "standing_order", "no standing order supplied")
		return
	}
	standing := *fc.StandingUpdate
	st.MutateFleet(fc.Fleet, func(mf *state.Fleet) { mf.Standing = &standing })
	accept(log, turn, "standing_order", map[string]any{"fleet": fc.Fleet})
}

func applyMissionDispatch(st *state.GameState, cfg *config.Config, turn int, mo espionage.MissionOrder, log *event.Log) {
	// Mission resolution needs an RNG sub-stream derived from the turn
	// seed; the orchestrator's Command Phase owns that service and calls
	// espionage.ResolveMission directly with it. Apply only validates that
	// the actor has enough EBP banked and stages the order; the
	// orchestrator drains staged orders after Apply returns.
	h, ok := st.GetHouse(mo.Actor)
	rule, ruleOK := cfg.Espionage[string(mo.Kind)]
	if !ok || !ruleOK || h.EBP < rule.EBPCost {
		reject(log, turn, "espionage_order", "insufficient EBP or unknown mission kind")
		return
	}
	st.MutateHouse(mo.Actor, func(house *state.House) { house.EBP -= rule.EBPCost })
	accept(log, turn, "espionage_order", map[string]any{"kind": string(mo.Kind), "target": mo.Target})
}

func applyDiplomaticAction(st *state.GameState, cfg *config.Config, turn int, actor id.HouseId, da DiplomaticAction, log *event.Log) {
	var err error
	switch da.Kind {
	case "declare_war":
		err = diplomacy.DeclareWar(st, cfg, turn, actor, da.Target, log)
	case "propose_nap":
		err = diplomacy.ProposeNAP(st, turn, actor, da.Target, log)
	case "break_nap":
		err = diplomacy.BreakNAP(st, cfg, turn, actor, da.Target, log)
	case "sign_peace":
		err = diplomacy.SignPeace(st, turn, actor, da.Target, log)
	case "form_alliance":
		err = diplomacy.FormAlliance(st, turn, actor, da.Target, log)
	case "break_alliance":
		err = diplomacy.BreakAlliance(st, cfg, turn, actor, da.Target, log)
	default:
		reject(log, turn, "diplomatic_action", "unknown action kind")
		return
	}
	if err != nil {
		reject(log, turn, "diplomatic_action", err.Error())
		return
	}
	accept(log, turn, "diplomatic_action", map[string]any{"kind": da.Kind, "target": da.Target})
}
