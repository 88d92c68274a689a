package state

import "github.com/ec4x/engine/internal/id"

// --- House -----------------------------------------------------------------

func (s *GameState) GetHouse(hid id.HouseId) (House, bool) { return s.Houses.Get(hid) }

// PutHouse stores h, the only write path for House records.
func (s *GameState) PutHouse(h House) { s.Houses.Put(h.ID, h) }

// MutateHouse fetches h, applies fn to a local copy, and writes it back.
func (s *GameState) MutateHouse(hid id.HouseId, fn func(*House)) bool {
	h, ok := s.Houses.Get(hid)
	if !ok {
		return false
	}
	fn(&h)
	s.PutHouse(h)
	return true
}

// --- System ------------------------------------------------------------------

func (s *GameState) GetSystem(sid id.SystemId) (System, bool) { return s.Systems.Get(sid) }
func (s *GameState) PutSystem(sys System)                     { s.Systems.Put(sys.ID, sys) }

// --- Colony ------------------------------------------------------------------

func (s *GameState) GetColony(cid id.ColonyId) (Colony, bool) { return s.Colonies.Get(cid) }

// PutColony stores c and keeps ColoniesByOwner in sync: it looks up the
// prior owner (if any) and re-indexes only when ownership actually changed.
func (s *GameState) PutColony(c Colony) {
	if prior, ok := s.Colonies.Get(c.ID); ok && prior.Owner != c.Owner {
		s.ColoniesByOwner.Remove(prior.Owner, c.ID)
	}
	s.Colonies.Put(c.ID, c)
	s.ColoniesByOwner.Add(c.Owner, c.ID)
	s.ColonyBySystem[c.SystemID] = c.ID
}

// ColonyAtSystem returns the colony located at sys, if any.
func (s *GameState) ColonyAtSystem(sys id.SystemId) (Colony, bool) {
	cid, ok := s.ColonyBySystem[sys]
	if !ok {
		return Colony{}, false
	}
	return s.GetColony(cid)
}

func (s *GameState) MutateColony(cid id.ColonyId, fn func(*Colony)) bool {
	c, ok := s.Colonies.Get(cid)
	if !ok {
		return false
	}
	fn(&c)
	s.PutColony(c)
	return true
}

// DestroyColony is used only for defensive bookkeeping (colonies are not
// normally destroyed, only reassigned); it scrubs every index first.
func (s *GameState) DestroyColony(cid id.ColonyId) {
	if c, ok := s.Colonies.Get(cid); ok {
		s.ColoniesByOwner.Remove(c.Owner, cid)
		delete(s.ColonyBySystem, c.SystemID)
	}
	s.Colonies.Delete(cid)
}

// --- Neoria / Kastra -----------------------------------------------------

func (s *GameState) GetNeoria(nid id.NeoriaId) (Neoria, bool) { return s.Neorias.Get(nid) }
func (s *GameState) PutNeoria(n Neoria)                       { s.Neorias.Put(n.ID, n) }
func (s *GameState) DestroyNeoria(nid id.NeoriaId)            { s.Neorias.Delete(nid) }

func (s *GameState) GetKastra(kid id.KastraId) (Kastra, bool) { return s.Kastras.Get(kid) }
func (s *GameState) PutKastra(k Kastra)                       { s.Kastras.Put(k.ID, k) }
func (s *GameState) DestroyKastra(kid id.KastraId)            { s.Kastras.Delete(kid) }

// --- Ship --------------------------------------------------------------------

func (s *GameState) GetShip(sid id.ShipId) (Ship, bool) { return s.Ships.Get(sid) }
func (s *GameState) PutShip(sh Ship)                    { s.Ships.Put(sh.ID, sh) }

func (s *GameState) MutateShip(sid id.ShipId, fn func(*Ship)) bool {
	sh, ok := s.Ships.Get(sid)
	if !ok {
		return false
	}
	fn(&sh)
	s.PutShip(sh)
	return true
}

// DestroyShip removes a ship record outright (no secondary index of its own;
// callers are responsible for removing it from its squadron/fleet membership).
func (s *GameState) DestroyShip(sid id.ShipId) { s.Ships.Delete(sid) }

// --- Squadron ----------------------------------------------------------------

func (s *GameState) GetSquadron(qid id.SquadronId) (Squadron, bool) { return s.Squadrons.Get(qid) }

func (s *GameState) PutSquadron(q Squadron) {
	if prior, ok := s.Squadrons.Get(q.ID); ok && prior.Owner != q.Owner {
		s.SquadronsByOwner.Remove(prior.Owner, q.ID)
	}
	s.Squadrons.Put(q.ID, q)
	s.SquadronsByOwner.Add(q.Owner, q.ID)
}

func (s *GameState) MutateSquadron(qid id.SquadronId, fn func(*Squadron)) bool {
	q, ok := s.Squadrons.Get(qid)
	if !ok {
		return false
	}
	fn(&q)
	s.PutSquadron(q)
	return true
}

// DestroySquadron scrubs q from SquadronsByOwner before removing it and its
// member ships from their tables (spec.md §3.3: "Destroyed entities are
// removed from primary and secondary indices within the phase that
// destroys them").
func (s *GameState) DestroySquadron(qid id.SquadronId) {
	q, ok := s.Squadrons.Get(qid)
	if !ok {
		return
	}
	s.SquadronsByOwner.Remove(q.Owner, qid)
	s.DestroyShip(q.Flagship)
	for _, e := range q.Escorts {
		s.DestroyShip(e)
	}
	s.Squadrons.Delete(qid)
}

// --- Fleet -------------------------------------------------------------------

func (s *GameState) GetFleet(fid id.FleetId) (Fleet, bool) { return s.Fleets.Get(fid) }

// PutFleet stores f and keeps FleetsByOwner/FleetsByLocation in sync.
func (s *GameState) PutFleet(f Fleet) {
	if prior, ok := s.Fleets.Get(f.ID); ok {
		if prior.Owner != f.Owner {
			s.FleetsByOwner.Remove(prior.Owner, f.ID)
		}
		if prior.Location != f.Location {
			s.FleetsByLocation.Remove(prior.Location, f.ID)
		}
	}
	s.Fleets.Put(f.ID, f)
	s.FleetsByOwner.Add(f.Owner, f.ID)
	s.FleetsByLocation.Add(f.Location, f.ID)
}

func (s *GameState) MutateFleet(fid id.FleetId, fn func(*Fleet)) bool {
	f, ok := s.Fleets.Get(fid)
	if !ok {
		return false
	}
	fn(&f)
	s.PutFleet(f)
	return true
}

// DestroyFleet scrubs f from both fleet indices and removes every squadron
// (and transitively every ship) it owns, plus any unescorted spacelift
// ships, before deleting the record.
func (s *GameState) DestroyFleet(fid id.FleetId) {
	f, ok := s.Fleets.Get(fid)
	if !ok {
		return
	}
	s.FleetsByOwner.Remove(f.Owner, fid)
	s.FleetsByLocation.Remove(f.Location, fid)
	for _, qid := range f.Squadrons {
		s.DestroySquadron(qid)
	}
	for _, sid := range f.SpaceliftShips {
		s.DestroyShip(sid)
	}
	s.Fleets.Delete(fid)
}

// DestroyFleetShallow removes only the fleet record and its indices,
// leaving member squadrons/ships untouched. Used when a fleet is absorbed
// into another via a rendezvous merge (spec.md §4.6) rather than destroyed.
func (s *GameState) DestroyFleetShallow(fid id.FleetId) {
	f, ok := s.Fleets.Get(fid)
	if !ok {
		return
	}
	s.FleetsByOwner.Remove(f.Owner, fid)
	s.FleetsByLocation.Remove(f.Location, fid)
	s.Fleets.Delete(fid)
}

// --- ConstructionProject -------------------------------------------------

func (s *GameState) GetConstructionProject(pid id.ConstructionProjectId) (ConstructionProject, bool) {
	return s.ConstructionProjects.Get(pid)
}

func (s *GameState) PutConstructionProject(p ConstructionProject) {
	if prior, ok := s.ConstructionProjects.Get(p.ID); ok {
		if prior.HostNeoria != nil {
			s.ProjectsByFacility.Remove(*prior.HostNeoria, p.ID)
		}
		if prior.ColonyID != p.ColonyID {
			s.ProjectsByColony.Remove(prior.ColonyID, p.ID)
		}
	}
	s.ConstructionProjects.Put(p.ID, p)
	s.ProjectsByColony.Add(p.ColonyID, p.ID)
	if p.HostNeoria != nil {
		s.ProjectsByFacility.Add(*p.HostNeoria, p.ID)
	}
}

func (s *GameState) MutateConstructionProject(pid id.ConstructionProjectId, fn func(*ConstructionProject)) bool {
	p, ok := s.ConstructionProjects.Get(pid)
	if !ok {
		return false
	}
	fn(&p)
	s.PutConstructionProject(p)
	return true
}

func (s *GameState) DestroyConstructionProject(pid id.ConstructionProjectId) {
	p, ok := s.ConstructionProjects.Get(pid)
	if !ok {
		return
	}
	s.ProjectsByColony.Remove(p.ColonyID, pid)
	if p.HostNeoria != nil {
		s.ProjectsByFacility.Remove(*p.HostNeoria, pid)
	}
	s.ConstructionProjects.Delete(pid)
}

// --- RepairProject -----------------------------------------------------------

func (s *GameState) GetRepairProject(rid id.RepairProjectId) (RepairProject, bool) {
	return s.RepairProjects.Get(rid)
}
func (s *GameState) PutRepairProject(r RepairProject)    { s.RepairProjects.Put(r.ID, r) }
func (s *GameState) DestroyRepairProject(rid id.RepairProjectId) { s.RepairProjects.Delete(rid) }

// --- Diplomacy -----------------------------------------------------------------

func (s *GameState) GetRelation(a, b id.HouseId) (DiplomaticRelation, bool) {
	r, ok := s.Diplomacy[NormalizeHousePair(a, b)]
	return r.Clone(), ok
}

func (s *GameState) PutRelation(r DiplomaticRelation) {
	s.Diplomacy[r.Pair] = r.Clone()
}

// --- Intelligence --------------------------------------------------------------

// ReportsFor returns house's full, owned slice of intelligence reports.
func (s *GameState) ReportsFor(house id.HouseId) []IntelligenceReport {
	reports := s.Intel[house]
	out := make([]IntelligenceReport, len(reports))
	for i, r := range reports {
		out[i] = r.Clone()
	}
	return out
}

// PutReport upserts a report for (house, subject system XOR subject house),
// matching on whichever subject key is non-nil.
func (s *GameState) PutReport(house id.HouseId, r IntelligenceReport) {
	reports := s.Intel[house]
	for i, existing := range reports {
		if sameSubject(existing, r) {
			reports[i] = r.Clone()
			s.Intel[house] = reports
			return
		}
	}
	s.Intel[house] = append(reports, r.Clone())
}

func sameSubject(a, b IntelligenceReport) bool {
	if a.SubjectSystem != nil && b.SubjectSystem != nil {
		return *a.SubjectSystem == *b.SubjectSystem
	}
	if a.SubjectHouse != nil && b.SubjectHouse != nil {
		return *a.SubjectHouse == *b.SubjectHouse
	}
	return false
}

// --- Prestige ------------------------------------------------------------------

// AppendPrestige records ev and applies its amount to the subject house's
// running Prestige total, recomputing the derived morale band.
func (s *GameState) AppendPrestige(ev PrestigeEvent) {
	s.PrestigeLog = append(s.PrestigeLog, ev)
	s.MutateHouse(ev.House, func(h *House) {
		h.Prestige += ev.Amount
		h.Morale = DeriveMorale(h.Prestige)
	})
}

// DeriveMorale buckets total prestige into the five morale bands.
func DeriveMorale(prestige int) MoraleBand {
	switch {
	case prestige >= 500:
		return MoraleJubilant
	case prestige >= 150:
		return MoraleContent
	case prestige >= 0:
		return MoraleUneasy
	case prestige >= -150:
		return MoraleRestless
	default:
		return MoraleMutinous
	}
}
