// Package id defines the engine's strongly-typed, opaque entity identifiers.
//
// Every identifier wraps the same 12-byte representation bson.ObjectID uses
// (the corpus's usual on-wire id shape) but is constructed deterministically
// by an Allocator rather than bson.NewObjectID's wall-clock+random scheme —
// the determinism contract in spec.md §6.4 forbids any id whose bytes depend
// on anything but allocation order.
package id

import (
	"bytes"
	"encoding/binary"
	"sort"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Kind tags which entity table an id was allocated from, encoded into the
// id's leading byte so two tables can never collide even if their counters
// happen to coincide.
type Kind byte

const (
	KindHouse Kind = iota + 1
	KindSystem
	KindColony
	KindFleet
	KindSquadron
	KindShip
	KindNeoria
	KindKastra
	KindConstructionProject
	KindRepairProject
)

// Allocator hands out monotonically increasing ids per Kind. It is part of
// GameState and is never reset mid-game; ids are never reused.
type Allocator struct {
	counters map[Kind]uint64
}

// NewAllocator returns an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{counters: make(map[Kind]uint64)}
}

// Clone deep-copies the allocator so GameState snapshots never share counters.
func (a *Allocator) Clone() *Allocator {
	out := &Allocator{counters: make(map[Kind]uint64, len(a.counters))}
	for k, v := range a.counters {
		out.counters[k] = v
	}
	return out
}

// next returns the raw bytes for the next id of the given kind.
func (a *Allocator) next(k Kind) bson.ObjectID {
	a.counters[k]++
	var raw bson.ObjectID
	raw[0] = byte(k)
	binary.BigEndian.PutUint64(raw[4:12], a.counters[k])
	return raw
}

// Count returns how many ids of kind k have been allocated so far.
func (a *Allocator) Count(k Kind) uint64 {
	return a.counters[k]
}

func less(a, b [12]byte) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// salt folds an id's 12 raw bytes into a 64-bit value suitable as RNG seed
// salt material (internal/rng derives combat/detection sub-streams from it).
func salt(b [12]byte) uint64 {
	return binary.BigEndian.Uint64(b[0:8]) ^ uint64(binary.BigEndian.Uint32(b[8:12]))
}

// HouseId identifies a House. Zero value is never a valid allocated id.
type HouseId bson.ObjectID

func (a *Allocator) NewHouseId() HouseId { return HouseId(a.next(KindHouse)) }
func (h HouseId) IsZero() bool          { return bson.ObjectID(h).IsZero() }
func (h HouseId) String() string        { return bson.ObjectID(h).Hex() }
func (h HouseId) Less(o HouseId) bool   { return less(h, o) }
func (h HouseId) Salt() uint64          { return salt(h) }

// SystemId identifies a System (map node).
type SystemId bson.ObjectID

func (a *Allocator) NewSystemId() SystemId { return SystemId(a.next(KindSystem)) }
func (s SystemId) IsZero() bool            { return bson.ObjectID(s).IsZero() }
func (s SystemId) String() string          { return bson.ObjectID(s).Hex() }
func (s SystemId) Less(o SystemId) bool    { return less(s, o) }
func (s SystemId) Salt() uint64            { return salt(s) }

// ColonyId identifies a Colony.
type ColonyId bson.ObjectID

func (a *Allocator) NewColonyId() ColonyId { return ColonyId(a.next(KindColony)) }
func (c ColonyId) IsZero() bool            { return bson.ObjectID(c).IsZero() }
func (c ColonyId) String() string          { return bson.ObjectID(c).Hex() }
func (c ColonyId) Less(o ColonyId) bool    { return less(c, o) }

// FleetId identifies a Fleet.
type FleetId bson.ObjectID

func (a *Allocator) NewFleetId() FleetId { return FleetId(a.next(KindFleet)) }
func (f FleetId) IsZero() bool           { return bson.ObjectID(f).IsZero() }
func (f FleetId) String() string         { return bson.ObjectID(f).Hex() }
func (f FleetId) Less(o FleetId) bool    { return less(f, o) }
func (f FleetId) Salt() uint64           { return salt(f) }

// SquadronId identifies a Squadron.
type SquadronId bson.ObjectID

func (a *Allocator) NewSquadronId() SquadronId { return SquadronId(a.next(KindSquadron)) }
func (s SquadronId) IsZero() bool              { return bson.ObjectID(s).IsZero() }
func (s SquadronId) String() string            { return bson.ObjectID(s).Hex() }
func (s SquadronId) Less(o SquadronId) bool    { return less(s, o) }

// ShipId identifies a Ship.
type ShipId bson.ObjectID

func (a *Allocator) NewShipId() ShipId { return ShipId(a.next(KindShip)) }
func (s ShipId) IsZero() bool          { return bson.ObjectID(s).IsZero() }
func (s ShipId) String() string        { return bson.ObjectID(s).Hex() }
func (s ShipId) Less(o ShipId) bool    { return less(s, o) }

// NeoriaId identifies a facility (Spaceport/Shipyard/Drydock).
type NeoriaId bson.ObjectID

func (a *Allocator) NewNeoriaId() NeoriaId { return NeoriaId(a.next(KindNeoria)) }
func (n NeoriaId) IsZero() bool            { return bson.ObjectID(n).IsZero() }
func (n NeoriaId) String() string          { return bson.ObjectID(n).Hex() }
func (n NeoriaId) Less(o NeoriaId) bool    { return less(n, o) }

// KastraId identifies a starbase.
type KastraId bson.ObjectID

func (a *Allocator) NewKastraId() KastraId { return KastraId(a.next(KindKastra)) }
func (k KastraId) IsZero() bool            { return bson.ObjectID(k).IsZero() }
func (k KastraId) String() string          { return bson.ObjectID(k).Hex() }
func (k KastraId) Less(o KastraId) bool    { return less(k, o) }

// ConstructionProjectId identifies a ConstructionProject.
type ConstructionProjectId bson.ObjectID

func (a *Allocator) NewConstructionProjectId() ConstructionProjectId {
	return ConstructionProjectId(a.next(KindConstructionProject))
}
func (c ConstructionProjectId) IsZero() bool         { return bson.ObjectID(c).IsZero() }
func (c ConstructionProjectId) String() string       { return bson.ObjectID(c).Hex() }
func (c ConstructionProjectId) Less(o ConstructionProjectId) bool { return less(c, o) }

// RepairProjectId identifies a RepairProject.
type RepairProjectId bson.ObjectID

func (a *Allocator) NewRepairProjectId() RepairProjectId {
	return RepairProjectId(a.next(KindRepairProject))
}
func (r RepairProjectId) IsZero() bool         { return bson.ObjectID(r).IsZero() }
func (r RepairProjectId) String() string       { return bson.ObjectID(r).Hex() }
func (r RepairProjectId) Less(o RepairProjectId) bool { return less(r, o) }

// Sortable is implemented by every id type above; Sort canonicalizes
// iteration order wherever RNG consumption or event accumulation depends on
// it (spec.md §6.4, §9 "Deterministic iteration").
type Sortable[T any] interface {
	Less(T) bool
}

// Sort sorts a slice of ids in canonical (ascending) order in place.
func Sort[T Sortable[T]](s []T) {
	sort.Slice(s, func(i, j int) bool { return s[i].Less(s[j]) })
}
