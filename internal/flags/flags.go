// Package flags maps named boolean flags to the integer bitmasks used on the
// ledger, in both directions, scoped by entity (transaction type or ledger object).
package flags

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
)

// ErrUnknownFlag is returned by Build for a name the entity does not define.
var ErrUnknownFlag = errors.New("unknown flag")

// Entity selects a flag table.
type Entity string

// Transaction entities
const (
	Universal           Entity = "Universal"
	Payment             Entity = "Payment"
	TrustSet            Entity = "TrustSet"
	AccountSet          Entity = "AccountSet"
	OfferCreate         Entity = "OfferCreate"
	PaymentChannelClaim Entity = "PaymentChannelClaim"
)

// Ledger object entities
const (
	AccountRoot Entity = "AccountRoot"
	RippleState Entity = "RippleState"
	Offer       Entity = "Offer"
)

// Set is a parsed bitmask. Unknown holds bits the entity has no name for, so a
// parse/build round trip never loses them.
type Set struct {
	Named   map[string]bool
	Unknown uint32
}

// Has reports whether the named flag is set.
func (s Set) Has(name string) bool {
	return s.Named[name]
}

// Enabled returns the names of all set flags, sorted.
func (s Set) Enabled() []string {
	names := make([]string, 0, len(s.Named))
	for name, on := range s.Named {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Parse splits mask into the entity's named flags. Every name in the entity's
// table is present in the result. Parse never fails.
func Parse(entity Entity, mask uint32) Set {
	t := lookup(entity)
	set := Set{Named: make(map[string]bool, len(t.byName))}
	var known uint32
	for name, bit := range t.byName {
		set.Named[name] = mask&bit != 0
		known |= bit
	}
	set.Unknown = mask &^ known
	return set
}

// Build combines the set's enabled flags and unknown bits into a bitmask.
func Build(entity Entity, set Set) (uint32, error) {
	t := lookup(entity)
	mask := set.Unknown
	for name, on := range set.Named {
		bit, ok := t.byName[name]
		if !ok {
			return 0, fmt.Errorf("%w: %s has no flag %q", ErrUnknownFlag, entity, name)
		}
		if on {
			mask |= bit
		}
	}
	return mask, nil
}

// Mask returns the OR of the named flags' bits.
func Mask(entity Entity, names ...string) (uint32, error) {
	set := Set{Named: make(map[string]bool, len(names))}
	for _, name := range names {
		set.Named[name] = true
	}
	return Build(entity, set)
}

// Bit returns the bit for a single named flag.
func Bit(entity Entity, name string) (uint32, bool) {
	bit, ok := lookup(entity).byName[name]
	return bit, ok
}

// Names returns the flag names defined for an entity, sorted.
func Names(entity Entity) []string {
	t := lookup(entity)
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether the entity has a flag table.
func Known(entity Entity) bool {
	_, ok := tables[entity]
	return ok
}

// Describe renders a mask as its set flag names plus any unknown bits in hex.
func Describe(entity Entity, mask uint32) []string {
	set := Parse(entity, mask)
	out := set.Enabled()
	for rest := set.Unknown; rest != 0; rest &= rest - 1 {
		out = append(out, fmt.Sprintf("0x%08X", uint32(1)<<bits.TrailingZeros32(rest)))
	}
	return out
}

// lookup returns the entity table, falling back to the universal flags for
// transaction types without a dedicated table.
func lookup(entity Entity) *table {
	if t, ok := tables[entity]; ok {
		return t
	}
	return tables[Universal]
}
