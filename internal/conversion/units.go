package conversion

// Unit identifies a measurement unit. The unit families are closed sets;
// there is no dynamic extension.
type Unit string

const (
	// Weight
	UnitGram     Unit = "gram"
	UnitKilogram Unit = "kilogram"
	UnitTola     Unit = "tola"
	UnitPound    Unit = "pound"
	UnitOunce    Unit = "ounce"

	// Volume
	UnitMl         Unit = "ml"
	UnitLiter      Unit = "liter"
	UnitGallon     Unit = "gallon"
	UnitFluidOunce Unit = "fluid_ounce"
	UnitCup        Unit = "cup"

	// Count
	UnitPiece Unit = "piece"
	UnitDozen Unit = "dozen"
	UnitBox   Unit = "box"
	UnitCase  Unit = "case"
)

// Family groups units that convert between each other without density
type Family string

const (
	FamilyWeight Family = "weight"
	FamilyVolume Family = "volume"
	FamilyCount  Family = "count"
)

// GramsPerTola is the fixed tola constant used across the standard table
const GramsPerTola = 11.66

// Rules is the conversion-rules table injected into the engine at
// construction; there is no package-level mutable state.
type Rules struct {
	factors  map[Unit]map[Unit]float64
	families map[Unit]Family
	pivots   []Unit
}

// DefaultRules builds the standard factor table: every non-canonical unit
// maps to its family's canonical unit (gram, ml, piece).
func DefaultRules() *Rules {
	r := &Rules{
		factors:  map[Unit]map[Unit]float64{},
		families: map[Unit]Family{},
		pivots:   []Unit{UnitGram, UnitMl, UnitPiece},
	}

	weight := map[Unit]float64{
		UnitKilogram: 1000,
		UnitTola:     GramsPerTola,
		UnitPound:    453.592,
		UnitOunce:    28.3495,
	}
	volume := map[Unit]float64{
		UnitLiter:      1000,
		UnitGallon:     3785.41,
		UnitFluidOunce: 29.5735,
		UnitCup:        240,
	}
	// Box and case are fixed packaging assumptions: 10 and 100 pieces
	count := map[Unit]float64{
		UnitDozen: 12,
		UnitBox:   10,
		UnitCase:  100,
	}

	r.families[UnitGram] = FamilyWeight
	for unit, factor := range weight {
		r.families[unit] = FamilyWeight
		r.addFactor(unit, UnitGram, factor)
	}
	r.families[UnitMl] = FamilyVolume
	for unit, factor := range volume {
		r.families[unit] = FamilyVolume
		r.addFactor(unit, UnitMl, factor)
	}
	r.families[UnitPiece] = FamilyCount
	for unit, factor := range count {
		r.families[unit] = FamilyCount
		r.addFactor(unit, UnitPiece, factor)
	}

	return r
}

func (r *Rules) addFactor(from, to Unit, factor float64) {
	if r.factors[from] == nil {
		r.factors[from] = map[Unit]float64{}
	}
	r.factors[from][to] = factor
}

// Factor returns the tabulated factor for from -> to, if any
func (r *Rules) Factor(from, to Unit) (float64, bool) {
	factor, ok := r.factors[from][to]
	return factor, ok
}

// Family returns the family a unit belongs to
func (r *Rules) Family(u Unit) (Family, bool) {
	family, ok := r.families[u]
	return family, ok
}

// Canonical returns the family's pivot unit (gram, ml or piece)
func (r *Rules) Canonical(family Family) Unit {
	switch family {
	case FamilyWeight:
		return UnitGram
	case FamilyVolume:
		return UnitMl
	default:
		return UnitPiece
	}
}

// Known reports whether the unit appears in the table
func (r *Rules) Known(u Unit) bool {
	_, ok := r.families[u]
	return ok
}
