package conversion

// MaterialCategory tags a material with its broad class
type MaterialCategory string

const (
	CategoryOudOil     MaterialCategory = "oud_oil"
	CategoryPerfumeOil MaterialCategory = "perfume_oil"
	CategoryAlcohol    MaterialCategory = "alcohol"
	CategoryWaterBased MaterialCategory = "water_based"
	CategoryCarrierOil MaterialCategory = "carrier_oil"
)

// IsValid checks if the material category is valid
func (c MaterialCategory) IsValid() bool {
	switch c {
	case CategoryOudOil, CategoryPerfumeOil, CategoryAlcohol, CategoryWaterBased, CategoryCarrierOil:
		return true
	default:
		return false
	}
}

// Material is read-only reference data for density-mediated conversions.
// Density is g/ml at the 20°C baseline.
type Material struct {
	ID                     string
	Name                   string
	NameArabic             string
	Category               MaterialCategory
	Density                float64
	Viscosity              *float64
	TemperatureCoefficient *float64 // fractional density change per °C
	Grade                  string
	Origin                 string
}

// Catalog is a typed lookup over the material reference data
type Catalog struct {
	byID  map[string]Material
	order []string
}

// NewCatalog builds a catalog from a fixed material list
func NewCatalog(materials []Material) *Catalog {
	c := &Catalog{byID: map[string]Material{}}
	for _, m := range materials {
		c.byID[m.ID] = m
		c.order = append(c.order, m.ID)
	}
	return c
}

// Get returns the material with the given id
func (c *Catalog) Get(id string) (Material, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// List returns all materials in catalog order
func (c *Catalog) List() []Material {
	materials := make([]Material, 0, len(c.order))
	for _, id := range c.order {
		materials = append(materials, c.byID[id])
	}
	return materials
}

func floatPtr(f float64) *float64 { return &f }

// DefaultCatalog holds the reference densities used on the shop floor
func DefaultCatalog() *Catalog {
	return NewCatalog([]Material{
		{
			ID:                     "oud-cambodi",
			Name:                   "Cambodi Oud Oil",
			NameArabic:             "دهن عود كمبودي",
			Category:               CategoryOudOil,
			Density:                0.97,
			Viscosity:              floatPtr(42.0),
			TemperatureCoefficient: floatPtr(-0.0007),
			Grade:                  "super",
			Origin:                 "Cambodia",
		},
		{
			ID:                     "oud-hindi",
			Name:                   "Hindi Oud Oil",
			NameArabic:             "دهن عود هندي",
			Category:               CategoryOudOil,
			Density:                0.975,
			Viscosity:              floatPtr(48.0),
			TemperatureCoefficient: floatPtr(-0.0007),
			Grade:                  "double super",
			Origin:                 "India",
		},
		{
			ID:                     "musk-blend",
			Name:                   "White Musk Blend",
			NameArabic:             "مسك أبيض",
			Category:               CategoryPerfumeOil,
			Density:                0.92,
			TemperatureCoefficient: floatPtr(-0.0008),
			Origin:                 "UAE",
		},
		{
			ID:                     "rose-taifi",
			Name:                   "Taifi Rose Oil",
			NameArabic:             "ورد طائفي",
			Category:               CategoryPerfumeOil,
			Density:                0.895,
			TemperatureCoefficient: floatPtr(-0.0008),
			Grade:                  "first press",
			Origin:                 "Saudi Arabia",
		},
		{
			ID:                     "perfumers-alcohol",
			Name:                   "Perfumer's Alcohol",
			NameArabic:             "كحول عطري",
			Category:               CategoryAlcohol,
			Density:                0.789,
			TemperatureCoefficient: floatPtr(-0.0011),
		},
		{
			ID:         "rose-water",
			Name:       "Rose Water",
			NameArabic: "ماء ورد",
			Category:   CategoryWaterBased,
			Density:    0.998,
		},
		{
			ID:                     "jojoba-carrier",
			Name:                   "Jojoba Carrier Oil",
			NameArabic:             "زيت الجوجوبا",
			Category:               CategoryCarrierOil,
			Density:                0.863,
			TemperatureCoefficient: floatPtr(-0.0009),
		},
	})
}
