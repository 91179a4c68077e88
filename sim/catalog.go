package sim

import "fmt"

// FacilityKind tags the three operable facility variants.
type FacilityKind string

const (
	KindGame       FacilityKind = "game"
	KindRestaurant FacilityKind = "restaurant"
	KindRestroom   FacilityKind = "restroom"
)

// facilityKindOrder is the per-tick processing order. Money and notification
// timing depend on it.
var facilityKindOrder = [...]FacilityKind{KindGame, KindRestaurant, KindRestroom}

// Size is an object's footprint in tiles.
type Size struct {
	W int `yaml:"w" json:"w"`
	H int `yaml:"h" json:"h"`
}

// FacilitySpec is the catalog entry a facility is built from.
type FacilitySpec struct {
	Kind            FacilityKind `yaml:"kind"`
	Size            Size         `yaml:"size"`
	Price           int          `yaml:"price"`             // build price; maintenance is a tenth of it
	Capacity        int          `yaml:"capacity"`          // guests served at once
	MinUsagePercent int          `yaml:"min_usage_percent"` // games: batch threshold as % of capacity
	Duration        int          `yaml:"duration"`          // ticks per service
	UsagePrice      int          `yaml:"usage_price"`       // ticket or food price per guest
	Happiness       int          `yaml:"happiness"`         // games: happiness gained per ride
}

// PlantSpec is the catalog entry for decorative greenery.
type PlantSpec struct {
	Size      Size `yaml:"size"`
	Price     int  `yaml:"price"`
	Radius    int  `yaml:"radius"`    // reach beyond the footprint, in tiles
	Happiness int  `yaml:"happiness"` // bonus per tick to nearby guests
}

// Catalog maps placeable object names to their specs. Prices and timings
// come from here; the simulator never invents them.
type Catalog struct {
	Facilities map[string]FacilitySpec `yaml:"facilities"`
	Plants     map[string]PlantSpec    `yaml:"plants"`
}

// DefaultCatalog returns the stock set of placeable objects.
func DefaultCatalog() Catalog {
	return Catalog{
		Facilities: map[string]FacilitySpec{
			"carousel":        {Kind: KindGame, Size: Size{W: 2, H: 2}, Price: 3000, Capacity: 10, MinUsagePercent: 50, Duration: 5, UsagePrice: 20, Happiness: 15},
			"ferris-wheel":    {Kind: KindGame, Size: Size{W: 3, H: 3}, Price: 6000, Capacity: 16, MinUsagePercent: 40, Duration: 8, UsagePrice: 30, Happiness: 20},
			"bumper-cars":     {Kind: KindGame, Size: Size{W: 3, H: 2}, Price: 4500, Capacity: 8, MinUsagePercent: 75, Duration: 4, UsagePrice: 25, Happiness: 18},
			"roller-coaster":  {Kind: KindGame, Size: Size{W: 4, H: 3}, Price: 12000, Capacity: 20, MinUsagePercent: 60, Duration: 10, UsagePrice: 50, Happiness: 35},
			"hot-dog-stand":   {Kind: KindRestaurant, Size: Size{W: 1, H: 1}, Price: 800, Capacity: 2, Duration: 3, UsagePrice: 8},
			"ice-cream":       {Kind: KindRestaurant, Size: Size{W: 1, H: 1}, Price: 900, Capacity: 2, Duration: 2, UsagePrice: 6},
			"pizzeria":        {Kind: KindRestaurant, Size: Size{W: 2, H: 2}, Price: 2500, Capacity: 6, Duration: 6, UsagePrice: 15},
			"buffet":          {Kind: KindRestaurant, Size: Size{W: 3, H: 2}, Price: 4000, Capacity: 10, Duration: 8, UsagePrice: 25},
			"restroom":        {Kind: KindRestroom, Size: Size{W: 1, H: 1}, Price: 500, Capacity: 2, Duration: 2, UsagePrice: 1},
			"deluxe-restroom": {Kind: KindRestroom, Size: Size{W: 2, H: 1}, Price: 1200, Capacity: 4, Duration: 2, UsagePrice: 3},
		},
		Plants: map[string]PlantSpec{
			"bush": {Size: Size{W: 1, H: 1}, Price: 50, Radius: 1, Happiness: 1},
			"tree": {Size: Size{W: 2, H: 2}, Price: 150, Radius: 2, Happiness: 2},
		},
	}
}

// Validate checks every entry for values the tick engine cannot run with.
func (c Catalog) Validate() error {
	for name, spec := range c.Facilities {
		if name == KindRoad {
			return fmt.Errorf("catalog entry %q shadows the road kind", name)
		}
		switch spec.Kind {
		case KindGame, KindRestaurant, KindRestroom:
		default:
			return fmt.Errorf("facility %q: unknown kind %q", name, spec.Kind)
		}
		if spec.Size.W <= 0 || spec.Size.H <= 0 {
			return fmt.Errorf("facility %q: size must be positive, got %dx%d", name, spec.Size.W, spec.Size.H)
		}
		if spec.Capacity <= 0 {
			return fmt.Errorf("facility %q: capacity must be positive, got %d", name, spec.Capacity)
		}
		if spec.Duration <= 0 {
			return fmt.Errorf("facility %q: duration must be positive, got %d", name, spec.Duration)
		}
		if spec.MinUsagePercent < 0 || spec.MinUsagePercent > 100 {
			return fmt.Errorf("facility %q: min_usage_percent must be in [0, 100], got %d", name, spec.MinUsagePercent)
		}
	}
	for name, spec := range c.Plants {
		if _, clash := c.Facilities[name]; clash || name == KindRoad {
			return fmt.Errorf("plant %q clashes with another catalog entry", name)
		}
		if spec.Size.W <= 0 || spec.Size.H <= 0 {
			return fmt.Errorf("plant %q: size must be positive, got %dx%d", name, spec.Size.W, spec.Size.H)
		}
		if spec.Radius < 0 {
			return fmt.Errorf("plant %q: radius must be non-negative, got %d", name, spec.Radius)
		}
	}
	return nil
}
