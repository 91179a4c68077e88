package sim

import (
	"fmt"
	"math"

	"github.com/parksim/parksim/sim/road"
)

// FacilityStatus is the operating state of a facility.
type FacilityStatus string

const (
	FacilityReady     FacilityStatus = "ready"
	FacilityServing   FacilityStatus = "serving"
	FacilityBroken    FacilityStatus = "broken"
	FacilityRepairing FacilityStatus = "repairing"
)

// Facility is a placed, operable structure: a game, restaurant or restroom.
// The variant is Kind; the timing and price fields are interpreted per kind
// (play time and ticket price for games, serve time and food price for
// restaurants, visit time and fee for restrooms).
type Facility struct {
	ID              int            `yaml:"id" json:"id"`
	Name            string         `yaml:"name" json:"name"` // catalog entry
	Kind            FacilityKind   `yaml:"kind" json:"kind"`
	Position        road.Tile      `yaml:"position" json:"position"` // top-left footprint tile
	Size            Size           `yaml:"size" json:"size"`
	Status          FacilityStatus `yaml:"status" json:"status"`
	HealthPercent   int            `yaml:"health_percent" json:"health_percent"`
	ServeCapacity   int            `yaml:"serve_capacity" json:"serve_capacity"`
	Serving         int            `yaml:"serving" json:"serving"`
	MinUsagePercent int            `yaml:"min_usage_percent" json:"min_usage_percent"`
	Duration        int            `yaml:"duration" json:"duration"`
	UsagePrice      int            `yaml:"usage_price" json:"usage_price"`
	Happiness       int            `yaml:"happiness" json:"happiness"`
	Price           int            `yaml:"price" json:"price"`
	Janitor         int            `yaml:"janitor" json:"janitor"` // assigned employee index, or -1
	Waiting         *WaitQueue     `yaml:"-" json:"-"`
}

// NewFacility builds a Ready, fully healthy facility from a catalog entry.
func NewFacility(id int, name string, spec FacilitySpec, at road.Tile) *Facility {
	return &Facility{
		ID:              id,
		Name:            name,
		Kind:            spec.Kind,
		Position:        at,
		Size:            spec.Size,
		Status:          FacilityReady,
		HealthPercent:   100,
		ServeCapacity:   spec.Capacity,
		MinUsagePercent: spec.MinUsagePercent,
		Duration:        spec.Duration,
		UsagePrice:      spec.UsagePrice,
		Happiness:       spec.Happiness,
		Price:           spec.Price,
		Janitor:         -1,
		Waiting:         NewWaitQueue(),
	}
}

func (f *Facility) String() string {
	return fmt.Sprintf("%s#%d(%s at %s, %s, health=%d, waiting=%s)",
		f.Kind, f.ID, f.Name, f.Position, f.Status, f.HealthPercent, f.Waiting)
}

// Footprint returns the tiles the facility covers, row by row.
func (f *Facility) Footprint() []road.Tile {
	return footprint(f.Position, f.Size)
}

// Covers reports whether t lies inside the footprint.
func (f *Facility) Covers(t road.Tile) bool {
	return covers(f.Position, f.Size, t)
}

// out reports whether the facility cannot serve.
func (f *Facility) out() bool {
	return f.Status == FacilityBroken || f.Status == FacilityRepairing
}

// batchThreshold is the number of waiting guests a game needs before it runs.
func (f *Facility) batchThreshold() int {
	return max(1, f.ServeCapacity*f.MinUsagePercent/100)
}

// servingStatus is the guest status while inside this kind of facility.
func (f *Facility) servingStatus() GuestStatus {
	switch f.Kind {
	case KindGame:
		return GuestPlaying
	case KindRestaurant:
		return GuestEating
	case KindRestroom:
		return GuestUsingRestroom
	}
	panic(fmt.Sprintf("facility %d has unknown kind %q", f.ID, f.Kind))
}

// serve applies the facility's effect to a guest leaving it.
func (f *Facility) serve(g *Guest) {
	switch f.Kind {
	case KindGame:
		g.Happiness = clampMeter(g.Happiness + f.Happiness)
	case KindRestaurant:
		g.Hunger /= 2
	case KindRestroom:
		g.Toilet = 0
	}
	g.Money -= f.UsagePrice
}

// maintenance is the periodic upkeep charged while the facility is Ready:
// a tenth of the build price, halves rounded to even.
func (f *Facility) maintenance() int {
	return int(math.RoundToEven(float64(f.Price) / 10))
}

// Plant is decorative greenery that cheers up nearby guests.
type Plant struct {
	ID        int       `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	Position  road.Tile `yaml:"position" json:"position"`
	Size      Size      `yaml:"size" json:"size"`
	Radius    int       `yaml:"radius" json:"radius"`
	Happiness int       `yaml:"happiness" json:"happiness"`
}

// Reaches reports whether a guest standing on t is within the plant's area.
func (p *Plant) Reaches(t road.Tile) bool {
	return t.X >= p.Position.X-p.Radius && t.X < p.Position.X+p.Radius+p.Size.W &&
		t.Y >= p.Position.Y-p.Radius && t.Y < p.Position.Y+p.Radius+p.Size.H
}

func footprint(at road.Tile, size Size) []road.Tile {
	tiles := make([]road.Tile, 0, size.W*size.H)
	for dy := 0; dy < size.H; dy++ {
		for dx := 0; dx < size.W; dx++ {
			tiles = append(tiles, at.Offset(dx, dy))
		}
	}
	return tiles
}

func covers(at road.Tile, size Size, t road.Tile) bool {
	return t.X >= at.X && t.X < at.X+size.W && t.Y >= at.Y && t.Y < at.Y+size.H
}
