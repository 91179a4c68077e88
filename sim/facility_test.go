package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parksim/parksim/sim/road"
)

func TestFacility_BatchThreshold(t *testing.T) {
	tests := []struct {
		capacity, minPercent, want int
	}{
		{10, 50, 5},
		{10, 0, 1},
		{3, 10, 1},
		{4, 100, 4},
		{7, 60, 4},
	}
	for _, tt := range tests {
		f := &Facility{ServeCapacity: tt.capacity, MinUsagePercent: tt.minPercent}
		assert.Equal(t, tt.want, f.batchThreshold(), "capacity=%d min=%d%%", tt.capacity, tt.minPercent)
	}
}

func TestFacility_FootprintAndCovers(t *testing.T) {
	f := NewFacility(1, "big-ride", testCatalog().Facilities["big-ride"], road.T(2, 3))

	assert.Equal(t, []road.Tile{road.T(2, 3), road.T(3, 3), road.T(2, 4), road.T(3, 4)}, f.Footprint())
	assert.True(t, f.Covers(road.T(3, 4)))
	assert.False(t, f.Covers(road.T(4, 3)))
	assert.False(t, f.Covers(road.T(2, 2)))
}

func TestFacility_Maintenance_RoundsTenthOfPrice(t *testing.T) {
	assert.Equal(t, 10, (&Facility{Price: 100}).maintenance())
	assert.Equal(t, 0, (&Facility{Price: 5}).maintenance(), "half rounds to even")
	assert.Equal(t, 2, (&Facility{Price: 15}).maintenance())
	assert.Equal(t, 2, (&Facility{Price: 25}).maintenance())
	assert.Equal(t, 4, (&Facility{Price: 35}).maintenance())
	assert.Equal(t, 1, (&Facility{Price: 6}).maintenance())
	assert.Equal(t, 0, (&Facility{Price: 4}).maintenance())
	assert.Equal(t, 1200, (&Facility{Price: 12000}).maintenance())
}

func TestFacility_ServingStatusByKind(t *testing.T) {
	assert.Equal(t, GuestPlaying, (&Facility{Kind: KindGame}).servingStatus())
	assert.Equal(t, GuestEating, (&Facility{Kind: KindRestaurant}).servingStatus())
	assert.Equal(t, GuestUsingRestroom, (&Facility{Kind: KindRestroom}).servingStatus())
	assert.Panics(t, func() { (&Facility{Kind: "volcano"}).servingStatus() })
}

func TestFacility_String_IncludesStatus(t *testing.T) {
	f := NewFacility(7, "swing", testCatalog().Facilities["swing"], road.T(1, 1))
	assert.Contains(t, f.String(), "ready")
	assert.Contains(t, f.String(), "swing")
}

func TestPlant_Reaches(t *testing.T) {
	p := &Plant{Position: road.T(5, 5), Size: Size{W: 2, H: 2}, Radius: 1}

	assert.True(t, p.Reaches(road.T(4, 4)))
	assert.True(t, p.Reaches(road.T(7, 7)))
	assert.False(t, p.Reaches(road.T(8, 5)))
	assert.False(t, p.Reaches(road.T(5, 3)))
}

func TestAgent_RouteHelpers(t *testing.T) {
	a := &Agent{Position: road.T(0, 0)}
	a.setRoute([]road.Tile{road.T(0, 0), road.T(1, 0)}, 4)

	assert.Equal(t, road.T(1, 0), a.Target)
	assert.True(t, a.routesThrough(road.T(1, 0)))
	a.step()
	a.step()
	assert.Equal(t, road.T(1, 0), a.Position)
	assert.False(t, a.routesThrough(road.T(1, 0)))

	a.clearRoute()
	assert.True(t, a.Target.IsUnset())
	assert.Equal(t, -1, a.TargetID)
}
