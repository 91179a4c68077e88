// Tracks park-wide counters such as guest throughput, services per facility
// kind, breakdowns, and money flows.

package sim

import "fmt"

// Metrics aggregates statistics about the park for final reporting.
// Useful for evaluating a layout and debugging behavior over time.
type Metrics struct {
	GuestsSpawned     int                  `yaml:"guests_spawned" json:"guests_spawned"`         // Guests that entered the park
	GuestsExited      int                  `yaml:"guests_exited" json:"guests_exited"`           // Guests that walked out
	Services          map[FacilityKind]int `yaml:"services" json:"services"`                     // Completed service cycles per kind
	Breakdowns        int                  `yaml:"breakdowns" json:"breakdowns"`                 // Facilities that broke
	Repairs           int                  `yaml:"repairs" json:"repairs"`                       // Facilities brought back to Ready
	DispatchFailures  int                  `yaml:"dispatch_failures" json:"dispatch_failures"`   // Repair requests with no employee to send
	EntranceRevenue   int                  `yaml:"entrance_revenue" json:"entrance_revenue"`     // Entrance fees collected
	UsageRevenue      int                  `yaml:"usage_revenue" json:"usage_revenue"`           // Tickets and food sold
	MaintenanceCharge int                  `yaml:"maintenance_charge" json:"maintenance_charge"` // Upkeep deducted
	PeakGuests        int                  `yaml:"peak_guests" json:"peak_guests"`               // Max guests simultaneously in the park
	TicksSimulated    int64                `yaml:"ticks_simulated" json:"ticks_simulated"`       // Running ticks executed
}

// NewMetrics creates a Metrics with initialized maps.
func NewMetrics() *Metrics {
	return &Metrics{Services: make(map[FacilityKind]int)}
}

func (m *Metrics) clone() Metrics {
	cp := *m
	cp.Services = make(map[FacilityKind]int, len(m.Services))
	for k, v := range m.Services {
		cp.Services[k] = v
	}
	return cp
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print(money, reputation int) {
	fmt.Println("=== Park Metrics ===")
	fmt.Printf("Ticks Simulated      : %d\n", m.TicksSimulated)
	fmt.Printf("Guests Spawned       : %d\n", m.GuestsSpawned)
	fmt.Printf("Guests Exited        : %d\n", m.GuestsExited)
	fmt.Printf("Peak Guests          : %d\n", m.PeakGuests)
	for _, kind := range facilityKindOrder {
		fmt.Printf("Services (%-10s) : %d\n", kind, m.Services[kind])
	}
	fmt.Printf("Breakdowns           : %d\n", m.Breakdowns)
	fmt.Printf("Repairs              : %d\n", m.Repairs)
	fmt.Printf("Dispatch Failures    : %d\n", m.DispatchFailures)
	fmt.Printf("Entrance Revenue     : %d\n", m.EntranceRevenue)
	fmt.Printf("Usage Revenue        : %d\n", m.UsageRevenue)
	fmt.Printf("Maintenance Charged  : %d\n", m.MaintenanceCharge)
	fmt.Printf("Final Money          : %d\n", money)
	fmt.Printf("Final Reputation     : %d\n", reputation)
}
