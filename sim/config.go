package sim

import "fmt"

// ParkConfig groups the park-wide tunables. Durations and intervals are in ticks.
type ParkConfig struct {
	StartMoney       int  `yaml:"start_money"`       // funds at park creation
	GameOverMoney    int  `yaml:"game_over_money"`   // funds strictly below this end the game
	EntranceFee      int  `yaml:"entrance_fee"`      // credited per spawned guest
	EmployeePrice    int  `yaml:"employee_price"`    // charged per hired employee
	RoadPrice        int  `yaml:"road_price"`        // charged per road tile
	GuestStartMoney  int  `yaml:"guest_start_money"` // wallet of a fresh guest
	SpawnInterval    int  `yaml:"spawn_interval"`    // unconditional spawn every N ticks (0 = off)
	RandomArrivals   bool `yaml:"random_arrivals"`   // reputation-driven spawns on other ticks
	WaitingSoftCap   int  `yaml:"waiting_soft_cap"`  // guests skip facilities with this many waiting
	NeedThreshold    int  `yaml:"need_threshold"`    // hunger/toilet above this may steer a guest
	UnhappyThreshold int  `yaml:"unhappy_threshold"` // hunger/toilet above this cost happiness
	HealthDecay      int  `yaml:"health_decay"`      // health lost per completed service
	BrokenBelow      int  `yaml:"broken_below"`      // health below this breaks a facility
	RepairTicks      int  `yaml:"repair_ticks"`      // time an employee spends repairing
	MaintenanceEvery int  `yaml:"maintenance_every"` // maintenance is charged every N ticks
	GridWidth        int  `yaml:"grid_width"`        // placement bounds
	GridHeight       int  `yaml:"grid_height"`       // placement bounds
	Debug            bool `yaml:"debug"`             // panic on invariant violations
}

// DefaultParkConfig returns the stock park settings.
func DefaultParkConfig() ParkConfig {
	return ParkConfig{
		StartMoney:       100000,
		GameOverMoney:    -20000,
		EntranceFee:      50,
		EmployeePrice:    2000,
		RoadPrice:        10,
		GuestStartMoney:  1000,
		SpawnInterval:    10,
		RandomArrivals:   true,
		WaitingSoftCap:   20,
		NeedThreshold:    30,
		UnhappyThreshold: 60,
		HealthDecay:      2,
		BrokenBelow:      5,
		RepairTicks:      20,
		MaintenanceEvery: 60,
		GridWidth:        64,
		GridHeight:       64,
	}
}

// Validate rejects settings the tick engine cannot run with.
func (c ParkConfig) Validate() error {
	if c.SpawnInterval < 0 {
		return fmt.Errorf("spawn_interval must be non-negative, got %d", c.SpawnInterval)
	}
	if c.WaitingSoftCap <= 0 {
		return fmt.Errorf("waiting_soft_cap must be positive, got %d", c.WaitingSoftCap)
	}
	if c.HealthDecay < 0 || c.HealthDecay > 100 {
		return fmt.Errorf("health_decay must be in [0, 100], got %d", c.HealthDecay)
	}
	if c.BrokenBelow < 0 || c.BrokenBelow > 100 {
		return fmt.Errorf("broken_below must be in [0, 100], got %d", c.BrokenBelow)
	}
	if c.RepairTicks <= 0 {
		return fmt.Errorf("repair_ticks must be positive, got %d", c.RepairTicks)
	}
	if c.MaintenanceEvery <= 0 {
		return fmt.Errorf("maintenance_every must be positive, got %d", c.MaintenanceEvery)
	}
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("grid must be non-empty, got %dx%d", c.GridWidth, c.GridHeight)
	}
	for name, v := range map[string]int{"need_threshold": c.NeedThreshold, "unhappy_threshold": c.UnhappyThreshold} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s must be in [0, 100], got %d", name, v)
		}
	}
	return nil
}
