package server

// WorldConfig controls world generation and agent population. The zero value
// is not usable directly; call Normalized or start from DefaultWorldConfig.
type WorldConfig struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Seed          string  `json:"seed"`
	TreeCount     int     `json:"treeCount"`
	RockCount     int     `json:"rockCount"`
	HouseCount    int     `json:"houseCount"`
	VillagerCount int     `json:"villagerCount"`
	GuardCount    int     `json:"guardCount"`
	MerchantCount int     `json:"merchantCount"`
}

// DefaultWorldConfig returns the stock village layout.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Width:         worldWidth,
		Height:        worldHeight,
		Seed:          defaultWorldSeed,
		TreeCount:     defaultTreeCount,
		RockCount:     defaultRockCount,
		HouseCount:    defaultHouseCount,
		VillagerCount: defaultVillagerCount,
		GuardCount:    defaultGuardCount,
		MerchantCount: defaultMerchantCount,
	}
}

// Normalized clamps nonsensical values back to usable defaults so a partial
// config from the environment or a reset request cannot produce a broken
// world.
func (c WorldConfig) Normalized() WorldConfig {
	if c.Width <= 0 {
		c.Width = worldWidth
	}
	if c.Height <= 0 {
		c.Height = worldHeight
	}
	if c.Seed == "" {
		c.Seed = defaultWorldSeed
	}
	if c.TreeCount < 0 {
		c.TreeCount = 0
	}
	if c.RockCount < 0 {
		c.RockCount = 0
	}
	if c.HouseCount < 0 {
		c.HouseCount = 0
	}
	if c.VillagerCount < 0 {
		c.VillagerCount = 0
	}
	if c.GuardCount < 0 {
		c.GuardCount = 0
	}
	if c.MerchantCount < 0 {
		c.MerchantCount = 0
	}
	return c
}
