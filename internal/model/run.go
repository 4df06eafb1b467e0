package model

import "time"

// ZoneArea is the suitable area attributed to one zone.
type ZoneArea struct {
	ZoneID  string  `json:"zone_id"`
	Name    string  `json:"name"`
	AreaKM2 float64 `json:"area_km2"`
}

// Run is a persisted suitability workflow invocation.
type Run struct {
	ID        string     `json:"id"`
	Species   string     `json:"species"`
	MinDepthM float64    `json:"min_depth_m"`
	MaxDepthM float64    `json:"max_depth_m"`
	MinTempC  float64    `json:"min_temp_c"`
	MaxTempC  float64    `json:"max_temp_c"`
	TotalKM2  float64    `json:"total_km2"`
	Zones     []ZoneArea `json:"zones,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
