package sandbox

import "statecraft.ai/internal/sim/model"

// Demo is a four-player map: three majors and one city-state, all met on turn one.
func Demo(seed int64) Config {
	allTechs := []string{"writing", "scientific_theory"}
	allCivics := []string{"early_empire", "diplomatic_service"}
	return Config{
		Seed:       seed,
		Width:      48,
		Height:     32,
		MeetRadius: 40,
		Resources: []model.ResourceInfo{
			{Type: "silk", Class: model.ResourceLuxury, Happiness: 4},
			{Type: "wine", Class: model.ResourceLuxury, Happiness: 4},
			{Type: "iron", Class: model.ResourceStrategic},
			{Type: "horses", Class: model.ResourceStrategic},
			{Type: "wheat", Class: model.ResourceBonus},
		},
		Players: []PlayerConfig{
			{
				Name: "Aurelia", Team: 0, Era: model.EraMedieval,
				Techs: allTechs, Civics: allCivics,
				Gold: 600, Income: 30, Economy: 120, Score: 300,
				Resources: map[model.ResourceType]int{"silk": 2, "iron": 4},
				Cities: []CityConfig{
					{Name: "Aurel", Location: model.Point{X: 6, Y: 6}, Population: 8, Capital: true},
					{Name: "Brindle", Location: model.Point{X: 12, Y: 9}, Population: 4},
				},
				Units: []Unit{{At: model.Point{X: 7, Y: 6}, Strength: 30}, {At: model.Point{X: 12, Y: 10}, Strength: 20}},
			},
			{
				Name: "Borealis", Team: 1, Era: model.EraMedieval,
				Techs: allTechs, Civics: allCivics,
				Gold: 400, Income: 20, Economy: 90, Score: 260,
				Resources: map[model.ResourceType]int{"wine": 1, "horses": 3},
				Cities: []CityConfig{
					{Name: "Bore", Location: model.Point{X: 20, Y: 8}, Population: 6, Capital: true},
					{Name: "Frost", Location: model.Point{X: 16, Y: 12}, Population: 3},
					{Name: "Glint", Location: model.Point{X: 24, Y: 14}, Population: 2, Wonders: 1},
				},
				Units: []Unit{{At: model.Point{X: 20, Y: 8}, Strength: 25}, {At: model.Point{X: 16, Y: 11}, Strength: 15}},
			},
			{
				Name: "Cindra", Team: 2, Era: model.EraClassical,
				Techs: []string{"writing"}, Civics: []string{"early_empire"},
				Gold: 150, Income: 10, Economy: 50, Score: 180,
				Resources: map[model.ResourceType]int{"silk": 1, "wheat": 2},
				Cities: []CityConfig{
					{Name: "Cinder", Location: model.Point{X: 36, Y: 24}, Population: 5, Capital: true},
				},
				Units: []Unit{{At: model.Point{X: 36, Y: 24}, Strength: 12}},
			},
			{
				Name: "Delos", Team: 3, Minor: true, Era: model.EraClassical,
				Gold: 50, Income: 5, Economy: 20, Score: 40,
				Cities: []CityConfig{
					{Name: "Delos", Location: model.Point{X: 14, Y: 20}, Population: 3, Capital: true},
				},
				Units: []Unit{{At: model.Point{X: 14, Y: 20}, Strength: 6}},
			},
		},
	}
}
