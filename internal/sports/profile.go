package sports

// AdvancedBaselines are league averages each advanced metric is normalized against
type AdvancedBaselines struct {
	PointsPerGame   float64
	FieldGoalPct    float64
	ThreePointPct   float64
	FreeThrowPct    float64
	AssistTurnover  float64
	ReboundsPerGame float64
	BlocksPerGame   float64
	StealsPerGame   float64
}

// Profile holds the sport-specific constants the engines need
type Profile struct {
	Key           string // "basketball_nba", "soccer_epl"
	DisplayName   string // "NBA", "EPL"
	ESPNPath      string // "basketball/nba"
	Soccer        bool   // 3-way markets, draw picks, no spreads
	LeagueAverage float64
	HomeBonus     float64
	Baselines     AdvancedBaselines
	Enabled       bool
}

var (
	NBA = Profile{
		Key: "basketball_nba", DisplayName: "NBA", ESPNPath: "basketball/nba",
		LeagueAverage: 114, HomeBonus: 2.5, Enabled: true,
		Baselines: AdvancedBaselines{
			PointsPerGame: 114, FieldGoalPct: 47.5, ThreePointPct: 36.5, FreeThrowPct: 78,
			AssistTurnover: 1.9, ReboundsPerGame: 44, BlocksPerGame: 5, StealsPerGame: 7.5,
		},
	}

	NCAAB = Profile{
		Key: "basketball_ncaab", DisplayName: "NCAAB", ESPNPath: "basketball/mens-college-basketball",
		LeagueAverage: 72, HomeBonus: 3.5, Enabled: true,
		Baselines: AdvancedBaselines{
			PointsPerGame: 72, FieldGoalPct: 44, ThreePointPct: 34, FreeThrowPct: 71,
			AssistTurnover: 1.1, ReboundsPerGame: 36, BlocksPerGame: 3.3, StealsPerGame: 6.5,
		},
	}

	NFL = Profile{
		Key: "americanfootball_nfl", DisplayName: "NFL", ESPNPath: "football/nfl",
		LeagueAverage: 22, HomeBonus: 2.0, Enabled: true,
		Baselines: AdvancedBaselines{PointsPerGame: 22},
	}

	MLB = Profile{
		Key: "baseball_mlb", DisplayName: "MLB", ESPNPath: "baseball/mlb",
		LeagueAverage: 4.5, HomeBonus: 0.3, Enabled: true,
		Baselines: AdvancedBaselines{PointsPerGame: 4.5},
	}

	NHL = Profile{
		Key: "icehockey_nhl", DisplayName: "NHL", ESPNPath: "hockey/nhl",
		LeagueAverage: 3.1, HomeBonus: 0.25, Enabled: true,
		Baselines: AdvancedBaselines{PointsPerGame: 3.1},
	}

	EPL = Profile{
		Key: "soccer_epl", DisplayName: "EPL", ESPNPath: "soccer/eng.1",
		Soccer: true, LeagueAverage: 1.4, HomeBonus: 0.3, Enabled: true,
		Baselines: AdvancedBaselines{PointsPerGame: 1.4},
	}

	MLS = Profile{
		Key: "soccer_usa_mls", DisplayName: "MLS", ESPNPath: "soccer/usa.1",
		Soccer: true, LeagueAverage: 1.5, HomeBonus: 0.3, Enabled: true,
		Baselines: AdvancedBaselines{PointsPerGame: 1.5},
	}
)
