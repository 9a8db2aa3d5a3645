package espn

import (
	"strconv"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
)

// parseFloat parses a float from interface{}
func parseFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, _ := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(val), "+"), 64)
		return f
	case int:
		return float64(val)
	default:
		return 0.0
	}
}

// parseInt parses an int from interface{}
func parseInt(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		i, _ := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(val), "+"))
		return i
	case int:
		return val
	default:
		return 0
	}
}

// parseGameStatus converts ESPN status to our GameStatus
func parseGameStatus(statusType map[string]interface{}) models.GameStatus {
	if completed, ok := statusType["completed"].(bool); ok && completed {
		return models.StatusFinal
	}

	if extractString(statusType, "name") == "STATUS_POSTPONED" {
		return models.StatusPostponed
	}

	if state, ok := statusType["state"].(string); ok {
		switch state {
		case "in":
			return models.StatusLive
		case "pre":
			return models.StatusUpcoming
		case "post":
			return models.StatusFinal
		}
	}

	return models.StatusUpcoming
}

// parseStartTime parses ESPN's "2025-11-11T23:30Z" format. Returns zero on failure.
func parseStartTime(dateStr string) time.Time {
	if dateStr == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, dateStr)
	if err == nil {
		return t
	}
	t, err = time.Parse("2006-01-02T15:04Z", dateStr)
	if err == nil {
		return t
	}
	t, err = time.Parse("2006-01-02T15:04:05", strings.TrimSuffix(dateStr, "Z"))
	if err == nil {
		return t
	}
	return time.Time{}
}

// extractString safely extracts a string from a map
func extractString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// extractFloat safely extracts a float from a map
func extractFloat(m map[string]interface{}, key string) (float64, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return 0, false
	}
	return parseFloat(v), true
}

// extractMap safely extracts a map from a map
func extractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key]; ok {
		if mapVal, ok := v.(map[string]interface{}); ok {
			return mapVal
		}
	}
	return map[string]interface{}{}
}

// extractArray safely extracts an array from a map
func extractArray(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key]; ok {
		if arrVal, ok := v.([]interface{}); ok {
			return arrVal
		}
	}
	return []interface{}{}
}

// firstMap returns the first element of an array as a map
func firstMap(arr []interface{}) map[string]interface{} {
	if len(arr) == 0 {
		return map[string]interface{}{}
	}
	if m, ok := arr[0].(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func asMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

// parseTeamRef reads a competitor's team identity and total record
func parseTeamRef(competitor map[string]interface{}) models.TeamRef {
	team := extractMap(competitor, "team")
	ref := models.TeamRef{
		ID:   extractString(team, "id"),
		Name: extractString(team, "displayName"),
		Abbr: extractString(team, "abbreviation"),
	}
	if ref.ID == "" {
		ref.ID = extractString(competitor, "id")
	}

	for _, r := range extractArray(competitor, "records") {
		rec := asMap(r)
		t := extractString(rec, "type")
		if t == "total" || t == "" || extractString(rec, "name") == "overall" {
			ref.Record = extractString(rec, "summary")
			break
		}
	}
	return ref
}

// parseOdds reads the first odds provider on a competition
func parseOdds(competition map[string]interface{}) *models.Odds {
	oddsArr := extractArray(competition, "odds")
	if len(oddsArr) == 0 {
		return nil
	}
	o := firstMap(oddsArr)

	odds := &models.Odds{Provider: extractString(extractMap(o, "provider"), "name")}

	if v, ok := extractFloat(o, "spread"); ok {
		odds.Spread = &v
	}
	if v, ok := extractFloat(o, "overUnder"); ok {
		odds.Total = &v
	}
	odds.HomeMoneyline = moneyline(extractMap(o, "homeTeamOdds"))
	odds.AwayMoneyline = moneyline(extractMap(o, "awayTeamOdds"))
	odds.DrawMoneyline = moneyline(extractMap(o, "drawOdds"))

	if home := extractMap(o, "homeTeamOdds"); len(home) > 0 {
		if v, ok := extractFloat(home, "spreadOdds"); ok && v != 0 {
			price := int(v)
			odds.SpreadOdds = &price
		}
	}

	return odds
}

func moneyline(m map[string]interface{}) *int {
	v, ok := extractFloat(m, "moneyLine")
	if !ok || v == 0 {
		return nil
	}
	price := int(v)
	return &price
}

// ParseScoreboard converts a scoreboard response into games
func ParseScoreboard(sportKey string, data map[string]interface{}) []models.Game {
	events := extractArray(data, "events")
	games := make([]models.Game, 0, len(events))

	for _, e := range events {
		event := asMap(e)
		competition := firstMap(extractArray(event, "competitions"))

		status := extractMap(competition, "status")
		if len(status) == 0 {
			status = extractMap(event, "status")
		}

		game := models.Game{
			GameID:    extractString(event, "id"),
			SportKey:  sportKey,
			StartTime: parseStartTime(extractString(event, "date")),
			Status:    parseGameStatus(extractMap(status, "type")),
			Odds:      parseOdds(competition),
		}

		for _, c := range extractArray(competition, "competitors") {
			competitor := asMap(c)
			switch extractString(competitor, "homeAway") {
			case "home":
				game.Home = parseTeamRef(competitor)
			case "away":
				game.Away = parseTeamRef(competitor)
			}
		}

		games = append(games, game)
	}

	return games
}

// ParseTeamStats reads the record items of a team response
func ParseTeamStats(teamID string, data map[string]interface{}) (*models.TeamStats, bool) {
	record := extractMap(extractMap(data, "team"), "record")
	items := extractArray(record, "items")
	if len(items) == 0 {
		return nil, false
	}

	stats := &models.TeamStats{TeamID: teamID}
	found := false

	for _, it := range items {
		item := asMap(it)
		values := statValues(extractArray(item, "stats"))

		switch extractString(item, "type") {
		case "total":
			found = true
			stats.Wins = int(values["wins"])
			stats.Losses = int(values["losses"])
			stats.WinPct = values["winPercent"]
			stats.PointsFor = values["pointsFor"]
			stats.PointsAgainst = values["pointsAgainst"]
			stats.GamesPlayed = int(values["gamesPlayed"])

			// ESPN encodes streaks as signed counts
			if streak := int(values["streak"]); streak > 0 {
				stats.Streak, stats.StreakType = streak, "W"
			} else if streak < 0 {
				stats.Streak, stats.StreakType = -streak, "L"
			}

			if w, ok := values["homeWins"]; ok {
				stats.HomeWins = int(w)
				stats.HomeLosses = int(values["homeLosses"])
			}
			if w, ok := values["roadWins"]; ok {
				stats.AwayWins = int(w)
				stats.AwayLosses = int(values["roadLosses"])
			}
		case "home":
			stats.HomeWins, stats.HomeLosses = splitRecord(extractString(item, "summary"))
		case "road", "away":
			stats.AwayWins, stats.AwayLosses = splitRecord(extractString(item, "summary"))
		}
	}

	if !found {
		return nil, false
	}
	if stats.GamesPlayed == 0 {
		stats.GamesPlayed = stats.Wins + stats.Losses
	}
	if stats.WinPct == 0 && stats.Wins+stats.Losses > 0 {
		stats.WinPct = float64(stats.Wins) / float64(stats.Wins+stats.Losses)
	}
	return stats, true
}

func statValues(arr []interface{}) map[string]float64 {
	values := make(map[string]float64, len(arr))
	for _, s := range arr {
		stat := asMap(s)
		if name := extractString(stat, "name"); name != "" {
			v, _ := extractFloat(stat, "value")
			values[name] = v
		}
	}
	return values
}

func splitRecord(summary string) (int, int) {
	parts := strings.Split(summary, "-")
	if len(parts) < 2 {
		return 0, 0
	}
	return parseInt(parts[0]), parseInt(parts[1])
}

// ESPN statistic names per advanced metric, in order of preference
var advancedStatNames = map[string][]string{
	"ppg": {"avgPoints", "pointsPerGame"},
	"fg":  {"fieldGoalPct"},
	"3p":  {"threePointFieldGoalPct", "threePointPct"},
	"ft":  {"freeThrowPct"},
	"ato": {"assistTurnoverRatio"},
	"reb": {"avgRebounds", "reboundsPerGame"},
	"blk": {"avgBlocks", "blocksPerGame"},
	"stl": {"avgSteals", "stealsPerGame"},
}

// ParseAdvancedStats reads efficiency metrics from a team statistics response
func ParseAdvancedStats(data map[string]interface{}) (*models.AdvancedStats, bool) {
	categories := extractArray(extractMap(extractMap(data, "results"), "stats"), "categories")
	if len(categories) == 0 {
		categories = extractArray(extractMap(data, "statistics"), "categories")
	}

	values := map[string]float64{}
	for _, c := range categories {
		for name, v := range statValues(extractArray(asMap(c), "stats")) {
			if _, seen := values[name]; !seen {
				values[name] = v
			}
		}
	}

	pick := func(metric string) float64 {
		for _, name := range advancedStatNames[metric] {
			if v, ok := values[name]; ok && v > 0 {
				return v
			}
		}
		return 0
	}

	adv := &models.AdvancedStats{
		PointsPerGame:   pick("ppg"),
		FieldGoalPct:    pick("fg"),
		ThreePointPct:   pick("3p"),
		FreeThrowPct:    pick("ft"),
		AssistTurnover:  pick("ato"),
		ReboundsPerGame: pick("reb"),
		BlocksPerGame:   pick("blk"),
		StealsPerGame:   pick("stl"),
	}
	if *adv == (models.AdvancedStats{}) {
		return nil, false
	}
	return adv, true
}

// ParseSchedule reads a team schedule from that team's perspective
func ParseSchedule(teamID string, data map[string]interface{}) []models.ScheduledGame {
	events := extractArray(data, "events")
	schedule := make([]models.ScheduledGame, 0, len(events))

	for _, e := range events {
		event := asMap(e)
		competition := firstMap(extractArray(event, "competitions"))
		status := extractMap(extractMap(competition, "status"), "type")

		entry := models.ScheduledGame{
			GameID:    extractString(event, "id"),
			Date:      parseStartTime(extractString(event, "date")),
			Completed: parseGameStatus(status) == models.StatusFinal,
		}

		for _, c := range extractArray(competition, "competitors") {
			competitor := asMap(c)
			ref := parseTeamRef(competitor)
			score := parseScore(competitor["score"])
			if ref.ID == teamID {
				entry.TeamScore = score
			} else {
				entry.OpponentID = ref.ID
				entry.OppScore = score
			}
		}

		schedule = append(schedule, entry)
	}

	return schedule
}

// parseScore handles both "101" and {"value": 101, "displayValue": "101"}
func parseScore(v interface{}) int {
	if m, ok := v.(map[string]interface{}); ok {
		if val, ok := extractFloat(m, "value"); ok {
			return int(val)
		}
		return parseInt(m["displayValue"])
	}
	return parseInt(v)
}

// ParseInjuries converts a league injury report into per-team reports keyed by team ID
func ParseInjuries(data map[string]interface{}) map[string][]models.InjuredPlayer {
	reports := make(map[string][]models.InjuredPlayer)

	for _, t := range extractArray(data, "injuries") {
		team := asMap(t)
		teamID := extractString(team, "id")
		if teamID == "" {
			teamID = extractString(extractMap(team, "team"), "id")
		}
		if teamID == "" {
			continue
		}

		players := []models.InjuredPlayer{}
		for _, i := range extractArray(team, "injuries") {
			injury := asMap(i)
			athlete := extractMap(injury, "athlete")
			players = append(players, models.InjuredPlayer{
				Name:     extractString(athlete, "displayName"),
				Position: extractString(extractMap(athlete, "position"), "abbreviation"),
				Status:   extractString(injury, "status"),
			})
		}
		reports[teamID] = players
	}

	return reports
}
