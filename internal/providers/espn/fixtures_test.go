package espn_test

import "github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"

const scoreboardJSON = `{
  "events": [
    {
      "id": "401700001",
      "date": "2025-01-15T00:30Z",
      "competitions": [
        {
          "status": {"type": {"state": "pre", "completed": false, "name": "STATUS_SCHEDULED"}},
          "competitors": [
            {"homeAway": "home", "team": {"id": "2", "displayName": "Boston Celtics", "abbreviation": "BOS"},
             "records": [{"type": "total", "summary": "30-10"}, {"type": "home", "summary": "18-3"}]},
            {"homeAway": "away", "team": {"id": "20", "displayName": "Philadelphia 76ers", "abbreviation": "PHI"},
             "records": [{"type": "total", "summary": "15-25"}]}
          ],
          "odds": [
            {"provider": {"name": "ESPN BET"}, "details": "BOS -9.5", "spread": -9.5, "overUnder": 221.5,
             "homeTeamOdds": {"moneyLine": -450, "spreadOdds": -105},
             "awayTeamOdds": {"moneyLine": 350}}
          ]
        }
      ]
    },
    {
      "id": "401700002",
      "date": "2025-01-14T22:00Z",
      "competitions": [
        {
          "status": {"type": {"state": "post", "completed": true}},
          "competitors": [
            {"homeAway": "home", "team": {"id": "5", "abbreviation": "CLE"}},
            {"homeAway": "away", "team": {"id": "8", "abbreviation": "DET"}}
          ]
        }
      ]
    }
  ]
}`

const soccerScoreboardJSON = `{
  "events": [
    {
      "id": "700001",
      "date": "2025-01-15T20:00Z",
      "competitions": [
        {
          "status": {"type": {"state": "pre"}},
          "competitors": [
            {"homeAway": "home", "team": {"id": "359", "abbreviation": "ARS"}, "records": [{"summary": "14-6-1"}]},
            {"homeAway": "away", "team": {"id": "364", "abbreviation": "LIV"}, "records": [{"summary": "15-4-2"}]}
          ],
          "odds": [
            {"provider": {"name": "ESPN BET"}, "overUnder": 2.5,
             "homeTeamOdds": {"moneyLine": 180}, "awayTeamOdds": {"moneyLine": 140}, "drawOdds": {"moneyLine": 240}}
          ]
        }
      ]
    }
  ]
}`

const teamJSON = `{
  "team": {
    "id": "2",
    "record": {
      "items": [
        {"type": "total", "summary": "30-10", "stats": [
          {"name": "wins", "value": 30}, {"name": "losses", "value": 10},
          {"name": "winPercent", "value": 0.75}, {"name": "gamesPlayed", "value": 40},
          {"name": "pointsFor", "value": 4800}, {"name": "pointsAgainst", "value": 4440},
          {"name": "streak", "value": -2}
        ]},
        {"type": "home", "summary": "18-3"},
        {"type": "road", "summary": "12-7"}
      ]
    }
  }
}`

const statisticsJSON = `{
  "results": {
    "stats": {
      "categories": [
        {"name": "offensive", "stats": [
          {"name": "avgPoints", "value": 120.0}, {"name": "fieldGoalPct", "value": 48.9},
          {"name": "threePointFieldGoalPct", "value": 38.1}, {"name": "freeThrowPct", "value": 80.2},
          {"name": "assistTurnoverRatio", "value": 2.1}
        ]},
        {"name": "defensive", "stats": [
          {"name": "avgBlocks", "value": 5.8}, {"name": "avgSteals", "value": 7.1}
        ]},
        {"name": "general", "stats": [{"name": "avgRebounds", "value": 46.0}]}
      ]
    }
  }
}`

const scheduleJSON = `{
  "events": [
    {"id": "1", "date": "2025-01-10T00:00Z", "competitions": [{
      "status": {"type": {"completed": true}},
      "competitors": [
        {"id": "2", "team": {"id": "2"}, "score": {"value": 118, "displayValue": "118"}},
        {"id": "20", "team": {"id": "20"}, "score": {"value": 104, "displayValue": "104"}}
      ]}]},
    {"id": "2", "date": "2025-01-13T00:00Z", "competitions": [{
      "status": {"type": {"completed": true}},
      "competitors": [
        {"id": "2", "team": {"id": "2"}, "score": "99"},
        {"id": "5", "team": {"id": "5"}, "score": "101"}
      ]}]},
    {"id": "3", "date": "2025-01-20T00:00Z", "competitions": [{
      "status": {"type": {"state": "pre"}},
      "competitors": [{"id": "2", "team": {"id": "2"}}, {"id": "9", "team": {"id": "9"}}]}]}
  ]
}`

const injuriesJSON = `{
  "injuries": [
    {"id": "20", "displayName": "Philadelphia 76ers", "injuries": [
      {"status": "Out", "athlete": {"displayName": "Joel Embiid", "position": {"abbreviation": "C"}}},
      {"status": "Out", "athlete": {"displayName": "Paul George", "position": {"abbreviation": "F"}}},
      {"status": "Questionable", "athlete": {"displayName": "Kelly Oubre Jr.", "position": {"abbreviation": "F"}}}
    ]},
    {"id": "2", "displayName": "Boston Celtics", "injuries": [
      {"status": "Day-To-Day", "athlete": {"displayName": "Jrue Holiday", "position": {"abbreviation": "G"}}}
    ]}
  ]
}`

func teamRef(id, record string) models.TeamRef {
	return models.TeamRef{ID: id, Record: record}
}
