package strategy_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/strategy"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name      string
		pick      models.Pick
		wantValue bool
		wantFlyer bool
	}{
		{
			name:      "Low confidence +250 is a flyer",
			pick:      makePick("f", pickOpts{side: models.SideAway, confidence: models.ConfidenceLow, differential: 3, homeML: -300, awayML: 250}),
			wantFlyer: true,
		},
		{
			name:      "High confidence +180 is a value underdog",
			pick:      makePick("v", pickOpts{side: models.SideAway, confidence: models.ConfidenceHigh, differential: 16, homeML: -220, awayML: 180}),
			wantValue: true,
		},
		{
			name:      "Medium confidence +151 is a value underdog",
			pick:      makePick("m", pickOpts{side: models.SideAway, confidence: models.ConfidenceMedium, differential: 7, awayML: 151}),
			wantValue: true,
		},
		{
			name: "Exactly +150 is not a value underdog",
			pick: makePick("e", pickOpts{side: models.SideAway, confidence: models.ConfidenceHigh, differential: 16, awayML: 150}),
		},
		{
			name: "Low confidence +200 is not a flyer",
			pick: makePick("l", pickOpts{side: models.SideAway, confidence: models.ConfidenceLow, differential: 2, awayML: 200}),
		},
		{
			name: "Missing odds default to -110",
			pick: makePick("n", pickOpts{confidence: models.ConfidenceLow, differential: 2}),
		},
		{
			name: "Favorite is neither",
			pick: makePick("fav", pickOpts{confidence: models.ConfidenceHigh, differential: 20, homeML: -200}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strategy.IsValueUnderdog(tt.pick); got != tt.wantValue {
				t.Errorf("IsValueUnderdog = %v, want %v", got, tt.wantValue)
			}
			if got := strategy.IsUnderdogFlyer(tt.pick); got != tt.wantFlyer {
				t.Errorf("IsUnderdogFlyer = %v, want %v", got, tt.wantFlyer)
			}
		})
	}
}

func TestClassification_NoAnalysis(t *testing.T) {
	p := makePick("x", pickOpts{side: models.SideAway, awayML: 400})
	p.Analysis = nil

	if strategy.IsValueUnderdog(p) || strategy.IsUnderdogFlyer(p) {
		t.Error("pick without analysis should never be classified")
	}
}
