package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStageFromString(t *testing.T) {

	type test struct {
		value string
		code  int
		err   bool
	}

	tests := map[string]test{
		"demo":        {value: "Demo", code: 1},
		"qualified":   {value: "Qualified", code: 2},
		"proposal":    {value: "Proposal", code: 3},
		"negotiation": {value: "Negotiation", code: 4},
		"closed":      {value: "Closed", code: 5},
		"unknown":     {value: "Discovery", err: true},
		"empty":       {value: "", err: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			stage, err := StageFromString(tt.value)
			if tt.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.code, stage.Code())
		})
	}
}

func TestOutcomeFromString(t *testing.T) {
	won, err := OutcomeFromString("Won")
	assert.NoError(t, err)
	assert.Equal(t, Won, won)

	lost, err := OutcomeFromString("Lost")
	assert.NoError(t, err)
	assert.Equal(t, Lost, lost)

	_, err = OutcomeFromString("Open")
	assert.Error(t, err)
}

func TestDeal_Labels(t *testing.T) {
	lost := Deal{Outcome: Lost, Stage: Negotiation}
	won := Deal{Outcome: Won, Stage: Closed}

	assert.Equal(t, 1.0, lost.IsLost())
	assert.Equal(t, 0.0, won.IsLost())
	assert.True(t, lost.InPipeline())
	assert.False(t, won.InPipeline())
}

func TestDeal_Quarter(t *testing.T) {
	d := Deal{Closed: time.Date(2025, time.August, 14, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2025Q3", d.Quarter())

	d = Deal{Closed: time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2026Q1", d.Quarter())
}

func TestDeal_Segment(t *testing.T) {
	d := Deal{Industry: "Finance", ProductType: Enterprise}
	assert.Equal(t, "Finance|Enterprise", d.Segment())
}
