package source

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/salesintel/dealrisk/internal/model"
	"github.com/salesintel/dealrisk/internal/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "deal_id,created_date,closed_date,sales_rep_id,industry,region,product_type,lead_source,deal_stage,deal_amount,sales_cycle_days,outcome"

func TestRead(t *testing.T) {
	data := header + "\n" +
		"D-1,2025-01-10,2025-03-01,R-1,Finance,EMEA,Enterprise,Referral,Closed,120000,50,Won\n" +
		"D-2,2025-02-01,2025-02-20,R-2,Retail,NA,SMB,Web,Proposal,3000,19,Lost\n"

	deals, err := Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, deals, 2)

	d := deals[0]
	assert.Equal(t, "D-1", d.ID)
	assert.Equal(t, time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC), d.Created)
	assert.Equal(t, model.Closed, d.Stage)
	assert.Equal(t, model.Won, d.Outcome)
	assert.Equal(t, 120000.0, d.Amount)
	assert.Equal(t, 50.0, d.CycleDays)

	assert.Equal(t, model.Lost, deals[1].Outcome)
	assert.True(t, deals[1].InPipeline())
}

func TestRead_SchemaErrors(t *testing.T) {

	type test struct {
		data string
		msg  string
	}

	tests := map[string]test{
		"missing-column": {
			data: strings.Replace(header, ",outcome", "", 1) + "\nD-1,2025-01-10,2025-03-01,R-1,Finance,EMEA,Enterprise,Referral,Closed,120000,50\n",
			msg:  "missing required column 'outcome'",
		},
		"bad-date": {
			data: header + "\nD-1,10/01/2025,2025-03-01,R-1,Finance,EMEA,Enterprise,Referral,Closed,120000,50,Won\n",
			msg:  "created_date' at row 2",
		},
		"bad-stage": {
			data: header + "\nD-1,2025-01-10,2025-03-01,R-1,Finance,EMEA,Enterprise,Referral,Discovery,120000,50,Won\n",
			msg:  "deal_stage' at row 2",
		},
		"bad-outcome": {
			data: header + "\nD-1,2025-01-10,2025-03-01,R-1,Finance,EMEA,Enterprise,Referral,Closed,120000,50,Pending\n",
			msg:  "outcome' at row 2",
		},
		"bad-amount": {
			data: header + "\nD-1,2025-01-10,2025-03-01,R-1,Finance,EMEA,Enterprise,Referral,Closed,abc,50,Won\n",
			msg:  "deal_amount' at row 2",
		},
		"negative-amount": {
			data: header + "\nD-1,2025-01-10,2025-03-01,R-1,Finance,EMEA,Enterprise,Referral,Closed,-5,50,Won\n",
			msg:  "negative 'deal_amount' at row 2",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRead_NegativeCycleIsAnomalyNotError(t *testing.T) {
	data := header + "\nD-1,2025-03-01,2025-01-10,R-1,Finance,EMEA,Enterprise,Referral,Closed,120000,-50,Won\n"
	deals, err := Read(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, -50.0, deals[0].CycleDays)
}

func TestWrite_RoundTrip(t *testing.T) {
	rows := []score.Scored{
		{
			Deal: model.Deal{
				ID:          "D-9",
				Created:     time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC),
				Closed:      time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
				RepID:       "R-4",
				Industry:    "Health",
				Region:      "APAC",
				ProductType: "Enterprise",
				LeadSource:  "Event",
				Stage:       model.Negotiation,
				Amount:      42000,
				CycleDays:   31,
				Outcome:     model.Lost,
			},
			Score:    74.5,
			Category: score.High,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, header+",risk_score,risk_category", lines[0])
	assert.Equal(t, "D-9,2025-05-02,2025-06-02,R-4,Health,APAC,Enterprise,Event,Negotiation,42000,31,Lost,74.5,High", lines[1])
}
