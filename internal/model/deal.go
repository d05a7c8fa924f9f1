package model

import (
	"fmt"
	"time"
)

// Stage is the pipeline stage of a deal.
type Stage string

const (
	Demo        Stage = "Demo"
	Qualified   Stage = "Qualified"
	Proposal    Stage = "Proposal"
	Negotiation Stage = "Negotiation"
	Closed      Stage = "Closed"
)

// stageCodes is the fixed ordinal encoding of the stages.
var stageCodes = map[Stage]int{
	Demo:        1,
	Qualified:   2,
	Proposal:    3,
	Negotiation: 4,
	Closed:      5,
}

// StageFromString parses a stage value.
func StageFromString(s string) (Stage, error) {
	stage := Stage(s)
	if _, ok := stageCodes[stage]; !ok {
		return "", fmt.Errorf("unknown deal stage '%s'", s)
	}
	return stage, nil
}

// Code returns the ordinal code of the stage.
func (s Stage) Code() int {
	return stageCodes[s]
}

// Outcome is the terminal result of a deal.
type Outcome string

const (
	Won  Outcome = "Won"
	Lost Outcome = "Lost"
)

// OutcomeFromString parses an outcome value.
func OutcomeFromString(s string) (Outcome, error) {
	switch Outcome(s) {
	case Won:
		return Won, nil
	case Lost:
		return Lost, nil
	}
	return "", fmt.Errorf("unknown outcome '%s'", s)
}

// Enterprise is the product type with typically longer sales cycles.
const Enterprise = "Enterprise"

// Deal is one sales opportunity record.
type Deal struct {
	ID          string
	Created     time.Time
	Closed      time.Time
	RepID       string
	Industry    string
	Region      string
	ProductType string
	LeadSource  string
	Stage       Stage
	Amount      float64
	CycleDays   float64
	Outcome     Outcome
}

// IsLost returns the binary risk label of the deal.
func (d Deal) IsLost() float64 {
	if d.Outcome == Lost {
		return 1
	}
	return 0
}

// InPipeline reports whether the deal is still open,
// i.e. its stage is not in the terminal set.
func (d Deal) InPipeline() bool {
	return d.Stage != Closed
}

// Segment is the industry x product type segment key of the deal.
func (d Deal) Segment() string {
	return fmt.Sprintf("%s|%s", d.Industry, d.ProductType)
}

// Quarter is the calendar quarter the deal closed in, e.g. 2025Q3.
func (d Deal) Quarter() string {
	q := (int(d.Closed.Month())-1)/3 + 1
	return fmt.Sprintf("%dQ%d", d.Closed.Year(), q)
}
