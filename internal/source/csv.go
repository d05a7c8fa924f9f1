package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/salesintel/dealrisk/internal/model"
	"github.com/salesintel/dealrisk/internal/score"
)

const dateFormat = "2006-01-02"

// columns is the required input schema, in output order.
var columns = []string{
	"deal_id",
	"created_date",
	"closed_date",
	"sales_rep_id",
	"industry",
	"region",
	"product_type",
	"lead_source",
	"deal_stage",
	"deal_amount",
	"sales_cycle_days",
	"outcome",
}

// LoadDeals reads the deal dataset from the given csv file.
func LoadDeals(path string) ([]model.Deal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open dataset '%s': %w", path, err)
	}
	defer f.Close()

	deals, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("could not read dataset '%s': %w", path, err)
	}

	log.Info().Int("deals", len(deals)).Str("path", path).Msg("loaded dataset")
	return deals, nil
}

// Read parses deals from csv data. Any schema violation aborts the read,
// reporting the offending column and row.
func Read(r io.Reader) ([]model.Deal, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range columns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing required column '%s'", name)
		}
	}

	deals := make([]model.Deal, 0)
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read row %d: %w", row, err)
		}

		deal, err := parse(record, index, row)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}

	return deals, nil
}

func parse(record []string, index map[string]int, row int) (model.Deal, error) {
	get := func(column string) string {
		return record[index[column]]
	}

	created, err := time.Parse(dateFormat, get("created_date"))
	if err != nil {
		return model.Deal{}, fmt.Errorf("unparsable 'created_date' at row %d: %w", row, err)
	}
	closed, err := time.Parse(dateFormat, get("closed_date"))
	if err != nil {
		return model.Deal{}, fmt.Errorf("unparsable 'closed_date' at row %d: %w", row, err)
	}

	stage, err := model.StageFromString(get("deal_stage"))
	if err != nil {
		return model.Deal{}, fmt.Errorf("unparsable 'deal_stage' at row %d: %w", row, err)
	}
	outcome, err := model.OutcomeFromString(get("outcome"))
	if err != nil {
		return model.Deal{}, fmt.Errorf("unparsable 'outcome' at row %d: %w", row, err)
	}

	amount, err := strconv.ParseFloat(get("deal_amount"), 64)
	if err != nil {
		return model.Deal{}, fmt.Errorf("unparsable 'deal_amount' at row %d: %w", row, err)
	}
	if amount < 0 {
		return model.Deal{}, fmt.Errorf("negative 'deal_amount' at row %d: %f", row, amount)
	}

	cycle, err := strconv.ParseFloat(get("sales_cycle_days"), 64)
	if err != nil {
		return model.Deal{}, fmt.Errorf("unparsable 'sales_cycle_days' at row %d: %w", row, err)
	}
	if cycle < 0 {
		// data quality anomaly, kept as-is
		log.Warn().Int("row", row).Str("deal", get("deal_id")).Float64("cycle_days", cycle).
			Msg("negative sales cycle")
	}

	return model.Deal{
		ID:          get("deal_id"),
		Created:     created,
		Closed:      closed,
		RepID:       get("sales_rep_id"),
		Industry:    get("industry"),
		Region:      get("region"),
		ProductType: get("product_type"),
		LeadSource:  get("lead_source"),
		Stage:       stage,
		Amount:      amount,
		CycleDays:   cycle,
		Outcome:     outcome,
	}, nil
}

// WriteScores writes the scored table to the given csv file,
// one row per input deal, preserving input order.
func WriteScores(path string, rows []score.Scored) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create scores file '%s': %w", path, err)
	}
	defer f.Close()

	if err := Write(f, rows); err != nil {
		return fmt.Errorf("could not write scores to '%s': %w", path, err)
	}

	log.Info().Int("deals", len(rows)).Str("path", path).Msg("wrote risk scores")
	return nil
}

// Write writes the scored table as csv.
func Write(w io.Writer, rows []score.Scored) error {
	writer := csv.NewWriter(w)

	header := append(append([]string{}, columns...), "risk_score", "risk_category")
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		d := row.Deal
		record := []string{
			d.ID,
			d.Created.Format(dateFormat),
			d.Closed.Format(dateFormat),
			d.RepID,
			d.Industry,
			d.Region,
			d.ProductType,
			d.LeadSource,
			string(d.Stage),
			strconv.FormatFloat(d.Amount, 'f', -1, 64),
			strconv.FormatFloat(d.CycleDays, 'f', -1, 64),
			string(d.Outcome),
			strconv.FormatFloat(row.Score, 'f', 1, 64),
			string(row.Category),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
