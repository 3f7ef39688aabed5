// Package export writes scan results to external formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"leapscan/pkg/model"
)

var csvHeader = []string{
	"rank", "symbol", "name", "price", "market_cap",
	"drop_from_ath", "volatility", "sentiment", "confidence", "final_score",
}

// WriteCSV writes the ranked entries of a scan result as CSV.
// Fractions are written as percentages for spreadsheet readability.
func WriteCSV(w io.Writer, result *model.ScanResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, e := range result.Entries {
		label := ""
		confidence := ""
		if e.Sentiment != nil {
			label = e.Sentiment.Label
			confidence = strconv.FormatFloat(e.Sentiment.Confidence, 'f', 2, 64)
		}
		row := []string{
			strconv.Itoa(e.Rank),
			e.Symbol,
			e.Name,
			strconv.FormatFloat(e.CurrentPrice, 'f', 2, 64),
			strconv.FormatFloat(e.MarketCap, 'f', 0, 64),
			strconv.FormatFloat(e.DropFromATH*100, 'f', 1, 64),
			strconv.FormatFloat(e.Volatility*100, 'f', 1, 64),
			label,
			confidence,
			strconv.FormatFloat(e.FinalScore, 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", e.Symbol, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the result to a file, creating or truncating it.
func SaveCSV(path string, result *model.ScanResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, result); err != nil {
		return err
	}
	return f.Close()
}
