package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"StrategyScout/internal/model"
)

type csvRow struct {
	Date   string  `dataframe:"Date"`
	Open   float64 `dataframe:"Open"`
	High   float64 `dataframe:"High"`
	Low    float64 `dataframe:"Low"`
	Close  float64 `dataframe:"Close"`
	Volume float64 `dataframe:"Volume"`
}

// CSVWriter exports each price series to <Dir>/<SYMBOL>.csv.
type CSVWriter struct {
	Dir string
}

func NewCSVWriter(dir string) *CSVWriter { return &CSVWriter{Dir: dir} }

// Path returns the CSV file of symbol.
func (w *CSVWriter) Path(symbol string) string {
	return filepath.Join(w.Dir, symbol+".csv")
}

// SaveSeries writes the series with a Date,Open,High,Low,Close,Volume header.
func (w *CSVWriter) SaveSeries(series *model.PriceSeries) error {
	if series.Len() == 0 {
		return fmt.Errorf("%s: empty series", series.Symbol)
	}
	rows := make([]csvRow, series.Len())
	for i, r := range series.Records {
		rows[i] = csvRow{
			Date:   r.Date.Format("2006-01-02"),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		}
	}
	df := dataframe.LoadStructs(rows)
	if df.Err != nil {
		return fmt.Errorf("build frame: %w", df.Err)
	}

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.Create(w.Path(series.Symbol))
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
