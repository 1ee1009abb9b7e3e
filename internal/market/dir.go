package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

// DirSource serves saved market data laid out as {Dir}/{TICKER}/history.json
// (a JSON array of bars) and {Dir}/{TICKER}/info.json.
type DirSource struct {
	Dir string
}

// NewDirSource returns a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

func (d *DirSource) read(ticker, name string, dest any) error {
	path := filepath.Join(d.Dir, utils.NormalizeTicker(ticker), name)
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s (no %s)", ErrTickerNotFound, ticker, path)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// History returns the saved bars within period of the last saved bar.
func (d *DirSource) History(_ context.Context, ticker, period string) (models.MarketSeries, error) {
	var bars models.MarketSeries
	if err := d.read(ticker, "history.json", &bars); err != nil {
		return nil, err
	}
	last, ok := bars.Last()
	if !ok {
		return bars, nil
	}
	start, err := PeriodStart(last.Timestamp, period)
	if err != nil {
		return nil, err
	}
	return bars.Since(start), nil
}

// Info returns the saved company figures.
func (d *DirSource) Info(_ context.Context, ticker string) (*models.CompanyInfo, error) {
	var info models.CompanyInfo
	if err := d.read(ticker, "info.json", &info); err != nil {
		return nil, err
	}
	if info.Ticker == "" {
		info.Ticker = utils.NormalizeTicker(ticker)
	}
	return &info, nil
}
