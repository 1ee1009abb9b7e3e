package edgar

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

// DirSource serves saved EDGAR responses laid out as
// {Dir}/{TICKER}/companyfacts.json and {Dir}/{TICKER}/submissions.json.
type DirSource struct {
	Dir string
}

// NewDirSource returns a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

func (d *DirSource) open(ticker, name string) (*os.File, error) {
	path := filepath.Join(d.Dir, utils.NormalizeTicker(ticker), name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s (no %s)", ErrTickerNotFound, ticker, path)
	}
	return f, err
}

// CompanyFacts reads companyfacts.json for ticker.
func (d *DirSource) CompanyFacts(_ context.Context, ticker string) (*models.FactsDocument, error) {
	f, err := d.open(ticker, "companyfacts.json")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeFacts(f)
}

func (d *DirSource) submissions(ticker string) (*submissions, error) {
	f, err := d.open(ticker, "submissions.json")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeSubmissions(f)
}

// FilingIndex reads the recent filings from submissions.json.
func (d *DirSource) FilingIndex(_ context.Context, ticker string) (models.FilingIndex, error) {
	s, err := d.submissions(ticker)
	if err != nil {
		return nil, err
	}
	return s.filingIndex(), nil
}

// Profile reads the company profile from submissions.json.
func (d *DirSource) Profile(_ context.Context, ticker string) (*models.CompanyProfile, error) {
	s, err := d.submissions(ticker)
	if err != nil {
		return nil, err
	}
	return s.profile(), nil
}
