// Package metrics reads named rows out of a pivoted matrix as date series
// and provides the alignment primitives every ratio is built from.
package metrics

import (
	"fmt"
	"strings"

	"github.com/seenimoa/stockstrip/pkg/models"
)

// Reader retrieves metrics from one pivoted matrix.
type Reader struct {
	m *models.PivotedMatrix
}

// NewReader wraps m.
func NewReader(m *models.PivotedMatrix) *Reader {
	return &Reader{m: m}
}

// Matrix returns the underlying matrix.
func (r *Reader) Matrix() *models.PivotedMatrix { return r.m }

// Read returns the first candidate row present in the matrix as a series,
// newest first. Only populated cells are returned and non-finite values
// become 0. When no candidate exists the error wraps ErrMetricNotFound.
func (r *Reader) Read(candidates ...string) (models.Series, error) {
	if r == nil || r.m == nil {
		return nil, notFound(candidates)
	}
	for _, c := range candidates {
		if row, ok := r.m.Row(c); ok {
			return models.NewSeries(row), nil
		}
	}
	return nil, notFound(candidates)
}

// Latest returns the newest value of the first candidate present.
func (r *Reader) Latest(candidates ...string) (models.Point, error) {
	s, err := r.Read(candidates...)
	if err != nil {
		return models.Point{}, err
	}
	p, ok := s.Latest()
	if !ok {
		return models.Point{}, notFound(candidates)
	}
	return p, nil
}

func notFound(candidates []string) error {
	quoted := make([]string, len(candidates))
	for i, c := range candidates {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return &models.CalcError{
		Kind:   models.KindDataUnavailable,
		Op:     "read metric",
		Detail: "no row labeled " + strings.Join(quoted, " or "),
		Err:    models.ErrMetricNotFound,
	}
}
