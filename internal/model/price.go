package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// TimestampLayout is the layout used by the bundled price table and the CSV export.
const TimestampLayout = "2006.01.02 15:04"

// PricePoint is one closing price. Read-only once loaded.
type PricePoint struct {
	Timestamp time.Time
	Close     float64
}

// Series is an ordered price history for one symbol, indexed from 0.
type Series struct {
	Symbol string
	Points []PricePoint
}

func (s Series) Len() int { return len(s.Points) }

// Close returns the closing price at index i. It panics when i is out of range,
// same as a slice access.
func (s Series) Close(i int) float64 { return s.Points[i].Close }

// Closes returns a copy of all closing prices in order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

func (s Series) Validate() error {
	if len(s.Points) == 0 {
		return errors.New("series has no price points")
	}
	for i, p := range s.Points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			return fmt.Errorf("point %d: close must be finite", i)
		}
		if p.Close < 0 {
			return fmt.Errorf("point %d: close must be >= 0", i)
		}
	}
	return nil
}
