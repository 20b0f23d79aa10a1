package mission

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const DateLayout = "2006-01-02"

// BBox is [min_lon, min_lat, max_lon, max_lat].
type BBox [4]float64

func (b BBox) MinLon() float64 { return b[0] }
func (b BBox) MinLat() float64 { return b[1] }
func (b BBox) MaxLon() float64 { return b[2] }
func (b BBox) MaxLat() float64 { return b[3] }

func (b BBox) Validate() error {
	for i, v := range b {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("bbox[%d] is not a finite number", i)
		}
	}
	if b.MinLon() < -180 || b.MaxLon() > 180 {
		return fmt.Errorf("bbox longitude out of range: %v", b)
	}
	if b.MinLat() < -90 || b.MaxLat() > 90 {
		return fmt.Errorf("bbox latitude out of range: %v", b)
	}
	if b.MinLon() > b.MaxLon() || b.MinLat() > b.MaxLat() {
		return fmt.Errorf("bbox min exceeds max: %v", b)
	}
	return nil
}

type Parameters struct {
	BBox      BBox   `json:"bbox"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Fallback used whenever interpretation cannot produce parameters.
func DefaultParameters() Parameters {
	return Parameters{
		BBox:      BBox{85.7, 20.2, 85.9, 20.4},
		StartDate: "2024-01-01",
		EndDate:   "2024-01-15",
	}
}

func (p Parameters) IsZero() bool {
	return p.BBox == BBox{} && p.StartDate == "" && p.EndDate == ""
}

func (p Parameters) Validate() error {
	if p.StartDate == "" || p.EndDate == "" {
		return errors.New("start_date and end_date are required")
	}
	if err := p.BBox.Validate(); err != nil {
		return err
	}
	start, end, err := p.DateRange()
	if err != nil {
		return err
	}
	if start.After(end) {
		return fmt.Errorf("start_date %s is after end_date %s", p.StartDate, p.EndDate)
	}
	return nil
}

// DateRange parses both dates as UTC calendar days.
func (p Parameters) DateRange() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, p.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date %q: %w", p.StartDate, err)
	}
	end, err := time.Parse(DateLayout, p.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q: %w", p.EndDate, err)
	}
	return start, end, nil
}
