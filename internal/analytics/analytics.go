// Package analytics aggregates a phone record set into summary figures.
package analytics

import (
	"math"
	"strconv"
	"strings"

	"PhoneStore/internal/phone"
)

type PriceRanges struct {
	UpTo200   int `json:"0-200"`
	UpTo500   int `json:"200-500"`
	UpTo1000  int `json:"500-1000"`
	Above1000 int `json:"1000+"`
}

type Snapshot struct {
	TotalPhones       int            `json:"totalPhones"`
	TotalBrands       int            `json:"totalBrands"`
	AvgPrice          float64        `json:"avgPrice"`
	TotalValue        float64        `json:"totalValue"`
	BrandDistribution map[string]int `json:"brandDistribution"`
	PriceRanges       PriceRanges    `json:"priceRanges"`
}

// Compute is pure: it reads recs and nothing else. Prices that do not parse
// are left out of every price figure but the record still counts towards
// the totals.
func Compute(recs []phone.Record) Snapshot {
	s := Snapshot{
		TotalPhones:       len(recs),
		BrandDistribution: make(map[string]int),
	}

	var (
		sum float64
		n   int
	)
	for _, r := range recs {
		if r.Brand != "" {
			s.BrandDistribution[r.Brand]++
		}

		p, ok := ParsePrice(r.Price)
		if !ok {
			continue
		}
		sum += p
		n++
		s.PriceRanges.add(p)
	}

	s.TotalBrands = len(s.BrandDistribution)
	s.TotalValue = round2(sum)
	if n > 0 {
		s.AvgPrice = round2(sum / float64(n))
	}
	return s
}

// ParsePrice strips the currency sign, thousands separators and surrounding
// whitespace from raw and parses what is left.
func ParsePrice(raw string) (float64, bool) {
	v := strings.NewReplacer("$", "", ",", "").Replace(raw)
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}

	p, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, false
	}
	return p, true
}

func (r *PriceRanges) add(p float64) {
	switch {
	case p <= 200:
		r.UpTo200++
	case p <= 500:
		r.UpTo500++
	case p <= 1000:
		r.UpTo1000++
	default:
		r.Above1000++
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
