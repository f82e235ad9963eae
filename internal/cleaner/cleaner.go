package cleaner

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"PhoneStore/internal/phonecsv"
)

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	nonDigit   = regexp.MustCompile(`[^\d]`)
	priceNoise = regexp.MustCompile(`[$,\s]`)
)

const sizeUnit = "GB"

type Report struct {
	Original   int
	Cleaned    int
	Duplicates int
	Blank      int
	Output     string
	DryRun     bool
}

// Cleaner normalizes raw rows and drops duplicates.
type Cleaner struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Cleaner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cleaner{log: log}
}

// Clean returns the normalized survivors of rows in input order. The first
// row for a brand/model/storage/ram combination wins, compared without case.
func (c *Cleaner) Clean(rows []phonecsv.Row) ([]phonecsv.Row, Report) {
	var (
		rep  Report
		out  = make([]phonecsv.Row, 0, len(rows))
		seen = make(map[string]bool, len(rows))
	)

	for _, raw := range rows {
		r := normalize(raw)
		if r.Blank() {
			rep.Blank++
			continue
		}

		key := dedupKey(r)
		if seen[key] {
			c.log.Warn("skipping duplicate",
				zap.Int("row", raw.Pos),
				zap.String("brand", r.Brand),
				zap.String("model", r.Model),
				zap.String("storage", r.Storage),
				zap.String("ram", r.RAM),
			)
			rep.Duplicates++
			continue
		}
		seen[key] = true

		r.Pos = len(out) + phonecsv.FirstPos
		out = append(out, r)
	}

	rep.Cleaned = len(out)
	rep.Original = rep.Cleaned + rep.Duplicates
	return out, rep
}

// Run cleans the file at in and writes the survivors to out. With dryRun
// set nothing is written.
func (c *Cleaner) Run(in, out string, dryRun bool) (Report, error) {
	rows, err := phonecsv.ReadFile(in)
	if err != nil {
		return Report{}, fmt.Errorf("read %s: %w", in, err)
	}

	cleaned, rep := c.Clean(rows)
	rep.Output = out
	rep.DryRun = dryRun

	if !dryRun {
		if err := phonecsv.WriteFile(out, cleaned); err != nil {
			return rep, fmt.Errorf("write %s: %w", out, err)
		}
	}

	c.log.Info("clean complete",
		zap.String("input", in),
		zap.String("output", out),
		zap.Bool("dry_run", dryRun),
		zap.Int("original", rep.Original),
		zap.Int("cleaned", rep.Cleaned),
		zap.Int("duplicates", rep.Duplicates),
		zap.Int("blank", rep.Blank),
	)
	return rep, nil
}

func normalize(r phonecsv.Row) phonecsv.Row {
	return phonecsv.Row{
		Pos:     r.Pos,
		Brand:   strings.TrimSpace(r.Brand),
		Model:   strings.TrimSpace(r.Model),
		Storage: NormalizeSize(r.Storage),
		RAM:     NormalizeSize(r.RAM),
		Screen:  strings.TrimSpace(r.Screen),
		Camera:  NormalizeCamera(r.Camera),
		Battery: NormalizeBattery(r.Battery),
		Price:   NormalizePrice(r.Price),
	}
}

func dedupKey(r phonecsv.Row) string {
	return strings.ToLower(strings.Join([]string{r.Brand, r.Model, r.Storage, r.RAM}, "|"))
}

// NormalizeSize turns "128 GB" and "128" into "128GB". The unit check is
// case sensitive, so "128gb" becomes "128gbGB".
func NormalizeSize(v string) string {
	v = spaceRun.ReplaceAllString(v, "")
	if v != "" && !strings.HasSuffix(v, sizeUnit) {
		v += sizeUnit
	}
	return v
}

// NormalizeCamera drops the "MP" unit and collapses whitespace runs. The
// result is not trimmed: "12 MP" becomes "12 ".
func NormalizeCamera(v string) string {
	v = strings.ReplaceAll(strings.TrimSpace(v), "MP", "")
	return spaceRun.ReplaceAllString(v, " ")
}

func NormalizeBattery(v string) string {
	return nonDigit.ReplaceAllString(v, "")
}

func NormalizePrice(v string) string {
	return priceNoise.ReplaceAllString(v, "")
}
