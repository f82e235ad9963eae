// Package phonecsv reads and writes the flat phone-spec file.
//
// The file is comma separated with a header row. Older files name the
// Storage and RAM columns with a trailing space, newer ones without; Read
// accepts both and Write always emits the trailing-space variant.
package phonecsv

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jszwec/csvutil"
)

const (
	ColBrand   = "Brand"
	ColModel   = "Model"
	ColStorage = "Storage "
	ColRAM     = "RAM "
	ColScreen  = "Screen Size (inches)"
	ColCamera  = "Camera (MP)"
	ColBattery = "Battery Capacity (mAh)"
	ColPrice   = "Price ($)"
)

// FirstPos is the position of the first data row. The header is row 1.
const FirstPos = 2

var ErrBadHeader = errors.New("phonecsv: header has neither Brand nor Model column")

// Row is one data row with every field trimmed. Pos is the row's position in
// the file counting the header as 1.
type Row struct {
	Pos     int    `csv:"-"`
	Brand   string `csv:"Brand"`
	Model   string `csv:"Model"`
	Storage string `csv:"Storage "`
	RAM     string `csv:"RAM "`
	Screen  string `csv:"Screen Size (inches)"`
	Camera  string `csv:"Camera (MP)"`
	Battery string `csv:"Battery Capacity (mAh)"`
	Price   string `csv:"Price ($)"`
}

// Blank reports whether the row carries neither a brand nor a model.
func (r Row) Blank() bool {
	return r.Brand == "" && r.Model == ""
}

// Header returns the column order Write emits.
func Header() []string {
	return []string{ColBrand, ColModel, ColStorage, ColRAM, ColScreen, ColCamera, ColBattery, ColPrice}
}

type looseRow struct {
	Brand         string `csv:"Brand"`
	Model         string `csv:"Model"`
	StorageLegacy string `csv:"Storage "`
	Storage       string `csv:"Storage"`
	RAMLegacy     string `csv:"RAM "`
	RAM           string `csv:"RAM"`
	Screen        string `csv:"Screen Size (inches)"`
	Camera        string `csv:"Camera (MP)"`
	Battery       string `csv:"Battery Capacity (mAh)"`
	Price         string `csv:"Price ($)"`
}

func (l looseRow) row(pos int) Row {
	return Row{
		Pos:     pos,
		Brand:   strings.TrimSpace(l.Brand),
		Model:   strings.TrimSpace(l.Model),
		Storage: firstNonEmpty(l.StorageLegacy, l.Storage),
		RAM:     firstNonEmpty(l.RAMLegacy, l.RAM),
		Screen:  strings.TrimSpace(l.Screen),
		Camera:  strings.TrimSpace(l.Camera),
		Battery: strings.TrimSpace(l.Battery),
		Price:   strings.TrimSpace(l.Price),
	}
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Read decodes every data row of r, blank rows included. An empty input is
// not an error. Cells past the header's width are ignored; a row shorter
// than the header is malformed, and the rows decoded before it are returned
// together with the error.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(skipBOM(r))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	dec, err := csvutil.NewDecoder(&headerWidth{r: cr})
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("phonecsv: read header: %w", err)
	}

	header := dec.Header()
	if !slices.Contains(header, ColBrand) && !slices.Contains(header, ColModel) {
		return nil, ErrBadHeader
	}

	var rows []Row
	for pos := FirstPos; ; pos++ {
		var lr looseRow
		err := dec.Decode(&lr)
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, fmt.Errorf("phonecsv: row %d: %w", pos, err)
		}
		rows = append(rows, lr.row(pos))
	}
}

// headerWidth cuts every record after the header down to the header's
// length and rejects shorter ones.
type headerWidth struct {
	r     *csv.Reader
	width int
}

func (h *headerWidth) Read() ([]string, error) {
	rec, err := h.r.Read()
	if err != nil {
		return rec, err
	}
	switch {
	case h.width == 0:
		h.width = len(rec)
	case len(rec) < h.width:
		return nil, fmt.Errorf("%d of %d fields: %w", len(rec), h.width, csv.ErrFieldCount)
	case len(rec) > h.width:
		rec = rec[:h.width]
	}
	return rec, nil
}

// Write encodes rows under the fixed header. The header is written even when
// rows is empty.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	enc := csvutil.NewEncoder(cw)
	enc.AutoHeader = false
	if err := enc.EncodeHeader(Row{}); err != nil {
		return fmt.Errorf("phonecsv: write header: %w", err)
	}

	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("phonecsv: write row %q %q: %w", r.Brand, r.Model, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

const bom = "\ufeff"

func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(bom)); err == nil && string(b) == bom {
		_, _ = br.Discard(len(bom))
	}
	return br
}
