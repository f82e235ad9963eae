package phone

import "PhoneStore/internal/phonecsv"

// FirstID is the identifier of the first data row: the header occupies row 1.
const FirstID = phonecsv.FirstPos

type Fields struct {
	Brand   string `json:"Brand"`
	Model   string `json:"Model"`
	Storage string `json:"Storage"`
	RAM     string `json:"RAM"`
	Screen  string `json:"Screen Size (inches)"`
	Camera  string `json:"Camera (MP)"`
	Battery string `json:"Battery Capacity (mAh)"`
	Price   string `json:"Price ($)"`
}

// Blank reports whether f would be dropped on load.
func (f Fields) Blank() bool {
	return f.Brand == "" && f.Model == ""
}

// Record is a phone with its position-derived identifier. The identifier is
// only meaningful until the next write: removing a row renumbers every row
// after it.
type Record struct {
	ID int `json:"id"`
	Fields
}

// Update carries one optional slot per field. Nil slots keep the current value.
type Update struct {
	Brand   *string `json:"brand"`
	Model   *string `json:"model"`
	Storage *string `json:"storage"`
	RAM     *string `json:"ram"`
	Screen  *string `json:"screenSize"`
	Camera  *string `json:"camera"`
	Battery *string `json:"battery"`
	Price   *string `json:"price"`
}

func (u Update) Apply(f Fields) Fields {
	set(&f.Brand, u.Brand)
	set(&f.Model, u.Model)
	set(&f.Storage, u.Storage)
	set(&f.RAM, u.RAM)
	set(&f.Screen, u.Screen)
	set(&f.Camera, u.Camera)
	set(&f.Battery, u.Battery)
	set(&f.Price, u.Price)
	return f
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func fromRow(r phonecsv.Row) Record {
	return Record{
		ID: r.Pos,
		Fields: Fields{
			Brand:   r.Brand,
			Model:   r.Model,
			Storage: r.Storage,
			RAM:     r.RAM,
			Screen:  r.Screen,
			Camera:  r.Camera,
			Battery: r.Battery,
			Price:   r.Price,
		},
	}
}

func toRow(rec Record) phonecsv.Row {
	return phonecsv.Row{
		Pos:     rec.ID,
		Brand:   rec.Brand,
		Model:   rec.Model,
		Storage: rec.Storage,
		RAM:     rec.RAM,
		Screen:  rec.Screen,
		Camera:  rec.Camera,
		Battery: rec.Battery,
		Price:   rec.Price,
	}
}

// FromRows converts decoded file rows to records, keeping their positions as
// identifiers.
func FromRows(rows []phonecsv.Row) []Record {
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromRow(r))
	}
	return out
}

// ToRows converts records to file rows in order.
func ToRows(recs []Record) []phonecsv.Row {
	out := make([]phonecsv.Row, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRow(rec))
	}
	return out
}
