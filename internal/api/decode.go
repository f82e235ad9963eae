package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"PhoneStore/internal/phone"
)

const maxJSONBody = 1 << 20

type createReq struct {
	Brand   string `json:"brand" validate:"required_without=Model"`
	Model   string `json:"model" validate:"required_without=Brand"`
	Storage string `json:"storage"`
	RAM     string `json:"ram"`
	Screen  string `json:"screenSize"`
	Camera  string `json:"camera"`
	Battery string `json:"battery"`
	Price   string `json:"price"`
}

func (c *createReq) trim() {
	for _, p := range []*string{&c.Brand, &c.Model, &c.Storage, &c.RAM, &c.Screen, &c.Camera, &c.Battery, &c.Price} {
		*p = strings.TrimSpace(*p)
	}
}

func (c createReq) fields() phone.Fields {
	return phone.Fields{
		Brand:   c.Brand,
		Model:   c.Model,
		Storage: c.Storage,
		RAM:     c.RAM,
		Screen:  c.Screen,
		Camera:  c.Camera,
		Battery: c.Battery,
		Price:   c.Price,
	}
}

func trimUpdate(u *phone.Update) {
	for _, p := range []*string{u.Brand, u.Model, u.Storage, u.RAM, u.Screen, u.Camera, u.Battery, u.Price} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

// decodeJSON reads exactly one JSON object into dst, rejecting unknown keys.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]any{"cause": err.Error()}
	}

	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return map[string]any{"fields": out}
}
