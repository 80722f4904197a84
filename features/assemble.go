package features

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

/*
RawValue is one collected input: either a label still needing encoding or
an already numeric value.
*/
type RawValue struct {
	Text     string
	Num      float64
	IsNumber bool
}

// Label wraps a human readable choice or an unparsed number.
func Label(s string) RawValue { return RawValue{Text: s} }

// Number wraps an already numeric value.
func Number(f float64) RawValue { return RawValue{Num: f, IsNumber: true} }

func (r RawValue) String() string {
	if r.IsNumber {
		return strconv.FormatFloat(r.Num, 'g', -1, 64)
	}
	return r.Text
}

/*
Inputs maps field names to the raw values collected for them
*/
type Inputs map[string]RawValue

/*
InputsFromForm collects inputs from a submitted HTML form.

Blank values are left out so they surface as missing fields.
*/
func InputsFromForm(form url.Values) Inputs {
	in := make(Inputs, len(form))
	for name, values := range form {
		if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
			continue
		}
		in[name] = Label(values[0])
	}
	return in
}

/*
InputsFromJSON collects inputs from a decoded JSON object.

Strings become labels, numbers stay numeric, null is treated as absent and
anything else is kept as its text so validation can reject it.
*/
func InputsFromJSON(body map[string]any) Inputs {
	in := make(Inputs, len(body))
	for name, value := range body {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
			in[name] = Label(v)
		case float64:
			in[name] = Number(v)
		case int:
			in[name] = Number(float64(v))
		default:
			in[name] = Label(fmt.Sprint(v))
		}
	}
	return in
}

/*
Assemble builds the feature vector for one prediction.

Every column of Order() is filled exactly once, in order. A missing field is
an error, never a default. Inputs not named by Order() are ignored.
*/
func Assemble(in Inputs) (FeatureVector, error) {
	vector := make(FeatureVector, 0, len(featureOrder))
	for _, name := range featureOrder {
		raw, ok := in[name]
		if !ok {
			return nil, &MissingFieldError{Field: name}
		}

		var (
			value float64
			err   error
		)
		if f, numeric := bounds[name]; numeric {
			value, err = validateNumber(f, raw)
		} else {
			value, err = encodeChoice(name, raw)
		}
		if err != nil {
			return nil, err
		}

		vector = append(vector, Feature{Name: name, Value: value})
	}
	return vector, nil
}

func encodeChoice(name string, raw RawValue) (float64, error) {
	if raw.IsNumber {
		if !isCode(name, raw.Num) {
			return 0, &InvalidLabelError{Field: name, Label: raw.String()}
		}
		return raw.Num, nil
	}

	code, err := Encode(name, raw.Text)
	if err != nil {
		return 0, err
	}
	return float64(code), nil
}

func validateNumber(f Field, raw RawValue) (float64, error) {
	value := raw.Num
	if !raw.IsNumber {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(raw.Text), 64)
		if err != nil {
			return 0, &ValidationError{
				Field:  f.Name,
				Min:    f.Min,
				Max:    f.Max,
				Reason: fmt.Sprintf("%q is not a number", raw.Text),
				Err:    ErrNotANumber,
			}
		}
		value = parsed
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &ValidationError{Field: f.Name, Value: value, Min: f.Min, Max: f.Max, Reason: "value must be finite", Err: ErrNotANumber}
	}
	if value < f.Min || value > f.Max {
		return 0, &ValidationError{Field: f.Name, Value: value, Min: f.Min, Max: f.Max}
	}
	if f.Integral && value != math.Trunc(value) {
		return 0, &ValidationError{Field: f.Name, Value: value, Min: f.Min, Max: f.Max, Reason: "value must be a whole number"}
	}
	return value, nil
}
