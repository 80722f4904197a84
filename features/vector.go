package features

import (
	"bytes"
	"encoding/json"
)

/*
Feature is one named column of a feature vector
*/
type Feature struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

/*
FeatureVector is one ordered row of encoded values for a single customer.

It is built fresh for every prediction and discarded afterwards.
*/
type FeatureVector []Feature

/*
Names returns the column names in vector order
*/
func (v FeatureVector) Names() []string {
	names := make([]string, len(v))
	for i, f := range v {
		names[i] = f.Name
	}
	return names
}

/*
Values returns the column values in vector order
*/
func (v FeatureVector) Values() []float64 {
	values := make([]float64, len(v))
	for i, f := range v {
		values[i] = f.Value
	}
	return values
}

/*
Get returns the value of a named column
*/
func (v FeatureVector) Get(name string) (float64, bool) {
	for _, f := range v {
		if f.Name == name {
			return f.Value, true
		}
	}
	return 0, false
}

/*
Matches reports whether the vector holds exactly the given columns, in the
given order.
*/
func (v FeatureVector) Matches(order []string) bool {
	if len(v) != len(order) {
		return false
	}
	for i, f := range v {
		if f.Name != order[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the vector as a JSON object that keeps column order.
func (v FeatureVector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
