package features

import (
	"strings"
)

/*
Kind is the kind of input a field collects.
*/
type Kind int

const (
	KindChoice Kind = iota
	KindNumber
)

/*
String returns the string representation of the kind
*/
func (k Kind) String() string {
	switch k {
	case KindChoice:
		return "choice"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

// MarshalText lets Kind appear by name in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

/*
Field describes one input the form collects and the column it fills.
*/
type Field struct {
	Name    string   `json:"name"`
	Prompt  string   `json:"prompt"`
	Kind    Kind     `json:"kind"`
	Choices []string `json:"choices,omitempty"`
	// inclusive bounds, numeric fields only
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	// whether the number must be whole
	Integral bool `json:"integral,omitempty"`
}

// Numeric upper bounds, matching the limits of the input widgets.
const (
	MaxTenure         = 100
	MaxMonthlyCharges = 10000.0
	MaxTotalCharges   = 100000.0
)

// column order the pipeline was trained against
var featureOrder = []string{
	"gender", "SeniorCitizen", "Partner", "Dependents", "tenure",
	"PhoneService", "Contract", "PaperlessBilling", "MonthlyCharges",
	"TotalCharges", "MultipleLines_No phone service", "MultipleLines_Yes",
	"OnlineSecurity_No internet service", "OnlineSecurity_Yes",
	"OnlineBackup_No internet service", "OnlineBackup_Yes",
	"DeviceProtection_No internet service", "DeviceProtection_Yes",
	"TechSupport_No internet service", "TechSupport_Yes",
	"StreamingTV_No internet service", "StreamingTV_Yes",
	"StreamingMovies_No internet service", "StreamingMovies_Yes",
	"InternetService_Fiber optic", "InternetService_No",
	"PaymentMethod_Credit card (automatic)",
	"PaymentMethod_Electronic check", "PaymentMethod_Mailed check",
}

// first one-hot service column in featureOrder
const serviceOptionsStart = 10

type choice struct {
	label string
	code  int
}

var (
	genderChoices   = []choice{{"Female", 0}, {"Male", 1}}
	yesNoChoices    = []choice{{"No", 0}, {"Yes", 1}}
	contractChoices = []choice{{"Month-to-month", 0}, {"One year", 1}, {"Two year", 2}}
)

var (
	encodings map[string][]choice
	fields    []Field
)

func init() {
	encodings = map[string][]choice{
		"gender":           genderChoices,
		"SeniorCitizen":    yesNoChoices,
		"Partner":          yesNoChoices,
		"Dependents":       yesNoChoices,
		"PhoneService":     yesNoChoices,
		"Contract":         contractChoices,
		"PaperlessBilling": yesNoChoices,
	}
	for _, name := range featureOrder[serviceOptionsStart:] {
		encodings[name] = yesNoChoices
	}

	prompts := map[string]string{
		"gender":           "Gender",
		"SeniorCitizen":    "Senior Citizen?",
		"Partner":          "Has Partner?",
		"Dependents":       "Has Dependents?",
		"PhoneService":     "Phone Service?",
		"Contract":         "Contract Type",
		"PaperlessBilling": "Paperless Billing?",
	}

	fields = make([]Field, 0, len(featureOrder))
	for _, name := range featureOrder {
		if b, ok := bounds[name]; ok {
			fields = append(fields, b)
			continue
		}
		prompt, ok := prompts[name]
		if !ok {
			prompt = servicePrompt(name)
		}
		fields = append(fields, Field{
			Name:    name,
			Prompt:  prompt,
			Kind:    KindChoice,
			Choices: labels(encodings[name]),
		})
	}
}

var bounds = map[string]Field{
	"tenure":         {Name: "tenure", Prompt: "Tenure (in months)", Kind: KindNumber, Min: 0, Max: MaxTenure, Integral: true},
	"MonthlyCharges": {Name: "MonthlyCharges", Prompt: "Monthly Charges", Kind: KindNumber, Min: 0, Max: MaxMonthlyCharges},
	"TotalCharges":   {Name: "TotalCharges", Prompt: "Total Charges", Kind: KindNumber, Min: 0, Max: MaxTotalCharges},
}

// servicePrompt turns a one-hot column name into the question shown on the form.
func servicePrompt(column string) string {
	label := strings.ReplaceAll(column, "_", " ")
	label = strings.ReplaceAll(label, "No internet service", "No Internet")
	label = strings.ReplaceAll(label, "No phone service", "No Phone")
	return label + "?"
}

func labels(choices []choice) []string {
	out := make([]string, len(choices))
	for i, c := range choices {
		out[i] = c.label
	}
	return out
}

/*
Order returns the feature names in the exact order the pipeline expects.

The returned slice is a copy and may be modified by the caller.
*/
func Order() []string {
	out := make([]string, len(featureOrder))
	copy(out, featureOrder)
	return out
}

/*
ServiceOptions returns the one-hot service option columns, in order
*/
func ServiceOptions() []string {
	return Order()[serviceOptionsStart:]
}

/*
Fields returns the description of every input, in column order.
*/
func Fields() []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		f.Choices = append([]string(nil), f.Choices...)
		out[i] = f
	}
	return out
}

/*
Lookup returns the field description for a column name.
*/
func Lookup(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

/*
Encode converts a human readable choice into the numeric code the pipeline
was trained on.
*/
func Encode(field, label string) (int, error) {
	choices, ok := encodings[field]
	if !ok {
		return 0, &InvalidLabelError{Field: field, Label: label, Err: ErrUnknownField}
	}

	label = strings.TrimSpace(label)
	for _, c := range choices {
		if c.label == label {
			return c.code, nil
		}
	}
	return 0, &InvalidLabelError{Field: field, Label: label}
}

// isCode reports whether code is one of the field's encoded values.
func isCode(field string, code float64) bool {
	for _, c := range encodings[field] {
		if float64(c.code) == code {
			return true
		}
	}
	return false
}
