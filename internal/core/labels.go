package core

import "fmt"

// LabelEncoder is a bidirectional mapping between human-readable class
// labels and the integer codes the estimators were trained on. The code
// of a label is its index in Classes, fixed at training time.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

func (e *LabelEncoder) Encode(label string) (int, bool) {
	for i, c := range e.Classes {
		if c == label {
			return i, true
		}
	}
	return 0, false
}

func (e *LabelEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.Classes) {
		return "", fmt.Errorf("label code %d out of range [0, %d)", code, len(e.Classes))
	}
	return e.Classes[code], nil
}

// CategoryTable maps a categorical request field (soil type, crop name,
// season, state) to the integer code used during training. Unknown values
// map to code 0 rather than failing; this mirrors the trained pipelines and
// is covered by tests so the behavior is at least deliberate.
type CategoryTable map[string]int

func (t CategoryTable) Code(value string) int {
	code, ok := t[value]
	if !ok {
		return 0
	}
	return code
}
