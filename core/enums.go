package core

import "fmt"

// Confidence is the trust band of a recovered offset.
// Values are ordered: Synthetic < Medium < High < Exact.
type Confidence int

const (
	// ConfidenceSynthetic marks a position estimated without any textual evidence.
	ConfidenceSynthetic Confidence = iota + 1
	// ConfidenceMedium marks an approximate or oracle-assisted match.
	ConfidenceMedium
	// ConfidenceHigh marks a near-exact match.
	ConfidenceHigh
	// ConfidenceExact marks a verbatim match.
	ConfidenceExact
)

var confidenceNames = map[Confidence]string{
	ConfidenceSynthetic: "synthetic",
	ConfidenceMedium:    "medium",
	ConfidenceHigh:      "high",
	ConfidenceExact:     "exact",
}

// Confidences lists every band from most to least trusted.
var Confidences = []Confidence{ConfidenceExact, ConfidenceHigh, ConfidenceMedium, ConfidenceSynthetic}

func (c Confidence) String() string {
	if name, ok := confidenceNames[c]; ok {
		return name
	}
	return fmt.Sprintf("confidence(%d)", int(c))
}

// Downgrade returns the next lower band. Synthetic stays Synthetic.
func (c Confidence) Downgrade() Confidence {
	switch c {
	case ConfidenceExact:
		return ConfidenceHigh
	case ConfidenceHigh:
		return ConfidenceMedium
	default:
		return ConfidenceSynthetic
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Confidence) MarshalText() ([]byte, error) {
	name, ok := confidenceNames[c]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownConfidence, int(c))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Confidence) UnmarshalText(text []byte) error {
	for value, name := range confidenceNames {
		if name == string(text) {
			*c = value
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownConfidence, string(text))
}

// Method identifies the strategy that produced a MatchResult.
type Method int

const (
	MethodExact Method = iota + 1
	MethodNormalized
	MethodRelaxed
	MethodMultiAnchor
	MethodSlidingWindow
	MethodEmbedding
	MethodAssisted
	MethodInterpolation
)

var methodNames = map[Method]string{
	MethodExact:         "exact",
	MethodNormalized:    "normalized",
	MethodRelaxed:       "relaxed",
	MethodMultiAnchor:   "multi_anchor",
	MethodSlidingWindow: "sliding_window",
	MethodEmbedding:     "embedding",
	MethodAssisted:      "assisted",
	MethodInterpolation: "interpolation",
}

// Methods lists every method in cascade order.
var Methods = []Method{
	MethodExact,
	MethodNormalized,
	MethodRelaxed,
	MethodMultiAnchor,
	MethodSlidingWindow,
	MethodEmbedding,
	MethodAssisted,
	MethodInterpolation,
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	name, ok := methodNames[m]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	for value, name := range methodNames {
		if name == string(text) {
			*m = value
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownMethod, string(text))
}
