package enums

import "fmt"

// ConsentDecision records the visitor's cookie/tracking choice.
type ConsentDecision string

const (
	ConsentUndecided ConsentDecision = "undecided"
	ConsentAccepted  ConsentDecision = "accepted"
	ConsentRejected  ConsentDecision = "rejected"
)

var validConsentDecisions = []ConsentDecision{
	ConsentUndecided,
	ConsentAccepted,
	ConsentRejected,
}

// String implements fmt.Stringer.
func (c ConsentDecision) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ConsentDecision.
func (c ConsentDecision) IsValid() bool {
	for _, candidate := range validConsentDecisions {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsDecided reports whether the visitor has made a final choice.
func (c ConsentDecision) IsDecided() bool {
	return c == ConsentAccepted || c == ConsentRejected
}

// ParseConsentDecision converts raw input into a ConsentDecision.
func ParseConsentDecision(value string) (ConsentDecision, error) {
	for _, candidate := range validConsentDecisions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid consent decision %q", value)
}
