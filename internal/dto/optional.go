package dto

import "encoding/json"

// OptionalString distinguishes an absent JSON field from an explicit null:
// absent leaves the stored value unchanged, null clears it, a string sets it.
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON records that the field appeared in the payload.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	o.Value = &value
	return nil
}

// MarshalJSON round-trips the tri-state for logging and tests.
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
