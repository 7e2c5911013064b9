package types

import "encoding/json"

// Profile holds the user's height in centimetres and weight in kilograms.
type Profile struct {
	Height *float64 `json:"height"`
	Weight *float64 `json:"weight"`
}

// ProfileResponse is returned by the profile endpoints.
type ProfileResponse struct {
	Profile Profile  `json:"profile"`
	BMI     *float64 `json:"bmi"`
}

// ProfileUpdate is the body of a profile update. Fields are raw so that the
// server can reject non-numeric values with a precise message.
type ProfileUpdate struct {
	Height json.RawMessage `json:"height,omitempty"`
	Weight json.RawMessage `json:"weight,omitempty"`
}

// NewProfileUpdate builds an update; nil values encode as null and leave the
// stored value unchanged.
func NewProfileUpdate(height, weight *float64) ProfileUpdate {
	return ProfileUpdate{Height: NumberOrNull(height), Weight: NumberOrNull(weight)}
}

// BMIRequest is the body of the BMI calculation endpoints.
type BMIRequest struct {
	Weight json.RawMessage `json:"weight,omitempty"`
	Height json.RawMessage `json:"height,omitempty"`
}

// NewBMIRequest builds a BMI request from kilograms and centimetres.
func NewBMIRequest(weight, height float64) BMIRequest {
	return BMIRequest{Weight: numberJSON(weight), Height: numberJSON(height)}
}

// BMIResponse carries a computed body mass index.
type BMIResponse struct {
	BMI float64 `json:"bmi"`
}
