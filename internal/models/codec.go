package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned for payloads that cannot be decoded into a move
// intent.
var ErrMalformed = errors.New("malformed payload")

type rawIntent struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

// DecodeMoveIntent decodes a {"x":..,"y":..} payload. Both fields are
// required; range checking is left to the match.
func DecodeMoveIntent(data []byte) (MoveIntent, error) {
	var raw rawIntent
	if err := strictUnmarshal(data, &raw); err != nil {
		return MoveIntent{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw.X == nil || raw.Y == nil {
		return MoveIntent{}, fmt.Errorf("%w: x and y are required", ErrMalformed)
	}
	return MoveIntent{X: *raw.X, Y: *raw.Y}, nil
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data")
	}
	return nil
}
