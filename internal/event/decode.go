package event

import "encoding/json"

// DecodePayload decodes an event payload into T. Payloads published in-process
// already have the right type; anything else goes through a JSON round-trip.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}
