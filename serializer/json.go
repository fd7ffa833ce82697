package serializer

import "encoding/json"

// JSON returns a Serializer that round-trips V through encoding/json,
// going via Dict as an intermediate representation. V must be
// JSON-marshalable and marshal to a JSON object; ToDict reports an error
// otherwise, and FromDict reports one when d does not fit V.
func JSON[V any]() Serializer[V] {
	return jsonSerializer[V]{}
}

type jsonSerializer[V any] struct{}

func (jsonSerializer[V]) ToDict(model V) (Dict, error) {
	raw, err := json.Marshal(model)
	if err != nil {
		return nil, err
	}
	var d Dict
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return d, nil
}

func (jsonSerializer[V]) FromDict(d Dict) (V, error) {
	var model V
	raw, err := json.Marshal(d)
	if err != nil {
		return model, err
	}
	if err := json.Unmarshal(raw, &model); err != nil {
		return model, err
	}
	return model, nil
}
