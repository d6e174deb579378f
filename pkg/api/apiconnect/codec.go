package apiconnect

import "encoding/json"

// jsonCodec encodes plain Go messages with encoding/json. It is registered
// under the name "json" so Connect clients talk application/json.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}
