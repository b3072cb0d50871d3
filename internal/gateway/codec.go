package gateway

import (
	"encoding/json"
	"fmt"
)

// Codec carries gateway messages as JSON over gRPC. The remote service
// speaks the same document shapes as its REST API, so no generated
// protobuf types are involved.
type Codec struct{}

// Name is registered as the content-subtype "application/grpc+json".
func (Codec) Name() string {
	return "json"
}

func (Codec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	return b, nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", v, err)
	}
	return nil
}
