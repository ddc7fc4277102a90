package search

import (
	"encoding/json"
	"fmt"
)

// JSONCodec encodes loader results for byte-oriented caches.
// Objects decode as Params at every depth, so a cached search reads back
// with the same types a loader returned. It satisfies cache.Marshaler[any].
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("search: encode json: %w", err)
	}
	return data, nil
}

func (JSONCodec) Unmarshal(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("search: decode json: %w", err)
	}
	return cloneValue(v), nil
}
