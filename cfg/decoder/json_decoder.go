package decoder

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// JsonDecoder JSON格式解码器
type JsonDecoder struct{}

func (j *JsonDecoder) Decode(data []byte) (any, error) {
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode JSON")
	}
	return result, nil
}
