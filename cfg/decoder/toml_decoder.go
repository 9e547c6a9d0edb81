package decoder

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// TomlDecoder TOML格式解码器
type TomlDecoder struct{}

func (t *TomlDecoder) Decode(data []byte) (any, error) {
	result := map[string]any{}
	if _, err := toml.Decode(string(data), &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode TOML")
	}
	return result, nil
}
