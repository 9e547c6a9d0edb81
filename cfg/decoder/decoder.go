package decoder

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Decoder 配置数据解码器接口
// 负责将原始数据解码为 map[string]any / []any 组成的通用结构
type Decoder interface {
	Decode(data []byte) (any, error)
}

// NewDecoderForFile 根据文件后缀选择解码器：
//
//	.json        -> JsonDecoder
//	.yaml/.yml   -> YamlDecoder
//	.toml        -> TomlDecoder
//	.ini         -> IniDecoder
func NewDecoderForFile(filename string) (Decoder, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JsonDecoder{}, nil
	case ".yaml", ".yml":
		return &YamlDecoder{}, nil
	case ".toml":
		return &TomlDecoder{}, nil
	case ".ini":
		return &IniDecoder{}, nil
	default:
		return nil, errors.Errorf("unsupported file extension: %s", ext)
	}
}
