package decoder

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// IniDecoder INI格式解码器
// section 名中的点号表示嵌套，例如 [store.options] 对应 store.options 下的键
// INI 无法表达列表，表结构需要放到 schemaFile 中
type IniDecoder struct{}

func (i *IniDecoder) Decode(data []byte) (any, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:         true,
		SpaceBeforeInlineComment: true,
	}, data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode INI")
	}

	result := map[string]any{}
	for _, section := range file.Sections() {
		node := result
		if section.Name() != ini.DefaultSection {
			for _, part := range strings.Split(section.Name(), ".") {
				child, ok := node[part].(map[string]any)
				if !ok {
					child = map[string]any{}
					node[part] = child
				}
				node = child
			}
		}
		for _, key := range section.Keys() {
			node[key.Name()] = key.String()
		}
	}

	return result, nil
}
