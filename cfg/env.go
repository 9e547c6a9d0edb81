package cfg

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadWithEnv 与 Load 相同，之后用带 prefix 前缀的环境变量覆盖文件中的值
// 去掉前缀后以 "__" 分隔层级，例如 SURREALGATE_DATABASE__PASSWORD 对应 database.password
func LoadWithEnv(filename string, prefix string, object any) error {
	raw, err := loadRaw(filename)
	if err != nil {
		return err
	}

	m, ok := raw.(map[string]any)
	if !ok {
		return errors.Errorf("file %s: top level must be an object", filename)
	}

	return Decode(OverrideFromEnv(m, prefix, os.Environ()), object)
}

// OverrideFromEnv 每一段与已有的键忽略大小写和下划线匹配，没有匹配时按驼峰命名新建
// 路径中间遇到非对象的值时跳过该变量
func OverrideFromEnv(raw map[string]any, prefix string, environ []string) map[string]any {
	if raw == nil {
		raw = map[string]any{}
	}
	if prefix == "" {
		return raw
	}

	for _, kv := range environ {
		idx := strings.IndexByte(kv, '=')
		if idx == -1 || !strings.HasPrefix(kv[:idx], prefix) {
			continue
		}
		name, value := kv[len(prefix):idx], kv[idx+1:]
		if name == "" {
			continue
		}
		setPath(raw, strings.Split(name, "__"), value)
	}

	return raw
}

func setPath(m map[string]any, path []string, value string) {
	for i, segment := range path {
		if segment == "" {
			return
		}
		key := matchKey(m, segment)

		if i == len(path)-1 {
			m[key] = value
			return
		}

		child, ok := m[key]
		if !ok {
			next := map[string]any{}
			m[key] = next
			m = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return
		}
		m = next
	}
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

func matchKey(m map[string]any, segment string) string {
	target := normalizeKey(segment)
	for k := range m {
		if normalizeKey(k) == target {
			return k
		}
	}
	return camelCase(segment)
}

// camelCase CREATE_TABLES_ON_START -> createTablesOnStart
func camelCase(s string) string {
	parts := strings.Split(strings.ToLower(s), "_")
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i > 0 && b.Len() > 0 {
			b.WriteString(strings.ToUpper(part[:1]) + part[1:])
			continue
		}
		b.WriteString(part)
	}
	return b.String()
}
