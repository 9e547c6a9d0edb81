package schema

import (
	"encoding/json"
)

// Capability 表上可以对外暴露的操作
type Capability string

const (
	CapabilityRead   Capability = "read"
	CapabilityWrite  Capability = "write"
	CapabilityUpdate Capability = "update"
	CapabilityDelete Capability = "delete"
	CapabilityInfo   Capability = "info"
)

// AllCapabilities 固定顺序，用于输出和遍历
var AllCapabilities = []Capability{
	CapabilityRead,
	CapabilityWrite,
	CapabilityUpdate,
	CapabilityDelete,
	CapabilityInfo,
}

// Capabilities 每个操作的开关
type Capabilities struct {
	enabled map[Capability]bool
}

// CapabilitiesOptions 未配置的操作默认开启
type CapabilitiesOptions struct {
	Read   *bool `cfg:"read"`
	Write  *bool `cfg:"write"`
	Update *bool `cfg:"update"`
	Delete *bool `cfg:"delete"`
	Info   *bool `cfg:"info"`
}

// NewCapabilities 未配置的操作默认开启
func NewCapabilities(options *CapabilitiesOptions) Capabilities {
	if options == nil {
		options = &CapabilitiesOptions{}
	}

	flag := func(v *bool) bool {
		return v == nil || *v
	}

	return Capabilities{enabled: map[Capability]bool{
		CapabilityRead:   flag(options.Read),
		CapabilityWrite:  flag(options.Write),
		CapabilityUpdate: flag(options.Update),
		CapabilityDelete: flag(options.Delete),
		CapabilityInfo:   flag(options.Info),
	}}
}

// Enabled 零值 Capabilities 视为全部开启
func (c Capabilities) Enabled(capability Capability) bool {
	if c.enabled == nil {
		return true
	}
	enabled, ok := c.enabled[capability]
	return ok && enabled
}

// List 已开启的操作，按 AllCapabilities 顺序
func (c Capabilities) List() []Capability {
	var result []Capability
	for _, capability := range AllCapabilities {
		if c.Enabled(capability) {
			result = append(result, capability)
		}
	}
	return result
}

// Map 输出为 {"read": true, ...}
func (c Capabilities) Map() map[string]bool {
	result := make(map[string]bool, len(AllCapabilities))
	for _, capability := range AllCapabilities {
		result[string(capability)] = c.Enabled(capability)
	}
	return result
}

func (c Capabilities) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Map())
}
