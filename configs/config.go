// Package configs provides library defaults loaded from embedded YAML files.
// All hardcoded values live in defaults.yaml.
package configs

import (
	_ "embed"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults holds all library default values (loaded from defaults.yaml at startup).
var Defaults LibDefaults

func init() {
	if err := yaml.Unmarshal(defaultsYAML, &Defaults); err != nil {
		panic("vmware-vm-automation: invalid defaults.yaml: " + err.Error())
	}
}

// LibDefaults holds all configurable library defaults.
type LibDefaults struct {
	VCenter VCenterDefaults `yaml:"vcenter"`
	VM      VMDefaults      `yaml:"vm"`
	Task    TaskDefaults    `yaml:"task"`
}

// VCenterDefaults holds vCenter connection defaults.
type VCenterDefaults struct {
	Port int `yaml:"port"`
}

// VMDefaults holds VM hardware defaults.
type VMDefaults struct {
	MemoryMB            int    `yaml:"memory_mb"`
	NumCPUs             int    `yaml:"num_cpus"`
	GuestOS             string `yaml:"guest_os"`
	HardwareVersion     string `yaml:"hardware_version"`
	Annotation          string `yaml:"annotation"`
	DefaultResourcePool string `yaml:"default_resource_pool"`
	NICSummary          string `yaml:"nic_summary"`
}

// TaskDefaults holds task polling defaults. A timeout of 0 means the wait
// is unbounded; set task.timeout_minutes to bound stuck
// remote tasks.
type TaskDefaults struct {
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	TimeoutMinutes      int `yaml:"timeout_minutes"`
}

// As time.Duration convenience methods.

func (t TaskDefaults) PollInterval() time.Duration {
	return time.Duration(t.PollIntervalSeconds) * time.Second
}
func (t TaskDefaults) Timeout() time.Duration {
	return time.Duration(t.TimeoutMinutes) * time.Minute
}
