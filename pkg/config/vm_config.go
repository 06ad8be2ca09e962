// Package config defines the JSON records driving create and clone
// operations, with loading, defaulting and validation.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Bibi40k/vmware-vm-automation/configs"
	"github.com/Bibi40k/vmware-vm-automation/internal/utils"
)

// MissingValueError reports a required JSON key with no usable value.
type MissingValueError struct {
	Key string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("value required from json for key (%s)", e.Key)
}

// DiskSpec describes one hard disk to add after creation.
type DiskSpec struct {
	Label      string `json:"disk-label"`
	CapacityKB int64  `json:"capacity-KB"`
}

// CDDriveSpec describes one CD-ROM drive. Without an ISO the drive gets a
// host passthrough backing. The Connected key is capitalized in the wire
// format for compatibility with existing record files.
type CDDriveSpec struct {
	ISODatastore string `json:"iso-datastore"`
	ISOFilename  string `json:"iso-filename"`
	Connected    bool   `json:"Connected"`
}

// ISOPath returns the "[datastore] file" path for the drive's ISO, or empty
// when either part is missing.
func (c CDDriveSpec) ISOPath() string {
	if c.ISODatastore == "" || c.ISOFilename == "" {
		return ""
	}
	return utils.DatastorePath(c.ISODatastore, c.ISOFilename)
}

// NetworkCardSpec describes one NIC to add after creation.
type NetworkCardSpec struct {
	MACAddress     string `json:"mac-address"`
	NetworkLabel   string `json:"network-label"`
	MACAddressType string `json:"mac-address-type"`
	Connected      bool   `json:"connected"`
	Summary        string `json:"summary"`
}

// NICUpdateSpec describes edits to one NIC on a cloned VM, identified by its
// hardware label. Empty fields leave the corresponding attribute untouched.
type NICUpdateSpec struct {
	NICHWName       string `json:"nic-hdw-name"`
	NewMACAddress   string `json:"new-mac-address"`
	NewNetworkLabel string `json:"new-network-label"`
	Connected       bool   `json:"connected"`
}

// CloneNetworkCards groups the NIC edits applied after a clone.
type CloneNetworkCards struct {
	Update []NICUpdateSpec `json:"update"`
}

// CreateConfig is the record driving a create operation.
type CreateConfig struct {
	VMName       string            `json:"vm-name"`
	Datacenter   string            `json:"datacenter"`
	Datastore    string            `json:"datastore"`
	ResourcePool string            `json:"resource-pool"`
	Folder       string            `json:"folder"`
	PowerOn      bool              `json:"power-on"`
	MemoryMB     int64             `json:"memory-MB"`
	NumCPUs      int32             `json:"num-CPUs"`
	GuestOSID    string            `json:"guest-OS-id"`
	Version      string            `json:"version"`
	HardDisks    []DiskSpec        `json:"hard-disk"`
	CDDrives     []CDDriveSpec     `json:"cd-drive"`
	NetworkCards []NetworkCardSpec `json:"network-card"`
}

// CloneConfig is the record driving a clone operation.
type CloneConfig struct {
	VMName       string            `json:"vm-name"`
	Template     string            `json:"template"`
	Datacenter   string            `json:"datacenter"`
	Datastore    string            `json:"datastore"`
	ResourcePool string            `json:"resource-pool"`
	Folder       string            `json:"folder"`
	PowerOn      bool              `json:"power-on"`
	NetworkCards CloneNetworkCards `json:"network-card"`
}

// LoadCreate reads, defaults and validates a create record.
func LoadCreate(path string) (*CreateConfig, error) {
	var cfg CreateConfig
	if err := loadJSON(path, &cfg); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClone reads and validates a clone record.
func LoadClone(path string) (*CloneConfig, error) {
	var cfg CloneConfig
	if err := loadJSON(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return nil
}

// SetDefaults fills unset hardware values and NIC summaries with the library
// defaults.
func (c *CreateConfig) SetDefaults() {
	if c.MemoryMB == 0 {
		c.MemoryMB = int64(configs.Defaults.VM.MemoryMB)
	}
	if c.NumCPUs == 0 {
		c.NumCPUs = int32(configs.Defaults.VM.NumCPUs)
	}
	if c.GuestOSID == "" {
		c.GuestOSID = configs.Defaults.VM.GuestOS
	}
	if c.Version == "" {
		c.Version = configs.Defaults.VM.HardwareVersion
	}
	for i := range c.NetworkCards {
		if c.NetworkCards[i].Summary == "" {
			c.NetworkCards[i].Summary = configs.Defaults.VM.NICSummary
		}
	}
}

// Validate checks the required keys of a create record.
func (c *CreateConfig) Validate() error {
	if c.VMName == "" {
		return &MissingValueError{Key: "vm-name"}
	}
	if c.Datastore == "" {
		return &MissingValueError{Key: "datastore"}
	}
	if c.ResourcePool == "" {
		return &MissingValueError{Key: "resource-pool"}
	}
	if len(c.HardDisks) == 0 {
		return &MissingValueError{Key: "hard-disk"}
	}
	if len(c.CDDrives) == 0 {
		return &MissingValueError{Key: "cd-drive"}
	}
	if len(c.NetworkCards) == 0 {
		return &MissingValueError{Key: "network-card"}
	}
	for _, d := range c.HardDisks {
		if d.Label == "" {
			return &MissingValueError{Key: "disk-label"}
		}
		if d.CapacityKB == 0 {
			return &MissingValueError{Key: "capacity-KB"}
		}
	}
	for _, n := range c.NetworkCards {
		if n.NetworkLabel == "" {
			return &MissingValueError{Key: "network-label"}
		}
		if n.MACAddressType == "" {
			return &MissingValueError{Key: "mac-address-type"}
		}
		if n.MACAddress != "" {
			if err := utils.ValidateMAC(n.MACAddress); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate checks the required keys of a clone record.
func (c *CloneConfig) Validate() error {
	if c.VMName == "" {
		return &MissingValueError{Key: "vm-name"}
	}
	if c.Template == "" {
		return &MissingValueError{Key: "template"}
	}
	if c.Datastore == "" {
		return &MissingValueError{Key: "datastore"}
	}
	if c.ResourcePool == "" {
		return &MissingValueError{Key: "resource-pool"}
	}
	for _, u := range c.NetworkCards.Update {
		if u.NICHWName == "" {
			return &MissingValueError{Key: "nic-hdw-name"}
		}
		if u.NewMACAddress != "" {
			if err := utils.ValidateMAC(u.NewMACAddress); err != nil {
				return err
			}
		}
	}
	return nil
}
