package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const createJSON = `{
  "vm-name": "ci-vm-01",
  "datastore": "fast-ds",
  "resource-pool": "ci-pool",
  "folder": "ci-folder",
  "power-on": true,
  "num-CPUs": 2,
  "hard-disk": [
    {"disk-label": "Hard-Disk-1", "capacity-KB": 1048576}
  ],
  "cd-drive": [
    {"iso-datastore": "iso-ds", "iso-filename": "ubuntu.iso", "Connected": true},
    {}
  ],
  "network-card": [
    {"network-label": "VM Network", "mac-address-type": "manual", "mac-address": "00:50:56:aa:bb:cc", "connected": true},
    {"network-label": "VM Network", "mac-address-type": "assigned", "summary": "backup nic"}
  ]
}`

func TestLoadCreate(t *testing.T) {
	cfg, err := LoadCreate(writeTemp(t, createJSON))
	require.NoError(t, err)

	require.Equal(t, "ci-vm-01", cfg.VMName)
	require.Equal(t, "fast-ds", cfg.Datastore)
	require.Equal(t, "ci-pool", cfg.ResourcePool)
	require.True(t, cfg.PowerOn)

	// Omitted hardware values pick up the library defaults; explicit ones stay.
	require.Equal(t, int64(4096), cfg.MemoryMB)
	require.Equal(t, int32(2), cfg.NumCPUs)
	require.Equal(t, "otherGuest64", cfg.GuestOSID)
	require.Equal(t, "vmx-08", cfg.Version)

	require.Len(t, cfg.HardDisks, 1)
	require.Equal(t, int64(1048576), cfg.HardDisks[0].CapacityKB)

	require.Len(t, cfg.CDDrives, 2)
	require.Equal(t, "[iso-ds] ubuntu.iso", cfg.CDDrives[0].ISOPath())
	require.Empty(t, cfg.CDDrives[1].ISOPath())

	require.Len(t, cfg.NetworkCards, 2)
	require.Equal(t, "00:50:56:aa:bb:cc", cfg.NetworkCards[0].MACAddress)
	require.Equal(t, "Default summary for VM Automation", cfg.NetworkCards[0].Summary)
	require.Equal(t, "backup nic", cfg.NetworkCards[1].Summary)
}

func TestLoadCreate_MissingKeys(t *testing.T) {
	cases := []struct {
		name string
		json string
		key  string
	}{
		{"no vm name", `{"datastore": "ds"}`, "vm-name"},
		{"no datastore", `{"vm-name": "x"}`, "datastore"},
		{"no pool", `{"vm-name": "x", "datastore": "ds"}`, "resource-pool"},
		{"no disks", `{"vm-name": "x", "datastore": "ds", "resource-pool": "p"}`, "hard-disk"},
		{
			"disk without label",
			`{"vm-name": "x", "datastore": "ds", "resource-pool": "p",
			  "hard-disk": [{"capacity-KB": 10}], "cd-drive": [{}],
			  "network-card": [{"network-label": "n", "mac-address-type": "assigned"}]}`,
			"disk-label",
		},
		{
			"nic without mac type",
			`{"vm-name": "x", "datastore": "ds", "resource-pool": "p",
			  "hard-disk": [{"disk-label": "d", "capacity-KB": 10}], "cd-drive": [{}],
			  "network-card": [{"network-label": "n"}]}`,
			"mac-address-type",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadCreate(writeTemp(t, tc.json))
			var missing *MissingValueError
			require.ErrorAs(t, err, &missing)
			require.Equal(t, tc.key, missing.Key)
		})
	}
}

const cloneJSON = `{
  "vm-name": "clone-01",
  "template": "base-template",
  "datastore": "fast-ds",
  "resource-pool": "ci-pool",
  "power-on": true,
  "network-card": {
    "update": [
      {"nic-hdw-name": "Network adapter 1", "new-mac-address": "00:50:56:11:22:33", "connected": true},
      {"nic-hdw-name": "Network adapter 2", "new-network-label": "Backup Network"}
    ]
  }
}`

func TestLoadClone(t *testing.T) {
	cfg, err := LoadClone(writeTemp(t, cloneJSON))
	require.NoError(t, err)

	require.Equal(t, "clone-01", cfg.VMName)
	require.Equal(t, "base-template", cfg.Template)
	require.True(t, cfg.PowerOn)

	require.Len(t, cfg.NetworkCards.Update, 2)
	require.Equal(t, "Network adapter 1", cfg.NetworkCards.Update[0].NICHWName)
	require.Equal(t, "00:50:56:11:22:33", cfg.NetworkCards.Update[0].NewMACAddress)
	require.True(t, cfg.NetworkCards.Update[0].Connected)
	require.Equal(t, "Backup Network", cfg.NetworkCards.Update[1].NewNetworkLabel)
}

func TestLoadClone_MissingKeys(t *testing.T) {
	_, err := LoadClone(writeTemp(t, `{"vm-name": "x"}`))
	var missing *MissingValueError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "template", missing.Key)

	_, err = LoadClone(writeTemp(t, `{
	  "vm-name": "x", "template": "t", "datastore": "ds", "resource-pool": "p",
	  "network-card": {"update": [{"new-mac-address": "00:50:56:00:00:01"}]}}`))
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "nic-hdw-name", missing.Key)
}

func TestLoad_FileErrors(t *testing.T) {
	_, err := LoadCreate(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.Error(t, err)

	_, err = LoadClone(writeTemp(t, "{not json"))
	require.Error(t, err)
}

func TestValidate_RejectsMalformedMAC(t *testing.T) {
	_, err := LoadCreate(writeTemp(t, `{
	  "vm-name": "x", "datastore": "ds", "resource-pool": "p",
	  "hard-disk": [{"disk-label": "d", "capacity-KB": 10}], "cd-drive": [{}],
	  "network-card": [{"network-label": "n", "mac-address-type": "manual", "mac-address": "zz:zz"}]}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid MAC address")

	_, err = LoadClone(writeTemp(t, `{
	  "vm-name": "x", "template": "t", "datastore": "ds", "resource-pool": "p",
	  "network-card": {"update": [{"nic-hdw-name": "nic1", "new-mac-address": "bad"}]}}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid MAC address")
}

func TestMissingValueError_Message(t *testing.T) {
	require.Equal(t, "value required from json for key (vm-name)",
		(&MissingValueError{Key: "vm-name"}).Error())
}
