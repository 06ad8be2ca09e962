package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Bibi40k/vmware-vm-automation/pkg/config"
	"github.com/Bibi40k/vmware-vm-automation/pkg/vm"
	"github.com/Bibi40k/vmware-vm-automation/pkg/vsphere"
)

// withClient runs op against a connected session, disconnecting on return.
// The password is prompted interactively when the flag was omitted.
func withClient(op func(ctx context.Context, client *vsphere.Client, logger *slog.Logger) error) error {
	logger, closeLog, err := newLogger(flagDebug, flagLogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	password := flagPassword
	if password == "" {
		password = readPassword(fmt.Sprintf("Enter password to login to %s for user %s", flagHost, flagUsername))
	}

	ctx := context.Background()
	client, err := vsphere.NewClient(ctx, &vsphere.Config{
		Host:     flagHost,
		Username: flagUsername,
		Password: password,
		Port:     flagPort,
		Insecure: flagInsecure,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(ctx) }()

	return op(ctx, client, logger)
}

func runCreate(jsonFile string) error {
	cfg, err := config.LoadCreate(jsonFile)
	if err != nil {
		return err
	}
	return withClient(func(ctx context.Context, client *vsphere.Client, logger *slog.Logger) error {
		v := vm.New(client, cfg.VMName, logger)
		if err := v.ResolveDatacenter(ctx, cfg.Datacenter); err != nil {
			return err
		}
		if err := v.ResolveDatastore(ctx, cfg.Datastore); err != nil {
			return err
		}
		if err := v.ResolveResourcePool(ctx, cfg.ResourcePool); err != nil {
			return err
		}
		if err := v.ResolveFolder(ctx, cfg.Folder); err != nil {
			return err
		}
		opts := vm.CreateOptions{
			MemoryMB:  cfg.MemoryMB,
			NumCPUs:   cfg.NumCPUs,
			GuestOSID: cfg.GuestOSID,
			Version:   cfg.Version,
		}
		if err := v.Create(ctx, opts); err != nil {
			return err
		}
		for _, d := range cfg.HardDisks {
			if err := v.AddHardDisk(ctx, d.Label, d.CapacityKB); err != nil {
				return err
			}
		}
		for _, c := range cfg.CDDrives {
			if err := v.AddCdrom(ctx, c.ISOPath(), c.Connected); err != nil {
				return err
			}
		}
		for _, n := range cfg.NetworkCards {
			if err := v.AddNetworkCard(ctx, n.NetworkLabel, n.MACAddress, n.MACAddressType, n.Connected, n.Summary); err != nil {
				return err
			}
		}
		if cfg.PowerOn {
			return v.PowerOn(ctx)
		}
		return nil
	})
}

func runClone(jsonFile string) error {
	cfg, err := config.LoadClone(jsonFile)
	if err != nil {
		return err
	}
	return withClient(func(ctx context.Context, client *vsphere.Client, logger *slog.Logger) error {
		v := vm.New(client, cfg.VMName, logger)
		if err := v.ResolveTemplate(ctx, cfg.Template); err != nil {
			return err
		}
		if err := v.ResolveDatacenter(ctx, cfg.Datacenter); err != nil {
			return err
		}
		if err := v.ResolveDatastore(ctx, cfg.Datastore); err != nil {
			return err
		}
		if err := v.ResolveResourcePool(ctx, cfg.ResourcePool); err != nil {
			return err
		}
		if err := v.ResolveFolder(ctx, cfg.Folder); err != nil {
			return err
		}
		if err := v.CloneFromTemplate(ctx); err != nil {
			return err
		}
		for _, u := range cfg.NetworkCards.Update {
			if u.NewMACAddress != "" {
				if err := v.UpdateMACAddress(ctx, u.NICHWName, u.NewMACAddress); err != nil {
					return err
				}
			}
			if u.NewNetworkLabel != "" {
				if err := v.UpdateNetworkLabel(ctx, u.NICHWName, u.NewNetworkLabel); err != nil {
					return err
				}
			}
			if u.Connected {
				if err := v.UpdateNICState(ctx, u.NICHWName, true); err != nil {
					return err
				}
			}
		}
		if cfg.PowerOn {
			return v.PowerOn(ctx)
		}
		return nil
	})
}

func runDelete(vmName string) error {
	return withClient(func(ctx context.Context, client *vsphere.Client, logger *slog.Logger) error {
		return vm.New(client, vmName, logger).Delete(ctx)
	})
}

func runReset(vmName string) error {
	return withClient(func(ctx context.Context, client *vsphere.Client, logger *slog.Logger) error {
		return vm.New(client, vmName, logger).Reset(ctx)
	})
}

func runPowerOn(vmName string) error {
	return withClient(func(ctx context.Context, client *vsphere.Client, logger *slog.Logger) error {
		return vm.New(client, vmName, logger).PowerOn(ctx)
	})
}

func runPowerOff(vmName string) error {
	return withClient(func(ctx context.Context, client *vsphere.Client, logger *slog.Logger) error {
		return vm.New(client, vmName, logger).PowerOff(ctx)
	})
}
