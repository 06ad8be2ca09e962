package vm

import (
	"context"
	"fmt"

	"github.com/Bibi40k/vmware-vm-automation/internal/utils"
	"github.com/Bibi40k/vmware-vm-automation/pkg/vsphere"
	"github.com/vmware/govmomi/vim25/types"
)

const (
	// Unit number reserved for the SCSI controller itself; never assigned
	// to a disk.
	scsiReservedUnit = 7

	// Temporary device key for a controller added in the same batch as its
	// first disk. The endpoint assigns the real key.
	scsiControllerTempKey = -100
)

// AddHardDisk adds a thin-provisioned persistent disk to the VM. When the VM
// has no SCSI controller yet, an LSI Logic controller and the disk at unit 0
// are submitted in one batch; otherwise the disk gets the next free unit
// number, skipping the controller's reserved unit.
func (v *VirtualMachine) AddHardDisk(ctx context.Context, diskLabel string, capacityKB int64) error {
	if v.vm == nil {
		return &NotFoundError{Kind: KindVirtualMachine, Name: v.Name}
	}
	v.logger.Info("Adding hard drive", "name", v.Name, "disk", diskLabel, "capacity_kb", capacityKB)

	devices, err := v.vm.Device(ctx)
	if err != nil {
		return fmt.Errorf("retrieve VM devices: %w", err)
	}

	var controller *types.VirtualSCSIController
	unit := int32(0)
	for _, dev := range devices {
		d := dev.GetVirtualDevice()
		if _, ok := d.Backing.(types.BaseVirtualDeviceFileBackingInfo); ok && d.UnitNumber != nil {
			unit = *d.UnitNumber + 1
			if unit == scsiReservedUnit {
				unit++
			}
		}
		if c, ok := dev.(types.BaseVirtualSCSIController); ok {
			controller = c.GetVirtualSCSIController()
		}
	}

	if controller == nil {
		v.logger.Debug("Adding SCSI controller for first hard drive", "name", v.Name)
		ctrlSpec := scsiControllerSpec()
		diskSpec := v.diskSpec(0, scsiControllerTempKey, diskLabel, capacityKB)
		return v.reconfigure(ctx, ctrlSpec, diskSpec)
	}
	return v.reconfigure(ctx, v.diskSpec(unit, controller.Key, diskLabel, capacityKB))
}

// AddCdrom attaches a CD-ROM to the first IDE controller with a free slot.
// isoPath is a "[datastore] file.iso" path; empty means a host passthrough
// backing.
func (v *VirtualMachine) AddCdrom(ctx context.Context, isoPath string, startConnected bool) error {
	if v.vm == nil {
		return &NotFoundError{Kind: KindVirtualMachine, Name: v.Name}
	}
	v.logger.Info("Adding CDROM drive", "name", v.Name, "connected", startConnected)

	devices, err := v.vm.Device(ctx)
	if err != nil {
		return fmt.Errorf("retrieve VM devices: %w", err)
	}

	controller := freeIDEController(devices)
	if controller == nil {
		v.logger.Warn("Couldn't get free IDE controller", "name", v.Name)
		return &NotFoundError{Kind: KindIDEController}
	}

	var backing types.BaseVirtualDeviceBackingInfo
	if isoPath != "" {
		v.logger.Info("Adding ISO to CDROM drive", "name", v.Name, "iso", isoPath)
		backing = &types.VirtualCdromIsoBackingInfo{
			VirtualDeviceFileBackingInfo: types.VirtualDeviceFileBackingInfo{FileName: isoPath},
		}
	} else {
		backing = &types.VirtualCdromRemotePassthroughBackingInfo{}
	}

	cdrom := &types.VirtualCdrom{
		VirtualDevice: types.VirtualDevice{
			Key:           -1,
			ControllerKey: controller.Key,
			Backing:       backing,
			Connectable: &types.VirtualDeviceConnectInfo{
				AllowGuestControl: true,
				StartConnected:    startConnected,
			},
		},
	}

	return v.reconfigure(ctx, &types.VirtualDeviceConfigSpec{
		Operation: types.VirtualDeviceConfigSpecOperationAdd,
		Device:    cdrom,
	})
}

// AddNetworkCard adds an E1000 NIC backed by the named network. The MAC
// address type is manual only when both an explicit MAC and the manual type
// are supplied; otherwise the endpoint assigns one.
func (v *VirtualMachine) AddNetworkCard(ctx context.Context, networkLabel, macAddress, macAddressType string, connected bool, summary string) error {
	if v.vm == nil {
		return &NotFoundError{Kind: KindVirtualMachine, Name: v.Name}
	}
	v.logger.Info("Adding network card", "name", v.Name, "network", networkLabel)

	netRef, err := v.client.FindByName(ctx, vsphere.KindNetwork, networkLabel)
	if err != nil {
		return err
	}
	if netRef == nil {
		return &NotFoundError{Kind: KindNetwork, Name: networkLabel}
	}

	nic := &types.VirtualE1000{
		VirtualEthernetCard: types.VirtualEthernetCard{
			VirtualDevice: types.VirtualDevice{
				Key:        -1,
				DeviceInfo: &types.Description{Summary: summary},
				Backing: &types.VirtualEthernetCardNetworkBackingInfo{
					VirtualDeviceDeviceBackingInfo: types.VirtualDeviceDeviceBackingInfo{
						DeviceName:    networkLabel,
						UseAutoDetect: types.NewBool(false),
					},
					Network: netRef,
				},
				Connectable: &types.VirtualDeviceConnectInfo{
					StartConnected:    true,
					AllowGuestControl: true,
					Connected:         connected,
					Status:            string(types.VirtualDeviceConnectInfoStatusUntried),
				},
			},
			WakeOnLanEnabled: types.NewBool(true),
		},
	}

	if macAddressType == string(types.VirtualEthernetCardMacTypeManual) && macAddress != "" {
		v.logger.Debug("Using manual mac address", "name", v.Name, "mac", macAddress)
		nic.MacAddress = macAddress
		nic.AddressType = string(types.VirtualEthernetCardMacTypeManual)
	} else {
		v.logger.Debug("Using assigned mac address", "name", v.Name)
		nic.AddressType = string(types.VirtualEthernetCardMacTypeAssigned)
	}

	return v.reconfigure(ctx, &types.VirtualDeviceConfigSpec{
		Operation: types.VirtualDeviceConfigSpecOperationAdd,
		Device:    nic,
	})
}

// UpdateMACAddress switches an existing NIC, identified by its hardware
// label, to a manual MAC address.
func (v *VirtualMachine) UpdateMACAddress(ctx context.Context, nicHWName, macAddress string) error {
	v.logger.Info("Updating mac address", "name", v.Name, "nic", nicHWName, "mac", macAddress)

	dev, err := v.findNIC(ctx, nicHWName)
	if err != nil {
		return err
	}
	card := dev.GetVirtualEthernetCard()
	card.MacAddress = macAddress
	card.AddressType = string(types.VirtualEthernetCardMacTypeManual)

	return v.reconfigure(ctx, &types.VirtualDeviceConfigSpec{
		Operation: types.VirtualDeviceConfigSpecOperationEdit,
		Device:    dev.(types.BaseVirtualDevice),
	})
}

// UpdateNetworkLabel repoints an existing NIC's backing at another network.
func (v *VirtualMachine) UpdateNetworkLabel(ctx context.Context, nicHWName, newNetworkLabel string) error {
	v.logger.Info("Updating network label", "name", v.Name, "nic", nicHWName, "network", newNetworkLabel)

	dev, err := v.findNIC(ctx, nicHWName)
	if err != nil {
		return err
	}
	card := dev.GetVirtualEthernetCard()
	backing, ok := card.Backing.(*types.VirtualEthernetCardNetworkBackingInfo)
	if !ok {
		return fmt.Errorf("NIC %q backing does not carry a network label", nicHWName)
	}
	backing.DeviceName = newNetworkLabel

	return v.reconfigure(ctx, &types.VirtualDeviceConfigSpec{
		Operation: types.VirtualDeviceConfigSpecOperationEdit,
		Device:    dev.(types.BaseVirtualDevice),
	})
}

// UpdateNICState connects or disconnects an existing NIC.
func (v *VirtualMachine) UpdateNICState(ctx context.Context, nicHWName string, connected bool) error {
	v.logger.Info("Updating network device state", "name", v.Name, "nic", nicHWName, "connected", connected)

	dev, err := v.findNIC(ctx, nicHWName)
	if err != nil {
		return err
	}
	card := dev.GetVirtualEthernetCard()
	card.Connectable = &types.VirtualDeviceConnectInfo{
		Connected:      connected,
		StartConnected: connected,
	}

	return v.reconfigure(ctx, &types.VirtualDeviceConfigSpec{
		Operation: types.VirtualDeviceConfigSpecOperationEdit,
		Device:    dev.(types.BaseVirtualDevice),
	})
}

// findNIC locates an ethernet card on the VM by its hardware label.
func (v *VirtualMachine) findNIC(ctx context.Context, nicHWName string) (types.BaseVirtualEthernetCard, error) {
	if v.vm == nil {
		return nil, &NotFoundError{Kind: KindVirtualMachine, Name: v.Name}
	}
	devices, err := v.vm.Device(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve VM devices: %w", err)
	}
	for _, dev := range devices {
		nic, ok := dev.(types.BaseVirtualEthernetCard)
		if !ok {
			continue
		}
		d := nic.GetVirtualEthernetCard()
		if d.DeviceInfo != nil && d.DeviceInfo.GetDescription().Label == nicHWName {
			return nic, nil
		}
	}
	return nil, &NotFoundError{Kind: KindNIC, Name: nicHWName}
}

// freeIDEController returns the first IDE controller with fewer than two
// attached devices, or nil when all are full.
func freeIDEController(devices []types.BaseVirtualDevice) *types.VirtualIDEController {
	for _, dev := range devices {
		if ide, ok := dev.(*types.VirtualIDEController); ok && len(ide.Device) < 2 {
			return ide
		}
	}
	return nil
}

// scsiControllerSpec builds the add spec for an LSI Logic controller with
// the fixed bus/slot constants used for a VM's first disk controller.
func scsiControllerSpec() *types.VirtualDeviceConfigSpec {
	return &types.VirtualDeviceConfigSpec{
		Operation: types.VirtualDeviceConfigSpecOperationAdd,
		Device: &types.VirtualLsiLogicController{
			VirtualSCSIController: types.VirtualSCSIController{
				SharedBus:          types.VirtualSCSISharingNoSharing,
				HotAddRemove:       types.NewBool(true),
				ScsiCtlrUnitNumber: scsiReservedUnit,
				VirtualController: types.VirtualController{
					BusNumber: 0,
					VirtualDevice: types.VirtualDevice{
						Key:           scsiControllerTempKey,
						ControllerKey: 100,
						UnitNumber:    types.NewInt32(3),
						DeviceInfo:    &types.Description{},
						SlotInfo:      &types.VirtualDevicePciBusSlotInfo{PciSlotNumber: 16},
					},
				},
			},
		},
	}
}

// diskSpec builds the add spec for one thin-provisioned persistent disk. The
// vmdk path is derived from the resolved datastore and the VM name.
func (v *VirtualMachine) diskSpec(unit, controllerKey int32, diskLabel string, capacityKB int64) *types.VirtualDeviceConfigSpec {
	v.logger.Debug("Building hard drive spec", "name", v.Name, "disk", diskLabel, "unit", unit)
	return &types.VirtualDeviceConfigSpec{
		Operation:     types.VirtualDeviceConfigSpecOperationAdd,
		FileOperation: types.VirtualDeviceConfigSpecFileOperationCreate,
		Device: &types.VirtualDisk{
			VirtualDevice: types.VirtualDevice{
				ControllerKey: controllerKey,
				UnitNumber:    types.NewInt32(unit),
				Backing: &types.VirtualDiskFlatVer2BackingInfo{
					DiskMode:        string(types.VirtualDiskModePersistent),
					ThinProvisioned: types.NewBool(true),
					VirtualDeviceFileBackingInfo: types.VirtualDeviceFileBackingInfo{
						FileName: utils.DiskPath(v.datastoreName, v.Name, diskLabel),
					},
				},
			},
			CapacityInKB: capacityKB,
		},
	}
}

// reconfigure submits the device changes as one reconfiguration request and
// tracks the task to completion.
func (v *VirtualMachine) reconfigure(ctx context.Context, changes ...types.BaseVirtualDeviceConfigSpec) error {
	if v.vm == nil {
		return &NotFoundError{Kind: KindVirtualMachine, Name: v.Name}
	}
	v.logger.Info("Reconfiguring virtual machine", "name", v.Name)

	task, err := v.vm.Reconfigure(ctx, types.VirtualMachineConfigSpec{DeviceChange: changes})
	if err != nil {
		return fmt.Errorf("reconfigure request failed: %w", err)
	}
	_, err = v.client.WaitForTask(ctx, task, v.Name)
	return err
}
