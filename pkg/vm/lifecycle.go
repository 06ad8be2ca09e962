package vm

import (
	"context"
	"fmt"

	"github.com/Bibi40k/vmware-vm-automation/configs"
	"github.com/Bibi40k/vmware-vm-automation/internal/utils"
	"github.com/vmware/govmomi/vim25/types"
)

// CreateOptions holds the hardware parameters for a new VM.
// Zero values fall back to the library defaults.
type CreateOptions struct {
	MemoryMB  int64
	NumCPUs   int32
	GuestOSID string
	Version   string
}

func (o *CreateOptions) applyDefaults() {
	if o.MemoryMB == 0 {
		o.MemoryMB = int64(configs.Defaults.VM.MemoryMB)
	}
	if o.NumCPUs == 0 {
		o.NumCPUs = int32(configs.Defaults.VM.NumCPUs)
	}
	if o.GuestOSID == "" {
		o.GuestOSID = configs.Defaults.VM.GuestOS
	}
	if o.Version == "" {
		o.Version = configs.Defaults.VM.HardwareVersion
	}
}

// Create builds a new VM shell in the resolved folder and resource pool.
// Datastore, resource pool and folder must be resolved first. Fails with
// AlreadyExistsError before submitting anything when the name is taken.
func (v *VirtualMachine) Create(ctx context.Context, opts CreateOptions) error {
	if err := v.ResolveVM(ctx); err != nil {
		return err
	}
	if v.vm != nil {
		v.logger.Error("Virtual machine already exists", "name", v.Name)
		return &AlreadyExistsError{Name: v.Name}
	}
	if v.datastoreName == "" {
		return &NotFoundError{Kind: KindDatastore}
	}
	if v.pool == nil {
		return &NotFoundError{Kind: KindResourcePool}
	}
	if v.folder == nil {
		return &NotFoundError{Kind: KindFolder}
	}

	opts.applyDefaults()
	v.logger.Info("Creating virtual machine", "name", v.Name,
		"memory_mb", opts.MemoryMB, "num_cpus", opts.NumCPUs,
		"guest_os", opts.GuestOSID, "version", opts.Version)

	config := types.VirtualMachineConfigSpec{
		Name:       v.Name,
		Annotation: configs.Defaults.VM.Annotation,
		MemoryMB:   opts.MemoryMB,
		NumCPUs:    opts.NumCPUs,
		GuestId:    opts.GuestOSID,
		Version:    opts.Version,
		Files: &types.VirtualMachineFileInfo{
			VmPathName: utils.VMXPath(v.datastoreName, v.Name),
		},
	}

	task, err := v.folder.CreateVM(ctx, config, v.pool, nil)
	if err != nil {
		return &CreateFailedError{Name: v.Name, Err: err}
	}
	result, err := v.client.WaitForTask(ctx, task, v.Name)
	if err != nil {
		return &CreateFailedError{Name: v.Name, Err: err}
	}
	ref, ok := result.(types.ManagedObjectReference)
	if !ok {
		return &CreateFailedError{Name: v.Name}
	}

	v.vm = v.client.VirtualMachineFromRef(ref)
	v.logger.Info("Virtual machine created", "name", v.Name)
	return nil
}

// CloneFromTemplate clones the resolved template into the resolved folder
// using the current relocate spec. The clone is left powered off; callers
// power it on after any NIC adjustments. Fails with AlreadyExistsError
// before submitting anything when the name is taken.
func (v *VirtualMachine) CloneFromTemplate(ctx context.Context) error {
	if v.template == nil {
		return &NotFoundError{Kind: KindTemplate}
	}
	if err := v.ResolveVM(ctx); err != nil {
		return err
	}
	if v.vm != nil {
		v.logger.Error("Virtual machine already exists", "name", v.Name)
		return &AlreadyExistsError{Name: v.Name}
	}
	if v.folder == nil {
		return &NotFoundError{Kind: KindFolder}
	}

	tmplName := v.template.Reference().Value
	v.logger.Info("Cloning virtual machine from template", "name", v.Name)

	spec := types.VirtualMachineCloneSpec{
		PowerOn:  false,
		Template: false,
		Location: v.relocateSpec,
	}

	task, err := v.template.Clone(ctx, v.folder, v.Name, spec)
	if err != nil {
		return &CloneFailedError{Name: v.Name, Template: tmplName, Err: err}
	}
	result, err := v.client.WaitForTask(ctx, task, v.Name)
	if err != nil {
		return &CloneFailedError{Name: v.Name, Template: tmplName, Err: err}
	}
	ref, ok := result.(types.ManagedObjectReference)
	if !ok {
		return &CloneFailedError{Name: v.Name, Template: tmplName}
	}

	v.vm = v.client.VirtualMachineFromRef(ref)
	v.logger.Info("Virtual machine cloned", "name", v.Name)
	return nil
}

// PowerOn powers the VM on and waits for the task to complete.
func (v *VirtualMachine) PowerOn(ctx context.Context) error {
	if err := v.ensureVM(ctx); err != nil {
		return err
	}
	v.logger.Info("Powering on virtual machine", "name", v.Name)

	task, err := v.vm.PowerOn(ctx)
	if err != nil {
		return fmt.Errorf("power on request failed: %w", err)
	}
	_, err = v.client.WaitForTask(ctx, task, v.Name)
	return err
}

// PowerOff powers the VM off (hard) and waits for the task to complete.
func (v *VirtualMachine) PowerOff(ctx context.Context) error {
	if err := v.ensureVM(ctx); err != nil {
		return err
	}
	v.logger.Info("Powering off virtual machine", "name", v.Name)

	task, err := v.vm.PowerOff(ctx)
	if err != nil {
		return fmt.Errorf("power off request failed: %w", err)
	}
	_, err = v.client.WaitForTask(ctx, task, v.Name)
	return err
}

// Reset hard-resets the VM and waits for the task to complete.
func (v *VirtualMachine) Reset(ctx context.Context) error {
	if err := v.ensureVM(ctx); err != nil {
		return err
	}
	v.logger.Info("Resetting virtual machine", "name", v.Name)

	task, err := v.vm.Reset(ctx)
	if err != nil {
		return fmt.Errorf("reset request failed: %w", err)
	}
	_, err = v.client.WaitForTask(ctx, task, v.Name)
	return err
}

// Delete destroys the VM, powering it off first if it is running.
func (v *VirtualMachine) Delete(ctx context.Context) error {
	if err := v.ensureVM(ctx); err != nil {
		return err
	}

	state, err := v.vm.PowerState(ctx)
	if err != nil {
		return fmt.Errorf("retrieve power state: %w", err)
	}
	if state == types.VirtualMachinePowerStatePoweredOn {
		v.logger.Info("Powering off virtual machine before deletion", "name", v.Name)
		if err := v.PowerOff(ctx); err != nil {
			return err
		}
	}

	v.logger.Info("Deleting virtual machine", "name", v.Name)
	task, err := v.vm.Destroy(ctx)
	if err != nil {
		return fmt.Errorf("destroy request failed: %w", err)
	}
	if _, err := v.client.WaitForTask(ctx, task, v.Name); err != nil {
		return err
	}
	v.vm = nil
	return nil
}

// ensureVM resolves the VM when no handle is held yet. Unlike ResolveVM,
// absence is an error here: power and delete operations need a live target.
func (v *VirtualMachine) ensureVM(ctx context.Context) error {
	if v.vm != nil {
		return nil
	}
	if err := v.ResolveVM(ctx); err != nil {
		return err
	}
	if v.vm == nil {
		return &NotFoundError{Kind: KindVirtualMachine, Name: v.Name}
	}
	return nil
}
