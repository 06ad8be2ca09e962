// Package vm implements VM lifecycle operations (create, clone, power,
// reset, delete) on top of the vsphere session layer: it resolves the
// inventory objects an operation needs, builds the mutation specs, submits
// them and tracks the resulting tasks.
package vm

import (
	"context"
	"log/slog"

	"github.com/Bibi40k/vmware-vm-automation/configs"
	"github.com/Bibi40k/vmware-vm-automation/pkg/vsphere"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/types"
)

// VirtualMachine aggregates one VM's name with the inventory objects
// resolved for it. Datastore and resource pool must both be resolved before
// a clone is submitted: the relocate spec embeds both references and is
// rebuilt whenever either of them changes.
type VirtualMachine struct {
	Name string

	client vsphere.ClientInterface
	logger *slog.Logger

	vm            *object.VirtualMachine
	template      *object.VirtualMachine
	datacenter    *object.Datacenter
	datastore     *object.Datastore
	datastoreName string
	pool          *object.ResourcePool
	folder        *object.Folder

	relocateSpec types.VirtualMachineRelocateSpec
}

// New returns a VirtualMachine context bound to the given session.
// A nil logger falls back to slog.Default().
func New(client vsphere.ClientInterface, name string, logger *slog.Logger) *VirtualMachine {
	if logger == nil {
		logger = slog.Default()
	}
	return &VirtualMachine{
		Name:   name,
		client: client,
		logger: logger,
	}
}

// Exists reports whether the VM object has been resolved or created.
func (v *VirtualMachine) Exists() bool { return v.vm != nil }

// Object returns the resolved VM handle, or nil before ResolveVM/Create/Clone.
func (v *VirtualMachine) Object() *object.VirtualMachine { return v.vm }

// ResolveVM looks the VM up by name and records the handle if found.
// Absence is not an error here; callers decide what a missing VM means.
func (v *VirtualMachine) ResolveVM(ctx context.Context) error {
	v.logger.Debug("Resolving virtual machine", "name", v.Name)
	obj, err := v.client.FindVirtualMachine(ctx, v.Name)
	if err != nil {
		return err
	}
	if obj == nil {
		v.logger.Debug("Virtual machine not found", "name", v.Name)
	} else {
		v.logger.Info("Virtual machine found", "name", v.Name)
	}
	v.vm = obj
	return nil
}

// ResolveTemplate resolves the clone source template by name.
func (v *VirtualMachine) ResolveTemplate(ctx context.Context, name string) error {
	v.logger.Debug("Resolving template", "name", v.Name, "template", name)
	tmpl, err := v.client.FindVirtualMachine(ctx, name)
	if err != nil {
		return err
	}
	if tmpl == nil {
		v.logger.Error("Unable to find template", "name", v.Name, "template", name)
		return &NotFoundError{Kind: KindTemplate, Name: name}
	}
	v.logger.Info("Template found", "name", v.Name, "template", name)
	v.template = tmpl
	return nil
}

// ResolveDatacenter resolves the datacenter by name, falling back to the
// first datacenter under the inventory root when no name is given.
func (v *VirtualMachine) ResolveDatacenter(ctx context.Context, name string) error {
	v.logger.Debug("Resolving datacenter", "name", v.Name, "datacenter", name)
	var (
		dc  *object.Datacenter
		err error
	)
	if name != "" {
		dc, err = v.client.FindDatacenter(ctx, name)
	} else {
		dc, err = v.client.FirstDatacenter(ctx)
	}
	if err != nil {
		return err
	}
	if dc == nil {
		v.logger.Error("Unable to find datacenter", "name", v.Name, "datacenter", name)
		return &NotFoundError{Kind: KindDatacenter, Name: name}
	}
	v.logger.Info("Datacenter found", "name", v.Name)
	v.datacenter = dc
	return nil
}

// ResolveDatastore resolves the datastore by name. Without a name, the clone
// path falls back to the template's primary datastore. Rebuilds the relocate
// spec on success.
func (v *VirtualMachine) ResolveDatastore(ctx context.Context, name string) error {
	v.logger.Debug("Resolving datastore", "name", v.Name, "datastore", name)
	if name != "" {
		ds, err := v.client.FindDatastore(ctx, name)
		if err != nil {
			return err
		}
		if ds != nil {
			v.datastore = ds
			v.datastoreName = name
		}
	}
	if v.datastore == nil && v.template != nil {
		v.logger.Debug("Falling back to template datastore", "name", v.Name)
		ds, dsName, err := v.client.TemplateDatastore(ctx, v.template)
		if err != nil {
			return err
		}
		if ds != nil {
			v.datastore = ds
			v.datastoreName = dsName
		}
	}
	if v.datastore == nil {
		v.logger.Error("Unable to find datastore", "name", v.Name, "datastore", name)
		return &NotFoundError{Kind: KindDatastore, Name: name}
	}
	v.logger.Info("Datastore found", "name", v.Name, "datastore", v.datastoreName)
	v.refreshRelocateSpec()
	return nil
}

// ResolveResourcePool resolves the resource pool by name, falling back to the
// default pool when no name is given. Rebuilds the relocate spec on success.
func (v *VirtualMachine) ResolveResourcePool(ctx context.Context, name string) error {
	v.logger.Debug("Resolving resource pool", "name", v.Name, "pool", name)
	lookup := name
	if lookup == "" {
		lookup = configs.Defaults.VM.DefaultResourcePool
		v.logger.Info("No resource pool specified, using the default resource pool", "name", v.Name, "pool", lookup)
	}
	pool, err := v.client.FindResourcePool(ctx, lookup)
	if err != nil {
		return err
	}
	if pool == nil {
		v.logger.Error("Unable to find resource pool", "name", v.Name, "pool", name)
		return &NotFoundError{Kind: KindResourcePool, Name: name}
	}
	v.logger.Info("Resource pool found", "name", v.Name, "pool", lookup)
	v.pool = pool
	v.refreshRelocateSpec()
	return nil
}

// ResolveFolder resolves the VM folder by name. Without a name it uses the
// resolved datacenter's default VM folder, or the template's parent folder.
// Datacenter/template resolution must therefore happen first.
func (v *VirtualMachine) ResolveFolder(ctx context.Context, name string) error {
	v.logger.Debug("Resolving folder", "name", v.Name, "folder", name)
	switch {
	case name != "":
		folder, err := v.client.FindFolder(ctx, name)
		if err != nil {
			return err
		}
		v.folder = folder
	case v.datacenter != nil:
		v.logger.Debug("Using datacenter VM folder", "name", v.Name)
		folder, err := v.client.VMFolder(ctx, v.datacenter)
		if err != nil {
			return err
		}
		v.folder = folder
	case v.template != nil:
		v.logger.Debug("Using template parent folder", "name", v.Name)
		folder, err := v.client.TemplateFolder(ctx, v.template)
		if err != nil {
			return err
		}
		v.folder = folder
	}
	if v.folder == nil {
		v.logger.Error("Unable to find folder", "name", v.Name, "folder", name)
		return &NotFoundError{Kind: KindFolder, Name: name}
	}
	v.logger.Info("Folder found", "name", v.Name)
	return nil
}

// refreshRelocateSpec rebuilds the relocate spec from the currently resolved
// resource pool and datastore. Called whenever either resolution changes.
func (v *VirtualMachine) refreshRelocateSpec() {
	v.logger.Debug("Refreshing relocate spec", "name", v.Name)
	spec := types.VirtualMachineRelocateSpec{}
	if v.pool != nil {
		ref := v.pool.Reference()
		spec.Pool = &ref
	}
	if v.datastore != nil {
		ref := v.datastore.Reference()
		spec.Datastore = &ref
	}
	v.relocateSpec = spec
}

// RelocateSpec returns the current relocate spec (pool + datastore refs).
func (v *VirtualMachine) RelocateSpec() types.VirtualMachineRelocateSpec {
	return v.relocateSpec
}
