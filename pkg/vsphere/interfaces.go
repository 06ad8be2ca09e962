package vsphere

import (
	"context"

	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/types"
)

// ClientInterface abstracts the session operations the lifecycle layer needs.
// The real implementation uses govmomi; tests inject a mock.
type ClientInterface interface {
	FindByName(ctx context.Context, kind, name string) (*types.ManagedObjectReference, error)
	FindVirtualMachine(ctx context.Context, name string) (*object.VirtualMachine, error)
	FindDatastore(ctx context.Context, name string) (*object.Datastore, error)
	FindResourcePool(ctx context.Context, name string) (*object.ResourcePool, error)
	FindFolder(ctx context.Context, name string) (*object.Folder, error)
	FindDatacenter(ctx context.Context, name string) (*object.Datacenter, error)
	FirstDatacenter(ctx context.Context) (*object.Datacenter, error)
	TemplateDatastore(ctx context.Context, tmpl *object.VirtualMachine) (*object.Datastore, string, error)
	TemplateFolder(ctx context.Context, tmpl *object.VirtualMachine) (*object.Folder, error)
	VMFolder(ctx context.Context, dc *object.Datacenter) (*object.Folder, error)
	VirtualMachineFromRef(ref types.ManagedObjectReference) *object.VirtualMachine
	WaitForTask(ctx context.Context, task *object.Task, vmName string) (types.AnyType, error)
	Disconnect(ctx context.Context) error
}

// compile-time interface compliance check
var _ ClientInterface = (*Client)(nil)
