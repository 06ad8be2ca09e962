// Package mocks provides testify-based mock implementations for testing
// without a real vCenter connection.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/types"
)

// ClientInterface is a mock for vsphere.ClientInterface.
type ClientInterface struct {
	mock.Mock
}

func (m *ClientInterface) FindByName(ctx context.Context, kind, name string) (*types.ManagedObjectReference, error) {
	args := m.Called(ctx, kind, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ManagedObjectReference), args.Error(1)
}

func (m *ClientInterface) FindVirtualMachine(ctx context.Context, name string) (*object.VirtualMachine, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*object.VirtualMachine), args.Error(1)
}

func (m *ClientInterface) FindDatastore(ctx context.Context, name string) (*object.Datastore, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*object.Datastore), args.Error(1)
}

func (m *ClientInterface) FindResourcePool(ctx context.Context, name string) (*object.ResourcePool, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*object.ResourcePool), args.Error(1)
}

func (m *ClientInterface) FindFolder(ctx context.Context, name string) (*object.Folder, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*object.Folder), args.Error(1)
}

func (m *ClientInterface) FindDatacenter(ctx context.Context, name string) (*object.Datacenter, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*object.Datacenter), args.Error(1)
}

func (m *ClientInterface) FirstDatacenter(ctx context.Context) (*object.Datacenter, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*object.Datacenter), args.Error(1)
}

func (m *ClientInterface) TemplateDatastore(ctx context.Context, tmpl *object.VirtualMachine) (*object.Datastore, string, error) {
	args := m.Called(ctx, tmpl)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*object.Datastore), args.String(1), args.Error(2)
}

func (m *ClientInterface) TemplateFolder(ctx context.Context, tmpl *object.VirtualMachine) (*object.Folder, error) {
	args := m.Called(ctx, tmpl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*object.Folder), args.Error(1)
}

func (m *ClientInterface) VMFolder(ctx context.Context, dc *object.Datacenter) (*object.Folder, error) {
	args := m.Called(ctx, dc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*object.Folder), args.Error(1)
}

func (m *ClientInterface) VirtualMachineFromRef(ref types.ManagedObjectReference) *object.VirtualMachine {
	args := m.Called(ref)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*object.VirtualMachine)
}

func (m *ClientInterface) WaitForTask(ctx context.Context, task *object.Task, vmName string) (types.AnyType, error) {
	args := m.Called(ctx, task, vmName)
	return args.Get(0), args.Error(1)
}

func (m *ClientInterface) Disconnect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
