package vm

import "fmt"

// Object kinds used in NotFoundError.
const (
	KindVirtualMachine = "virtual machine"
	KindTemplate       = "template"
	KindDatacenter     = "datacenter"
	KindDatastore      = "datastore"
	KindResourcePool   = "resource pool"
	KindFolder         = "folder"
	KindNetwork        = "network"
	KindNIC            = "NIC"
	KindIDEController  = "free IDE controller"
)

// NotFoundError reports an inventory object that could not be resolved.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// AlreadyExistsError reports a create or clone target name that already
// resolves to an existing virtual machine.
type AlreadyExistsError struct {
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("virtual machine %q already exists", e.Name)
}

// CreateFailedError reports a create task that ended in error or produced no
// virtual machine.
type CreateFailedError struct {
	Name string
	Err  error
}

func (e *CreateFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to create virtual machine %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("failed to create virtual machine %q: task produced no result", e.Name)
}

func (e *CreateFailedError) Unwrap() error { return e.Err }

// CloneFailedError reports a clone task that ended in error or produced no
// virtual machine.
type CloneFailedError struct {
	Name     string
	Template string
	Err      error
}

func (e *CloneFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to clone virtual machine %q from template %q: %v", e.Name, e.Template, e.Err)
	}
	return fmt.Sprintf("failed to clone virtual machine %q from template %q: task produced no result", e.Name, e.Template)
}

func (e *CloneFailedError) Unwrap() error { return e.Err }
