// Package utils provides internal utility functions.
package utils

import "fmt"

// DatastorePath returns the "[datastore] file" form used by vSphere file backings.
func DatastorePath(datastore, file string) string {
	return fmt.Sprintf("[%s] %s", datastore, file)
}

// DiskPath returns the vmdk path for a labeled disk inside the VM's directory.
func DiskPath(datastore, vmName, diskLabel string) string {
	return fmt.Sprintf("[%s] %s/%s-%s.vmdk", datastore, vmName, vmName, diskLabel)
}

// VMXPath returns the vmx file path inside the VM's directory.
func VMXPath(datastore, vmName string) string {
	return fmt.Sprintf("[%s] %s/%s.vmx", datastore, vmName, vmName)
}
