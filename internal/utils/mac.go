package utils

import (
	"fmt"
	"net"
)

// ValidateMAC validates a MAC address in colon-separated form.
func ValidateMAC(mac string) error {
	hw, err := net.ParseMAC(mac)
	if err != nil {
		return fmt.Errorf("invalid MAC address: %s", mac)
	}
	if len(hw) != 6 {
		return fmt.Errorf("not a 48-bit MAC address: %s", mac)
	}
	return nil
}
