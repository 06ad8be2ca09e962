package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateMAC(t *testing.T) {
	require.NoError(t, ValidateMAC("00:50:56:aa:bb:cc"))
	require.NoError(t, ValidateMAC("00-50-56-aa-bb-cc"))

	require.Error(t, ValidateMAC(""))
	require.Error(t, ValidateMAC("not-a-mac"))
	require.Error(t, ValidateMAC("00:50:56:aa:bb"))
	// EUI-64 addresses are not valid for virtual NICs.
	require.Error(t, ValidateMAC("02:00:5e:10:00:00:00:01"))
}
