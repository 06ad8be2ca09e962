package vm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotFoundError_Message(t *testing.T) {
	require.Equal(t, `datastore "fast-ds" not found`,
		(&NotFoundError{Kind: KindDatastore, Name: "fast-ds"}).Error())
	require.Equal(t, "free IDE controller not found",
		(&NotFoundError{Kind: KindIDEController}).Error())
}

func TestAlreadyExistsError_Message(t *testing.T) {
	require.Equal(t, `virtual machine "ci-vm-01" already exists`,
		(&AlreadyExistsError{Name: "ci-vm-01"}).Error())
}

func TestCreateFailedError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &CreateFailedError{Name: "ci-vm-01", Err: cause}
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "boom")

	noResult := &CreateFailedError{Name: "ci-vm-01"}
	require.Contains(t, noResult.Error(), "task produced no result")
}

func TestCloneFailedError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &CloneFailedError{Name: "ci-vm-01", Template: "base", Err: cause}
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "base")
}
