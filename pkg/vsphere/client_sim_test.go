package vsphere

import (
	"context"
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/simulator"
)

func newSimClient(t *testing.T) (*Client, context.Context, func()) {
	model := simulator.VPX()
	model.Datacenter = 1
	model.Cluster = 1
	model.Host = 1
	model.Pool = 1
	model.Machine = 1

	require.NoError(t, model.Create())
	model.Service.TLS = new(tls.Config)
	s := model.Service.NewServer()

	ctx := context.Background()
	u := s.URL
	u.User = simulator.DefaultLogin

	client, err := NewClient(ctx, &Config{
		Host:     u.String(),
		Username: simulator.DefaultLogin.Username(),
		Password: func() string { p, _ := simulator.DefaultLogin.Password(); return p }(),
		Insecure: true,
	})
	require.NoError(t, err)

	cleanup := func() {
		_ = client.Disconnect(ctx)
		s.Close()
		model.Remove()
	}

	return client, ctx, cleanup
}

func TestNewClient_WithURLScheme(t *testing.T) {
	client, _, cleanup := newSimClient(t)
	defer cleanup()

	require.NotNil(t, client)
	require.NotNil(t, client.Tracker)
}

func TestNewClient_HTTPHostFails(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{
		Host:     "http://example.com/sdk",
		Username: "user",
		Password: "pass",
		Insecure: true,
	})
	require.Error(t, err)
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{
		Host:     "http://bad::url",
		Username: "user",
		Password: "pass",
		Insecure: true,
	})
	require.Error(t, err)
}

func TestClient_DisconnectNil(t *testing.T) {
	c := &Client{}
	require.NoError(t, c.Disconnect(context.Background()))
}

func TestClient_FindByName(t *testing.T) {
	client, ctx, cleanup := newSimClient(t)
	defer cleanup()

	ds, err := client.FindDatastore(ctx, "LocalDS_0")
	require.NoError(t, err)
	require.NotNil(t, ds)

	pool, err := client.FindResourcePool(ctx, "Resources")
	require.NoError(t, err)
	require.NotNil(t, pool)

	dc, err := client.FindDatacenter(ctx, "DC0")
	require.NoError(t, err)
	require.NotNil(t, dc)

	net, err := client.FindByName(ctx, KindNetwork, "VM Network")
	require.NoError(t, err)
	require.NotNil(t, net)

	vmObj, err := client.FindVirtualMachine(ctx, "DC0_H0_VM0")
	require.NoError(t, err)
	require.NotNil(t, vmObj)

	// Absence is not an error; callers decide what a missing object means.
	missing, err := client.FindVirtualMachine(ctx, "does-not-exist")
	require.NoError(t, err)
	require.Nil(t, missing)

	missingRef, err := client.FindByName(ctx, KindDatastore, "missing-datastore")
	require.NoError(t, err)
	require.Nil(t, missingRef)
}

func TestClient_FirstDatacenter(t *testing.T) {
	client, ctx, cleanup := newSimClient(t)
	defer cleanup()

	dc, err := client.FirstDatacenter(ctx)
	require.NoError(t, err)
	require.NotNil(t, dc)

	name, err := dc.ObjectName(ctx)
	require.NoError(t, err)
	require.Equal(t, "DC0", name)
}

func TestClient_TemplateFallbacks(t *testing.T) {
	client, ctx, cleanup := newSimClient(t)
	defer cleanup()

	tmpl, err := client.FindVirtualMachine(ctx, "DC0_H0_VM0")
	require.NoError(t, err)
	require.NotNil(t, tmpl)

	ds, dsName, err := client.TemplateDatastore(ctx, tmpl)
	require.NoError(t, err)
	require.NotNil(t, ds)
	require.Equal(t, "LocalDS_0", dsName)

	folder, err := client.TemplateFolder(ctx, tmpl)
	require.NoError(t, err)
	require.NotNil(t, folder)
}

func TestClient_VMFolder(t *testing.T) {
	client, ctx, cleanup := newSimClient(t)
	defer cleanup()

	dc, err := client.FindDatacenter(ctx, "DC0")
	require.NoError(t, err)

	folder, err := client.VMFolder(ctx, dc)
	require.NoError(t, err)
	require.NotNil(t, folder)
}

func TestClient_VirtualMachineFromRef(t *testing.T) {
	client, ctx, cleanup := newSimClient(t)
	defer cleanup()

	vmObj, err := client.FindVirtualMachine(ctx, "DC0_H0_VM0")
	require.NoError(t, err)

	handle := client.VirtualMachineFromRef(vmObj.Reference())
	require.NotNil(t, handle)
	require.Equal(t, vmObj.Reference(), handle.Reference())
}
