// Package vsphere wraps the govmomi library with the connection handling,
// inventory lookup and task tracking primitives used by VM automation.
package vsphere

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/Bibi40k/vmware-vm-automation/configs"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/view"
	"github.com/vmware/govmomi/vim25"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// Managed object kinds accepted by FindByName.
const (
	KindVirtualMachine = "VirtualMachine"
	KindDatastore      = "Datastore"
	KindResourcePool   = "ResourcePool"
	KindFolder         = "Folder"
	KindNetwork        = "Network"
	KindDatacenter     = "Datacenter"
)

// Client wraps a govmomi connection and provides name-based inventory lookup.
// Lookup is a linear scan over a container view rooted at the inventory root;
// duplicate display names resolve to the first match in traversal order,
// which the underlying API does not guarantee to be stable.
type Client struct {
	conn    *govmomi.Client
	views   *view.Manager
	props   *property.Collector
	logger  *slog.Logger
	Tracker *Tracker
}

// Config holds vCenter/ESXi connection parameters.
type Config struct {
	Host     string // vCenter or ESXi hostname or IP
	Username string
	Password string
	Port     int          // default: 443
	Insecure bool         // skip TLS verification
	Logger   *slog.Logger // default: slog.Default()
}

// NewClient connects to the endpoint and returns a live session.
// Returns an error if the TLS handshake or authentication fails.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Port == 0 {
		cfg.Port = configs.Defaults.VCenter.Port
	}

	var vcURL *url.URL
	if strings.Contains(cfg.Host, "://") {
		parsed, err := url.Parse(cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("invalid server URL %q: %w", cfg.Host, err)
		}
		if parsed.Scheme != "https" {
			return nil, fmt.Errorf("unsupported server URL scheme %q (https required)", parsed.Scheme)
		}
		if parsed.Host == "" {
			return nil, fmt.Errorf("invalid server URL (missing host): %q", cfg.Host)
		}
		if parsed.Path == "" {
			parsed.Path = "/sdk"
		}
		if parsed.Port() == "" {
			parsed.Host = fmt.Sprintf("%s:%d", parsed.Hostname(), cfg.Port)
		}
		vcURL = parsed
	} else {
		vcURL = &url.URL{
			Scheme: "https",
			Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Path:   "/sdk",
		}
	}
	vcURL.User = url.UserPassword(cfg.Username, cfg.Password)

	logger.Info("Connecting to server", "host", cfg.Host, "port", cfg.Port, "username", cfg.Username)

	conn, err := govmomi.NewClient(ctx, vcURL, cfg.Insecure)
	if err != nil {
		logger.Error("Connection failed", "host", cfg.Host, "error", err)
		return nil, fmt.Errorf("failed to connect to %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	logger.Info("Successfully connected to server", "host", cfg.Host, "port", cfg.Port)

	return &Client{
		conn:    conn,
		views:   view.NewManager(conn.Client),
		props:   property.DefaultCollector(conn.Client),
		logger:  logger,
		Tracker: NewTracker(logger),
	}, nil
}

// Disconnect closes the session. Idempotent: safe to call on an already
// closed or never-connected client.
func (c *Client) Disconnect(ctx context.Context) error {
	if c == nil || c.conn == nil {
		return nil
	}
	c.logger.Info("Disconnecting from server")
	err := c.conn.Logout(ctx)
	c.conn = nil
	return err
}

// vim returns the underlying vim25 client for object handle construction.
func (c *Client) vim() *vim25.Client {
	return c.conn.Client
}

// FindByName scans all objects of the given kind under the inventory root
// and returns the first one whose display name matches exactly.
// Returns (nil, nil) when no object matches.
func (c *Client) FindByName(ctx context.Context, kind, name string) (*types.ManagedObjectReference, error) {
	v, err := c.views.CreateContainerView(ctx, c.vim().ServiceContent.RootFolder, []string{kind}, true)
	if err != nil {
		return nil, fmt.Errorf("container view for %s: %w", kind, err)
	}
	defer func() { _ = v.Destroy(ctx) }()

	res, err := c.props.RetrieveProperties(ctx, types.RetrieveProperties{
		SpecSet: []types.PropertyFilterSpec{{
			ObjectSet: []types.ObjectSpec{{
				Obj:  v.Reference(),
				Skip: types.NewBool(true),
				SelectSet: []types.BaseSelectionSpec{&types.TraversalSpec{
					Type: "ContainerView",
					Path: "view",
				}},
			}},
			PropSet: []types.PropertySpec{{
				Type:    kind,
				PathSet: []string{"name"},
			}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve %s names: %w", kind, err)
	}

	for _, oc := range res.Returnval {
		for _, p := range oc.PropSet {
			if s, ok := p.Val.(string); ok && p.Name == "name" && s == name {
				c.logger.Debug("Found object", "kind", kind, "name", name)
				ref := oc.Obj
				return &ref, nil
			}
		}
	}
	return nil, nil
}

// FindVirtualMachine locates a VM or template by name.
// Returns (nil, nil) if it does not exist; callers decide whether that is an error.
func (c *Client) FindVirtualMachine(ctx context.Context, name string) (*object.VirtualMachine, error) {
	ref, err := c.FindByName(ctx, KindVirtualMachine, name)
	if err != nil || ref == nil {
		return nil, err
	}
	return object.NewVirtualMachine(c.vim(), *ref), nil
}

// FindDatastore locates a datastore by name. Returns (nil, nil) when absent.
func (c *Client) FindDatastore(ctx context.Context, name string) (*object.Datastore, error) {
	ref, err := c.FindByName(ctx, KindDatastore, name)
	if err != nil || ref == nil {
		return nil, err
	}
	return object.NewDatastore(c.vim(), *ref), nil
}

// FindResourcePool locates a resource pool by name. Returns (nil, nil) when absent.
func (c *Client) FindResourcePool(ctx context.Context, name string) (*object.ResourcePool, error) {
	ref, err := c.FindByName(ctx, KindResourcePool, name)
	if err != nil || ref == nil {
		return nil, err
	}
	return object.NewResourcePool(c.vim(), *ref), nil
}

// FindFolder locates a folder by name. Returns (nil, nil) when absent.
func (c *Client) FindFolder(ctx context.Context, name string) (*object.Folder, error) {
	ref, err := c.FindByName(ctx, KindFolder, name)
	if err != nil || ref == nil {
		return nil, err
	}
	return object.NewFolder(c.vim(), *ref), nil
}

// FindDatacenter locates a datacenter by name. Returns (nil, nil) when absent.
func (c *Client) FindDatacenter(ctx context.Context, name string) (*object.Datacenter, error) {
	ref, err := c.FindByName(ctx, KindDatacenter, name)
	if err != nil || ref == nil {
		return nil, err
	}
	return object.NewDatacenter(c.vim(), *ref), nil
}

// FirstDatacenter returns the first datacenter under the inventory root, the
// fallback used when no datacenter name is configured.
// Returns (nil, nil) when the inventory holds none.
func (c *Client) FirstDatacenter(ctx context.Context) (*object.Datacenter, error) {
	v, err := c.views.CreateContainerView(ctx, c.vim().ServiceContent.RootFolder, []string{KindDatacenter}, true)
	if err != nil {
		return nil, fmt.Errorf("container view for %s: %w", KindDatacenter, err)
	}
	defer func() { _ = v.Destroy(ctx) }()

	var cv mo.ContainerView
	if err := c.props.RetrieveOne(ctx, v.Reference(), []string{"view"}, &cv); err != nil {
		return nil, fmt.Errorf("retrieve datacenter view: %w", err)
	}
	if len(cv.View) == 0 {
		return nil, nil
	}
	return object.NewDatacenter(c.vim(), cv.View[0]), nil
}

// TemplateDatastore returns the template's primary datastore and its display
// name, the datastore fallback on the clone path. Returns (nil, "", nil) when
// the template reports no datastore.
func (c *Client) TemplateDatastore(ctx context.Context, tmpl *object.VirtualMachine) (*object.Datastore, string, error) {
	var m mo.VirtualMachine
	if err := c.props.RetrieveOne(ctx, tmpl.Reference(), []string{"datastore"}, &m); err != nil {
		return nil, "", fmt.Errorf("retrieve template datastore: %w", err)
	}
	if len(m.Datastore) == 0 {
		return nil, "", nil
	}
	ds := object.NewDatastore(c.vim(), m.Datastore[0])
	name, err := ds.ObjectName(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("retrieve datastore name: %w", err)
	}
	return ds, name, nil
}

// TemplateFolder returns the template's parent folder, the folder fallback on
// the clone path. Returns (nil, nil) when the parent is not a folder.
func (c *Client) TemplateFolder(ctx context.Context, tmpl *object.VirtualMachine) (*object.Folder, error) {
	var m mo.VirtualMachine
	if err := c.props.RetrieveOne(ctx, tmpl.Reference(), []string{"parent"}, &m); err != nil {
		return nil, fmt.Errorf("retrieve template parent: %w", err)
	}
	if m.Parent == nil || m.Parent.Type != KindFolder {
		return nil, nil
	}
	return object.NewFolder(c.vim(), *m.Parent), nil
}

// VMFolder returns the datacenter's default VM folder, the folder fallback
// when a datacenter is resolved.
func (c *Client) VMFolder(ctx context.Context, dc *object.Datacenter) (*object.Folder, error) {
	var m mo.Datacenter
	if err := c.props.RetrieveOne(ctx, dc.Reference(), []string{"vmFolder"}, &m); err != nil {
		return nil, fmt.Errorf("retrieve datacenter vm folder: %w", err)
	}
	return object.NewFolder(c.vim(), m.VmFolder), nil
}

// VirtualMachineFromRef wraps a managed object reference (e.g. a task result)
// in a VM handle bound to this session.
func (c *Client) VirtualMachineFromRef(ref types.ManagedObjectReference) *object.VirtualMachine {
	return object.NewVirtualMachine(c.vim(), ref)
}

// WaitForTask tracks the task to a terminal state using the client's tracker.
func (c *Client) WaitForTask(ctx context.Context, task *object.Task, vmName string) (types.AnyType, error) {
	return c.Tracker.Wait(ctx, c, task, vmName)
}
