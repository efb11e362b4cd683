// Package assembler synthesizes a complete environment document from legacy
// scalar parameters: one admin node, a row of slave nodes, optional ironic
// nodes, and the address pools and L2 devices their interfaces attach to.
package assembler

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/openlab-cloud/labctl/internal/layout"
	"github.com/openlab-cloud/labctl/internal/models"
	"github.com/openlab-cloud/labctl/internal/network"
	"github.com/openlab-cloud/labctl/internal/numa"
	"github.com/openlab-cloud/labctl/pkg/errdefs"
)

const (
	DriverName       = "libvirt"
	ConnectionString = "qemu:///system"
	StoragePoolName  = "default"
	DefaultGroupName = "default"

	// IronicNetwork is the dedicated network that ironic slaves are laid
	// out on.
	IronicNetwork = "ironic"

	bootMenuTimeout = 3000
)

// Params is the legacy scalar-parameter shape of an environment. The zero
// value of any optional field means "use the configuration surface default";
// defaulting happens in the config package, not here.
type Params struct {
	EnvName  string
	BootFrom string

	AdminVCPU           int
	AdminMemory         int64
	AdminVolumeCapacity int
	AdminISOPath        string

	NodesCount int
	NumaNodes  int

	SlaveVCPU            int
	SlaveMemory          int64
	SlaveVolumeCapacity  int
	SecondVolumeCapacity int
	ThirdVolumeCapacity  int
	UseAllDisks          bool
	MultipathCount       int

	IronicNodesCount int

	Bonding           bool
	BondingInterfaces map[string][]string
	MultipleNetworks  bool
	NodeGroups        []layout.Group

	InterfaceOrder []string
	Subnets        map[string][]string
	Forwarding     map[string]string
	DHCP           map[string]bool

	EnableACPI      bool
	EnableNWFilters bool
}

// Assemble builds the full environment document. It is deterministic and
// performs no I/O; validation failures from the nested planners propagate
// unmodified.
func Assemble(params Params) (*models.Config, error) {
	// slaves alternate between two node-group layouts
	if params.MultipleNetworks && len(params.NodeGroups) < 2 {
		return nil, fmt.Errorf("multiple networks layout needs two node groups, got %d: %w",
			len(params.NodeGroups), errdefs.ErrConfig)
	}

	order := params.InterfaceOrder
	if params.Bonding {
		// the bonding map's device names replace the plain ordering;
		// map keys carry no order of their own, so sort for determinism
		order = lo.Keys(params.BondingInterfaces)
		sort.Strings(order)
	}

	pools, err := network.BuildPools(order, params.Subnets)
	if err != nil {
		return nil, err
	}

	nodes := make([]models.Node, 0, params.NodesCount+params.IronicNodesCount)

	admin, err := buildAdminNode(params, order)
	if err != nil {
		return nil, err
	}
	nodes = append(nodes, admin)

	for i := 1; i < params.NodesCount; i++ {
		slave, err := buildSlaveNode(params, order, fmt.Sprintf("slave-%02d", i), i)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, slave)
	}

	for i := 1; i <= params.IronicNodesCount; i++ {
		ironic, err := buildIronicNode(params, fmt.Sprintf("ironic-slave-%02d", i))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, ironic)
	}

	return &models.Config{
		Template: models.Template{
			Settings: models.Settings{
				EnvName:      params.EnvName,
				AddressPools: pools,
				Groups: []models.Group{
					{
						Name: DefaultGroupName,
						Driver: models.Driver{
							Name: DriverName,
							Params: models.DriverParams{
								ConnectionString: ConnectionString,
								StoragePoolName:  StoragePoolName,
								STP:              true,
								HPET:             false,
								UseHostCPU:       true,
								EnableACPI:       params.EnableACPI,
								EnableNWFilters:  params.EnableNWFilters,
							},
						},
						NetworkPools:     network.BuildNetPools(order),
						L2NetworkDevices: network.BuildL2Devices(order, params.DHCP, params.Forwarding),
						Nodes:            nodes,
					},
				},
			},
		},
	}, nil
}

func buildAdminNode(params Params, order []string) (models.Node, error) {
	var strategy layout.Strategy = layout.Sequential{Order: order}
	if params.Bonding {
		strategy = layout.Bonded{Interfaces: params.BondingInterfaces}
	}
	interfaces := strategy.Build()

	boot := []string{"hd", "cdrom"}
	menuTimeout := bootMenuTimeout
	iso := models.Volume{
		Name:        "iso",
		SourceImage: params.AdminISOPath,
		Format:      "raw",
		Device:      "cdrom",
		Bus:         "ide",
	}

	if params.BootFrom == "usb" {
		boot = []string{"hd"}
		menuTimeout = 0
		iso.Device = "disk"
		iso.Bus = "usb"
	}

	cells, err := numa.Plan(params.NumaNodes, params.AdminVCPU, params.AdminMemory, "admin")
	if err != nil {
		return models.Node{}, err
	}

	return models.Node{
		Name: "admin",
		Role: models.RoleMaster,
		Params: models.NodeParams{
			VCPU:            params.AdminVCPU,
			Memory:          params.AdminMemory,
			Boot:            boot,
			BootMenuTimeout: menuTimeout,
			Numa:            cells,
			Volumes: []models.Volume{
				{Name: "system", Capacity: params.AdminVolumeCapacity, Format: "qcow2"},
				iso,
			},
			Interfaces:    interfaces,
			NetworkConfig: layout.NetworkConfig(interfaces),
		},
	}, nil
}

func buildSlaveNode(params Params, order []string, name string, index int) (models.Node, error) {
	var bonding map[string][]string
	if params.Bonding {
		bonding = params.BondingInterfaces
	}

	var groups []layout.Group
	if params.MultipleNetworks {
		groups = params.NodeGroups
	}

	interfaces := layout.Select(order, bonding, groups, index).Build()

	return workerNode(params, name, models.RoleSlave, interfaces, slaveVolumes(params))
}

func buildIronicNode(params Params, name string) (models.Node, error) {
	interfaces := layout.Sequential{Order: []string{IronicNetwork}}.Build()
	volumes := []models.Volume{
		{Name: "system", Capacity: params.SlaveVolumeCapacity, MultipathCount: params.MultipathCount},
	}

	return workerNode(params, name, models.RoleIronicSlave, interfaces, volumes)
}

func workerNode(params Params, name, role string, interfaces []models.Interface, volumes []models.Volume) (models.Node, error) {
	cells, err := numa.Plan(params.NumaNodes, params.SlaveVCPU, params.SlaveMemory, name)
	if err != nil {
		return models.Node{}, err
	}

	return models.Node{
		Name: name,
		Role: role,
		Params: models.NodeParams{
			VCPU:          params.SlaveVCPU,
			Memory:        params.SlaveMemory,
			Boot:          []string{"network", "hd"},
			Numa:          cells,
			Volumes:       volumes,
			Interfaces:    interfaces,
			NetworkConfig: layout.NetworkConfig(interfaces),
		},
	}, nil
}

// slaveVolumes builds the disk set of a slave node. The system volume is
// always first; cinder and swift volumes are added when "use all disks" is
// set or their capacity was given explicitly, defaulting to the system
// volume capacity.
func slaveVolumes(params Params) []models.Volume {
	volumes := []models.Volume{
		{Name: "system", Capacity: params.SlaveVolumeCapacity, MultipathCount: params.MultipathCount},
	}

	if params.UseAllDisks || params.SecondVolumeCapacity > 0 {
		capacity := params.SecondVolumeCapacity
		if capacity == 0 {
			capacity = params.SlaveVolumeCapacity
		}
		volumes = append(volumes, models.Volume{
			Name:           "cinder",
			Capacity:       capacity,
			MultipathCount: params.MultipathCount,
		})
	}

	if params.UseAllDisks || params.ThirdVolumeCapacity > 0 {
		capacity := params.ThirdVolumeCapacity
		if capacity == 0 {
			capacity = params.SlaveVolumeCapacity
		}
		volumes = append(volumes, models.Volume{Name: "swift", Capacity: capacity})
	}

	return volumes
}
