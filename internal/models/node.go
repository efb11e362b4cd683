package models

import "github.com/openlab-cloud/labctl/pkg/ordmap"

const (
	RoleMaster      = "master"
	RoleSlave       = "slave"
	RoleIronicSlave = "ironic-slave"
)

// AdminNetwork is the device name of the provisioning network. It is exposed
// to the network configuration of nodes under LogicalAdminNetwork.
const (
	AdminNetwork        = "admin"
	LogicalAdminNetwork = "pxe_admin"
)

// LogicalNetworkName translates an L2 device name into the logical network
// name that node network configs and group network pools refer to.
func LogicalNetworkName(device string) string {
	if device == AdminNetwork {
		return LogicalAdminNetwork
	}
	return device
}

// Node is one virtual machine definition. It is created once by the
// assembler and not mutated afterwards.
type Node struct {
	Name   string     `yaml:"name"`
	Role   string     `yaml:"role"`
	Params NodeParams `yaml:"params"`
}

type NodeParams struct {
	VCPU            int                        `yaml:"vcpu"`
	Memory          int64                      `yaml:"memory"`
	Boot            []string                   `yaml:"boot"`
	BootMenuTimeout int                        `yaml:"bootmenu_timeout,omitempty"`
	Numa            []NumaCell                 `yaml:"numa,omitempty"`
	Volumes         []Volume                   `yaml:"volumes"`
	Interfaces      []Interface                `yaml:"interfaces"`
	NetworkConfig   *ordmap.Map[NetworkConfig] `yaml:"network_config"`
}

// NumaCell pins a share of the node's CPUs and memory to one NUMA cell.
// CPUs is a comma-joined list of CPU ids.
type NumaCell struct {
	CPUs   string `yaml:"cpus"`
	Memory int64  `yaml:"memory"`
}

// Interface binds a labeled node interface to an L2 network device. Label
// order is stable given the same input ordering: the driver maps interfaces
// positionally onto OS device naming.
type Interface struct {
	Label           string `yaml:"label"`
	L2NetworkDevice string `yaml:"l2_network_device"`
	InterfaceModel  string `yaml:"interface_model"`
}

// NetworkConfig lists the logical networks carried by one labeled interface.
type NetworkConfig struct {
	Networks []string `yaml:"networks"`
}

type Volume struct {
	Name           string `yaml:"name"`
	Capacity       int    `yaml:"capacity,omitempty"`
	Format         string `yaml:"format,omitempty"`
	SourceImage    string `yaml:"source_image,omitempty"`
	Device         string `yaml:"device,omitempty"`
	Bus            string `yaml:"bus,omitempty"`
	BackingStore   string `yaml:"backing_store,omitempty"`
	MultipathCount int    `yaml:"multipath_count,omitempty"`
}
