package models

import "github.com/openlab-cloud/labctl/pkg/ordmap"

// Config is the root of an environment document, in the shape consumed by
// the provisioning driver.
type Config struct {
	Template Template `yaml:"template"`
}

type Template struct {
	Settings Settings `yaml:"settings"`
}

// Settings describes one complete virtual test environment: its address
// pools and one or more node groups.
type Settings struct {
	EnvName      string                   `yaml:"env_name"`
	AddressPools *ordmap.Map[AddressPool] `yaml:"address_pools"`
	Groups       []Group                  `yaml:"groups"`
}

type Group struct {
	Name             string                       `yaml:"name"`
	Driver           Driver                       `yaml:"driver"`
	NetworkPools     *ordmap.Map[string]          `yaml:"network_pools"`
	L2NetworkDevices *ordmap.Map[L2NetworkDevice] `yaml:"l2_network_devices"`
	Nodes            []Node                       `yaml:"nodes"`
}

type Driver struct {
	Name   string       `yaml:"name"`
	Params DriverParams `yaml:"params"`
}

type DriverParams struct {
	ConnectionString string `yaml:"connection_string"`
	StoragePoolName  string `yaml:"storage_pool_name"`
	STP              bool   `yaml:"stp"`
	HPET             bool   `yaml:"hpet"`
	UseHostCPU       bool   `yaml:"use_host_cpu"`
	EnableACPI       bool   `yaml:"enable_acpi"`
	EnableNWFilters  bool   `yaml:"enable_nwfilters"`
}
