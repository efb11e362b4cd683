package models

import "github.com/openlab-cloud/labctl/pkg/ordmap"

// IPRange is a numeric [first, last] range of address offsets inside a pool
// subnet. A negative offset counts from the end of the subnet, so [2, -2]
// means "third address through second-to-last".
type IPRange [2]int

// AddressPool is a named allocation policy over an IP subnet. Net holds the
// source subnet descriptor, colon-joined ("CIDR:prefix").
type AddressPool struct {
	Net    string     `yaml:"net"`
	Params PoolParams `yaml:"params"`
}

type PoolParams struct {
	IPReserved IPReserved           `yaml:"ip_reserved"`
	IPRanges   *ordmap.Map[IPRange] `yaml:"ip_ranges"`
	VlanStart  int                  `yaml:"vlan_start,omitempty"`
	VlanEnd    int                  `yaml:"vlan_end,omitempty"`
}

// IPReserved holds the address offsets withheld from the usable ranges:
// the subnet gateway and the address of the local bridge device.
type IPReserved struct {
	Gateway         int `yaml:"gateway"`
	L2NetworkDevice int `yaml:"l2_network_device"`
}

type L2NetworkDevice struct {
	AddressPool string  `yaml:"address_pool"`
	DHCP        bool    `yaml:"dhcp"`
	Forward     Forward `yaml:"forward"`
}

type Forward struct {
	Mode string `yaml:"mode,omitempty"`
}
