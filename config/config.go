// Package config is the caller-visible configuration surface of the legacy
// scalar-parameter entry point. Every optional parameter has a default here
// and may be overridden from the process environment or an optional config
// file; components never read ambient state themselves.
package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/openlab-cloud/labctl/internal/assembler"
	"github.com/openlab-cloud/labctl/internal/layout"
)

type Config struct {
	EnvName  string `mapstructure:"env_name"`
	BootFrom string `mapstructure:"boot_from"`
	ISOPath  string `mapstructure:"iso_path"`

	AdminVCPU           int   `mapstructure:"admin_vcpu"`
	AdminMemory         int64 `mapstructure:"admin_memory"`
	AdminVolumeCapacity int   `mapstructure:"admin_volume_capacity"`

	NodesCount int `mapstructure:"nodes_count"`
	NumaNodes  int `mapstructure:"numa_nodes"`

	SlaveVCPU            int  `mapstructure:"slave_vcpu"`
	SlaveMemory          int64 `mapstructure:"slave_memory"`
	SlaveVolumeCapacity  int  `mapstructure:"slave_volume_capacity"`
	SecondVolumeCapacity int  `mapstructure:"second_volume_capacity"`
	ThirdVolumeCapacity  int  `mapstructure:"third_volume_capacity"`
	UseAllDisks          bool `mapstructure:"use_all_disks"`
	MultipathCount       int  `mapstructure:"multipath_count"`

	IronicNodesCount int `mapstructure:"ironic_nodes_count"`

	Bonding           bool                `mapstructure:"bonding"`
	BondingInterfaces map[string][]string `mapstructure:"bonding_interfaces"`
	MultipleNetworks  bool                `mapstructure:"multiple_networks"`
	NodeGroups        []layout.Group      `mapstructure:"node_groups"`

	InterfaceOrder []string          `mapstructure:"interface_order"`
	Pools          map[string]string `mapstructure:"pools"`
	Forwarding     map[string]string `mapstructure:"forwarding"`
	DHCP           map[string]bool   `mapstructure:"dhcp"`

	EnableACPI      bool `mapstructure:"enable_acpi"`
	EnableNWFilters bool `mapstructure:"enable_nwfilters"`
}

// Load resolves the configuration: defaults, then the optional config file
// at path, then process environment variables (ENV_NAME, NODES_COUNT,
// POOLS_PUBLIC, ...), which win.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := Config{}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
		))); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Params maps the configuration onto the assembler's parameter shape,
// splitting each pool descriptor ("CIDR:prefix") into its subnet parts.
func (c Config) Params() assembler.Params {
	subnets := make(map[string][]string, len(c.Pools))
	for name, pool := range c.Pools {
		subnets[name] = strings.Split(pool, ":")
	}

	return assembler.Params{
		EnvName:  c.EnvName,
		BootFrom: c.BootFrom,

		AdminVCPU:           c.AdminVCPU,
		AdminMemory:         c.AdminMemory,
		AdminVolumeCapacity: c.AdminVolumeCapacity,
		AdminISOPath:        c.ISOPath,

		NodesCount: c.NodesCount,
		NumaNodes:  c.NumaNodes,

		SlaveVCPU:            c.SlaveVCPU,
		SlaveMemory:          c.SlaveMemory,
		SlaveVolumeCapacity:  c.SlaveVolumeCapacity,
		SecondVolumeCapacity: c.SecondVolumeCapacity,
		ThirdVolumeCapacity:  c.ThirdVolumeCapacity,
		UseAllDisks:          c.UseAllDisks,
		MultipathCount:       c.MultipathCount,

		IronicNodesCount: c.IronicNodesCount,

		Bonding:           c.Bonding,
		BondingInterfaces: c.BondingInterfaces,
		MultipleNetworks:  c.MultipleNetworks,
		NodeGroups:        c.NodeGroups,

		InterfaceOrder: c.InterfaceOrder,
		Subnets:        subnets,
		Forwarding:     c.Forwarding,
		DHCP:           c.DHCP,

		EnableACPI:      c.EnableACPI,
		EnableNWFilters: c.EnableNWFilters,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env_name", "labctl")
	v.SetDefault("boot_from", "cdrom")
	v.SetDefault("iso_path", "")

	v.SetDefault("admin_vcpu", 2)
	v.SetDefault("admin_memory", 3072)
	v.SetDefault("admin_volume_capacity", 75)

	v.SetDefault("nodes_count", 10)
	v.SetDefault("numa_nodes", 0)

	v.SetDefault("slave_vcpu", 2)
	v.SetDefault("slave_memory", 3072)
	v.SetDefault("slave_volume_capacity", 50)
	v.SetDefault("second_volume_capacity", 0)
	v.SetDefault("third_volume_capacity", 0)
	v.SetDefault("use_all_disks", true)
	v.SetDefault("multipath_count", 0)

	v.SetDefault("ironic_nodes_count", 0)

	v.SetDefault("bonding", false)
	v.SetDefault("multiple_networks", false)

	v.SetDefault("interface_order", []string{"admin", "public", "management", "private", "storage"})

	for _, pool := range []string{"admin", "public", "management", "private", "storage", "ironic"} {
		v.SetDefault("pools."+pool, "10.109.0.0/16:24")
		v.SetDefault("dhcp."+pool, false)
		v.SetDefault("forwarding."+pool, "")
	}
	v.SetDefault("forwarding.admin", "nat")
	v.SetDefault("forwarding.public", "nat")

	v.SetDefault("enable_acpi", false)
	v.SetDefault("enable_nwfilters", false)
}
