// Package network carves address pools and L2 network devices out of the
// configured subnets, one per network in the interface ordering.
package network

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/apparentlymart/go-cidr/cidr"

	"github.com/openlab-cloud/labctl/internal/models"
	"github.com/openlab-cloud/labctl/pkg/errdefs"
	"github.com/openlab-cloud/labctl/pkg/ordmap"
)

// Networks whose name contains "private" are tagged with this fixed VLAN id
// range.
const (
	PrivateVlanStart = 900
	PrivateVlanEnd   = 999
)

// BuildPools computes one address pool per network in interfaceOrder.
// Offset 1 is reserved for the gateway and the local bridge device; the
// default usable range runs from offset 2 through the second-to-last
// address. Networks named "private" get the VLAN tagging range, and the
// externally routable "public" network gets its default range halved with
// the upper half published as the "floating" range.
func BuildPools(interfaceOrder []string, subnets map[string][]string) (*ordmap.Map[models.AddressPool], error) {
	pools := ordmap.New[models.AddressPool]()

	for _, name := range interfaceOrder {
		nets, ok := subnets[name]
		if !ok {
			return nil, fmt.Errorf("no subnet configured for network %q: %w", name, errdefs.ErrConfig)
		}

		ranges := ordmap.New[models.IPRange]()
		ranges.Set("default", models.IPRange{2, -2})

		pool := models.AddressPool{
			Net: strings.Join(nets, ":"),
			Params: models.PoolParams{
				IPReserved: models.IPReserved{Gateway: 1, L2NetworkDevice: 1},
				IPRanges:   ranges,
			},
		}

		if strings.Contains(name, "private") {
			pool.Params.VlanStart = PrivateVlanStart
			pool.Params.VlanEnd = PrivateVlanEnd
		}

		if strings.Contains(name, "public") {
			if err := splitFloatingRange(ranges, subnets["public"]); err != nil {
				return nil, err
			}
		}

		pools.Set(name, pool)
	}

	return pools, nil
}

// splitFloatingRange partitions the first configured public subnet at the
// second configured prefix length and splits the resulting address count S
// into a default range [2, S/2-1] and a floating range [S/2, S-2]. The two
// ranges never overlap and both exclude the network and broadcast addresses.
func splitFloatingRange(ranges *ordmap.Map[models.IPRange], public []string) error {
	if len(public) < 2 {
		return fmt.Errorf("public network needs a subnet and a split prefix length, got %v: %w",
			public, errdefs.ErrConfig)
	}

	_, ipnet, err := net.ParseCIDR(public[0])
	if err != nil {
		return fmt.Errorf("failed to parse public subnet %q: %w: %w", public[0], err, errdefs.ErrConfig)
	}

	prefix, err := strconv.Atoi(public[1])
	if err != nil {
		return fmt.Errorf("failed to parse public split prefix %q: %w: %w", public[1], err, errdefs.ErrConfig)
	}

	ones, _ := ipnet.Mask.Size()
	if prefix < ones {
		return fmt.Errorf("public split prefix /%d is wider than subnet %q: %w",
			prefix, public[0], errdefs.ErrConfig)
	}

	subnet, err := cidr.Subnet(ipnet, prefix-ones, 0)
	if err != nil {
		return fmt.Errorf("failed to partition public subnet %q at /%d: %w: %w",
			public[0], prefix, err, errdefs.ErrConfig)
	}

	size := int(cidr.AddressCount(subnet))

	ranges.Set("default", models.IPRange{2, size/2 - 1})
	ranges.Set("floating", models.IPRange{size / 2, size - 2})

	return nil
}

// BuildL2Devices emits one L2 network device per network, bound to the
// address pool of the same name.
func BuildL2Devices(interfaceOrder []string, dhcp map[string]bool, forwarding map[string]string) *ordmap.Map[models.L2NetworkDevice] {
	devices := ordmap.New[models.L2NetworkDevice]()

	for _, name := range interfaceOrder {
		devices.Set(name, models.L2NetworkDevice{
			AddressPool: name,
			DHCP:        dhcp[name],
			Forward:     models.Forward{Mode: forwarding[name]},
		})
	}

	return devices
}

// BuildNetPools maps logical network names onto device names for a group's
// network_pools block.
func BuildNetPools(interfaceOrder []string) *ordmap.Map[string] {
	pools := ordmap.New[string]()

	for _, name := range interfaceOrder {
		pools.Set(models.LogicalNetworkName(name), name)
	}

	return pools
}
