// Package layout produces the ordered interface list of a node from one of
// three mutually exclusive strategies: sequential network ordering, a legacy
// bonding map, or alternating multi-network group assignment.
package layout

import (
	"sort"
	"strconv"

	"github.com/samber/lo"

	"github.com/openlab-cloud/labctl/internal/models"
	"github.com/openlab-cloud/labctl/pkg/ordmap"
)

// DefaultInterfaceModel is the emulated NIC model used for all synthesized
// interfaces.
const DefaultInterfaceModel = "e1000"

type Strategy interface {
	Build() []models.Interface
}

// Sequential emits one interface per network device, labeled positionally
// iface0, iface1, ...
type Sequential struct {
	Order []string
}

func (s Sequential) Build() []models.Interface {
	return lo.Map(s.Order, func(device string, n int) models.Interface {
		return models.Interface{
			Label:           "iface" + strconv.Itoa(n),
			L2NetworkDevice: device,
			InterfaceModel:  DefaultInterfaceModel,
		}
	})
}

// Bonded derives interfaces from a legacy bonding map of network device name
// to the interface labels aggregated under it. Labels are emitted in
// lexicographic order.
type Bonded struct {
	Interfaces map[string][]string
}

func (b Bonded) Build() []models.Interface {
	deviceByLabel := make(map[string]string)
	for device, labels := range b.Interfaces {
		for _, label := range labels {
			deviceByLabel[label] = device
		}
	}

	labels := lo.Keys(deviceByLabel)
	sort.Strings(labels)

	return lo.Map(labels, func(label string, _ int) models.Interface {
		return models.Interface{
			Label:           label,
			L2NetworkDevice: deviceByLabel[label],
			InterfaceModel:  DefaultInterfaceModel,
		}
	})
}

// Group is one node-group network layout with its own pool ordering.
type Group struct {
	Name  string   `yaml:"name" mapstructure:"name"`
	Pools []string `yaml:"pools" mapstructure:"pools"`
}

// MultiGroup alternates slave nodes between two node-group layouts so that
// both layouts are exercised: node index i picks group 1-(i mod 2).
type MultiGroup struct {
	Groups    []Group
	NodeIndex int
}

func (m MultiGroup) Build() []models.Interface {
	group := m.Groups[1-m.NodeIndex%2]

	return Sequential{Order: group.Pools}.Build()
}

// Select resolves the strategy for a node: multi-group assignment wins over
// the bonding map, which wins over plain sequential ordering.
func Select(order []string, bonding map[string][]string, groups []Group, nodeIndex int) Strategy {
	switch {
	case len(groups) > 0:
		return MultiGroup{Groups: groups, NodeIndex: nodeIndex}
	case len(bonding) > 0:
		return Bonded{Interfaces: bonding}
	default:
		return Sequential{Order: order}
	}
}

// NetworkConfig maps each interface label to the logical networks it
// carries, in interface order.
func NetworkConfig(interfaces []models.Interface) *ordmap.Map[models.NetworkConfig] {
	config := ordmap.New[models.NetworkConfig]()
	for _, iface := range interfaces {
		config.Set(iface.Label, models.NetworkConfig{
			Networks: []string{models.LogicalNetworkName(iface.L2NetworkDevice)},
		})
	}

	return config
}
