// Package validator checks assembled or loaded environment documents against
// the structural invariants the provisioning driver relies on.
package validator

import (
	"errors"
	"fmt"

	"github.com/openlab-cloud/labctl/internal/models"
)

var (
	ErrEmptyEnvironmentName     = errors.New("empty environment name")
	ErrNoNodes                  = errors.New("environment has no nodes")
	ErrDuplicatedNodeName       = errors.New("duplicated node name")
	ErrDuplicatedInterfaceLabel = errors.New("duplicated interface label")
	ErrMissingAddressPool       = errors.New("no address pool for referenced network")
	ErrMissingSystemVolume      = errors.New("first volume is not the system volume")
)

// Validate checks the document invariants: a named environment with at least
// one node, unique node names, unique interface labels per node, an address
// pool for every network referenced by an interface or an L2 device, and a
// system volume heading every node's volume list.
func Validate(config *models.Config) error {
	settings := config.Template.Settings

	if settings.EnvName == "" {
		return ErrEmptyEnvironmentName
	}

	seenNodes := make(map[string]struct{})

	total := 0
	for _, group := range settings.Groups {
		for _, name := range group.L2NetworkDevices.Keys() {
			if _, ok := settings.AddressPools.Get(name); !ok {
				return fmt.Errorf("l2 network device %q: %w", name, ErrMissingAddressPool)
			}
		}

		for _, node := range group.Nodes {
			total++

			if _, ok := seenNodes[node.Name]; ok {
				return fmt.Errorf("node %q: %w", node.Name, ErrDuplicatedNodeName)
			}
			seenNodes[node.Name] = struct{}{}

			if err := validateNode(settings, node); err != nil {
				return err
			}
		}
	}

	if total == 0 {
		return ErrNoNodes
	}

	return nil
}

func validateNode(settings models.Settings, node models.Node) error {
	seenLabels := make(map[string]struct{})

	for _, iface := range node.Params.Interfaces {
		if _, ok := seenLabels[iface.Label]; ok {
			return fmt.Errorf("node %q, interface %q: %w", node.Name, iface.Label, ErrDuplicatedInterfaceLabel)
		}
		seenLabels[iface.Label] = struct{}{}

		if _, ok := settings.AddressPools.Get(iface.L2NetworkDevice); !ok {
			return fmt.Errorf("node %q, network %q: %w", node.Name, iface.L2NetworkDevice, ErrMissingAddressPool)
		}
	}

	if len(node.Params.Volumes) == 0 || node.Params.Volumes[0].Name != "system" {
		return fmt.Errorf("node %q: %w", node.Name, ErrMissingSystemVolume)
	}

	return nil
}
