// Package numa computes per-cell CPU and memory partitions for nodes that
// request a NUMA topology.
package numa

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/openlab-cloud/labctl/internal/models"
	"github.com/openlab-cloud/labctl/pkg/errdefs"
)

// Plan splits vcpu CPUs and memory evenly across cells NUMA cells. A zero
// cell count means no NUMA pinning and yields an empty plan. The split must
// be exact: a remainder in either dimension fails validation.
func Plan(cells, vcpu int, memory int64, nodeName string) ([]models.NumaCell, error) {
	if cells <= 0 {
		return nil, nil
	}

	cpusPerCell := vcpu / cells
	if cpusPerCell*cells != vcpu {
		return nil, fmt.Errorf("%d numa cells do not evenly divide %d vcpus of node %q: %w",
			cells, vcpu, nodeName, errdefs.ErrValidation)
	}

	memoryPerCell := memory / int64(cells)
	if memoryPerCell*int64(cells) != memory {
		return nil, fmt.Errorf("%d numa cells do not evenly divide %d memory of node %q: %w",
			cells, memory, nodeName, errdefs.ErrValidation)
	}

	plan := make([]models.NumaCell, 0, cells)
	for cell := 0; cell < cells; cell++ {
		ids := lo.Map(lo.RangeFrom(cell*cpusPerCell, cpusPerCell), func(id int, _ int) string {
			return strconv.Itoa(id)
		})

		plan = append(plan, models.NumaCell{
			CPUs:   strings.Join(ids, ","),
			Memory: memoryPerCell,
		})
	}

	return plan, nil
}
