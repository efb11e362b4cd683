package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlab-cloud/labctl/internal/models"
	"github.com/openlab-cloud/labctl/pkg/errdefs"
)

func Test_BuildPools(t *testing.T) {
	order := []string{"admin", "public", "private", "storage"}
	subnets := map[string][]string{
		"admin":   {"10.109.0.0/16", "24"},
		"public":  {"10.0.0.0/24", "25"},
		"private": {"10.109.0.0/16", "24"},
		"storage": {"10.109.0.0/16", "24"},
	}

	pools, err := BuildPools(order, subnets)
	require.NoError(t, err)
	assert.Equal(t, order, pools.Keys())

	admin, ok := pools.Get("admin")
	require.True(t, ok)
	assert.Equal(t, "10.109.0.0/16:24", admin.Net)
	assert.Equal(t, models.IPReserved{Gateway: 1, L2NetworkDevice: 1}, admin.Params.IPReserved)
	assert.Zero(t, admin.Params.VlanStart)

	defaultRange, ok := admin.Params.IPRanges.Get("default")
	require.True(t, ok)
	assert.Equal(t, models.IPRange{2, -2}, defaultRange)

	private, ok := pools.Get("private")
	require.True(t, ok)
	assert.Equal(t, 900, private.Params.VlanStart)
	assert.Equal(t, 999, private.Params.VlanEnd)
}

func Test_BuildPools_FloatingSplit(t *testing.T) {
	// a /24 partitioned at /25 has 128 addresses: the default range takes
	// the lower half, floating the upper, both inside [2, 126]
	pools, err := BuildPools([]string{"public"}, map[string][]string{
		"public": {"10.0.0.0/24", "25"},
	})
	require.NoError(t, err)

	public, ok := pools.Get("public")
	require.True(t, ok)
	assert.Equal(t, []string{"default", "floating"}, public.Params.IPRanges.Keys())

	defaultRange, _ := public.Params.IPRanges.Get("default")
	floatingRange, _ := public.Params.IPRanges.Get("floating")
	assert.Equal(t, models.IPRange{2, 63}, defaultRange)
	assert.Equal(t, models.IPRange{64, 126}, floatingRange)
}

func Test_BuildPools_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		order   []string
		subnets map[string][]string
	}{
		{
			name:    "unknown network",
			order:   []string{"admin"},
			subnets: map[string][]string{},
		},
		{
			name:    "public without split prefix",
			order:   []string{"public"},
			subnets: map[string][]string{"public": {"10.0.0.0/24"}},
		},
		{
			name:    "public subnet unparseable",
			order:   []string{"public"},
			subnets: map[string][]string{"public": {"not-a-cidr", "25"}},
		},
		{
			name:    "public split prefix not a number",
			order:   []string{"public"},
			subnets: map[string][]string{"public": {"10.0.0.0/24", "x"}},
		},
		{
			name:    "public split prefix smaller than subnet",
			order:   []string{"public"},
			subnets: map[string][]string{"public": {"10.0.0.0/24", "23"}},
		},
	}

	for _, tc := range testCases {
		_, err := BuildPools(tc.order, tc.subnets)
		assert.ErrorIs(t, err, errdefs.ErrConfig, tc.name)
	}
}

func Test_BuildL2Devices(t *testing.T) {
	order := []string{"admin", "public"}
	dhcp := map[string]bool{"admin": true}
	forwarding := map[string]string{"admin": "nat", "public": "nat"}

	devices := BuildL2Devices(order, dhcp, forwarding)

	assert.Equal(t, order, devices.Keys())

	admin, ok := devices.Get("admin")
	require.True(t, ok)
	assert.Equal(t, models.L2NetworkDevice{
		AddressPool: "admin",
		DHCP:        true,
		Forward:     models.Forward{Mode: "nat"},
	}, admin)

	public, ok := devices.Get("public")
	require.True(t, ok)
	assert.False(t, public.DHCP)
}

func Test_BuildNetPools(t *testing.T) {
	pools := BuildNetPools([]string{"admin", "public", "storage"})

	assert.Equal(t, []string{"pxe_admin", "public", "storage"}, pools.Keys())

	device, ok := pools.Get("pxe_admin")
	assert.True(t, ok)
	assert.Equal(t, "admin", device)
}
