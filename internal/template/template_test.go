package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/openlab-cloud/labctl/pkg/errdefs"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

func decode[T any](t *testing.T, node *yaml.Node) T {
	t.Helper()

	var out T
	require.NoError(t, node.Decode(&out))

	return out
}

func Test_Load_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}

func Test_Load_PreservesKeyOrder(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "env.yaml", "storage: 3\nadmin: 1\npublic: 2\n")

	document, err := Load(path)
	require.NoError(t, err)

	out, err := yaml.Marshal(document)
	require.NoError(t, err)
	assert.Equal(t, "storage: 3\nadmin: 1\npublic: 2\n", string(out))
}

func Test_Load_Include(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.yaml", "capacity: 42\n")
	path := write(t, dir, "a.yaml", "volume: !include b.yaml\n")

	document, err := Load(path)
	require.NoError(t, err)

	type doc struct {
		Volume struct {
			Capacity int `yaml:"capacity"`
		} `yaml:"volume"`
	}
	assert.Equal(t, 42, decode[doc](t, document).Volume.Capacity)
}

func Test_Load_IncludeIsRelativeToIncludingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	write(t, dir, filepath.Join("sub", "inner.yaml"), "name: inner\n")
	write(t, dir, filepath.Join("sub", "outer.yaml"), "nested: !include inner.yaml\n")
	path := write(t, dir, "env.yaml", "top: !include sub/outer.yaml\n")

	document, err := Load(path)
	require.NoError(t, err)

	type doc struct {
		Top struct {
			Nested struct {
				Name string `yaml:"name"`
			} `yaml:"nested"`
		} `yaml:"top"`
	}
	assert.Equal(t, "inner", decode[doc](t, document).Top.Nested.Name)
}

func Test_Load_IncludeMissingTarget(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "a.yaml", "volume: !include b.yaml\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
	assert.ErrorContains(t, err, "a.yaml")
	assert.ErrorContains(t, err, "b.yaml")
}

func Test_Load_IncludeCycle(t *testing.T) {
	testCases := []struct {
		name  string
		files map[string]string
	}{
		{
			name:  "self include",
			files: map[string]string{"a.yaml": "self: !include a.yaml\n"},
		},
		{
			name: "transitive include",
			files: map[string]string{
				"a.yaml": "b: !include b.yaml\n",
				"b.yaml": "a: !include a.yaml\n",
			},
		},
	}

	for _, tc := range testCases {
		dir := t.TempDir()
		for name, content := range tc.files {
			write(t, dir, name, content)
		}

		_, err := Load(filepath.Join(dir, "a.yaml"))
		assert.ErrorIs(t, err, errdefs.ErrConfig, tc.name)
	}
}

func Test_Load_OSEnv(t *testing.T) {
	type doc struct {
		Value string `yaml:"value"`
	}

	dir := t.TempDir()
	path := write(t, dir, "env.yaml", "value: !os_env LABCTL_TEST_VALUE,bar\n")

	// unset: the default applies
	os.Unsetenv("LABCTL_TEST_VALUE")
	document, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bar", decode[doc](t, document).Value)

	// set: the environment wins
	t.Setenv("LABCTL_TEST_VALUE", "baz")
	document, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "baz", decode[doc](t, document).Value)
}

func Test_Load_OSEnvStructuredValue(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "env.yaml", "net: !os_env LABCTL_TEST_NET\n")

	t.Setenv("LABCTL_TEST_NET", "{cidr: 10.0.0.0/24, prefix: 25}")

	document, err := Load(path)
	require.NoError(t, err)

	type doc struct {
		Net struct {
			CIDR   string `yaml:"cidr"`
			Prefix int    `yaml:"prefix"`
		} `yaml:"net"`
	}
	out := decode[doc](t, document)
	assert.Equal(t, "10.0.0.0/24", out.Net.CIDR)
	assert.Equal(t, 25, out.Net.Prefix)
}

func Test_Load_OSEnvErrors(t *testing.T) {
	testCases := []struct {
		name     string
		document string
	}{
		{
			name:     "empty directive value",
			document: "value: !os_env\n",
		},
		{
			name:     "unset variable without default",
			document: "value: !os_env LABCTL_TEST_UNSET_VALUE\n",
		},
	}

	os.Unsetenv("LABCTL_TEST_UNSET_VALUE")

	for _, tc := range testCases {
		dir := t.TempDir()
		path := write(t, dir, "env.yaml", tc.document)

		_, err := Load(path)
		assert.ErrorIs(t, err, errdefs.ErrConfig, tc.name)
	}
}
