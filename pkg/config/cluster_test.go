package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafka-ops/kplan/pkg/admin"
)

func TestLoadClusterBytes(t *testing.T) {
	contents := []byte(`
meta:
  name: test-cluster
  environment: stage
  region: us-west-2
spec:
  bootstrapAddr: kafka.example.com:9092
  commandConfigPath: /etc/kafka/client.properties
  fetchTimeoutSeconds: 30
`)

	config, err := LoadClusterBytes(contents)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, "test-cluster", config.Meta.Name)
	assert.Equal(t, "kafka.example.com:9092", config.Spec.BootstrapAddr)
	assert.Equal(t, 30*time.Second, config.FetchTimeout())
	assert.Equal(t, "test-cluster/stage (kafka.example.com:9092)", config.Summary())
}

func TestLoadClusterBytesUnknownField(t *testing.T) {
	contents := []byte(`
meta:
  name: test-cluster
spec:
  bootstrapAddr: kafka.example.com:9092
  unknownKey: true
`)

	_, err := LoadClusterBytes(contents)
	assert.Error(t, err)
}

func TestClusterConfigValidate(t *testing.T) {
	type testCase struct {
		description string
		config      ClusterConfig
		expectErr   bool
	}

	testCases := []testCase{
		{
			description: "valid",
			config: ClusterConfig{
				Meta: ClusterMeta{Name: "c"},
				Spec: ClusterSpec{BootstrapAddr: "localhost:9092"},
			},
		},
		{
			description: "missing name and addr",
			config:      ClusterConfig{},
			expectErr:   true,
		},
		{
			description: "negative timeout",
			config: ClusterConfig{
				Meta: ClusterMeta{Name: "c"},
				Spec: ClusterSpec{
					BootstrapAddr:       "localhost:9092",
					FetchTimeoutSeconds: -1,
				},
			},
			expectErr: true,
		},
		{
			description: "command config with direct loading",
			config: ClusterConfig{
				Meta: ClusterMeta{Name: "c"},
				Spec: ClusterSpec{
					BootstrapAddr:     "localhost:9092",
					Direct:            true,
					CommandConfigPath: "/etc/kafka/client.properties",
				},
			},
			expectErr: true,
		},
		{
			description: "bad sasl mechanism",
			config: ClusterConfig{
				Meta: ClusterMeta{Name: "c"},
				Spec: ClusterSpec{
					BootstrapAddr: "localhost:9092",
					SASL:          SASLSpec{Enabled: true, Mechanism: "bogus"},
				},
			},
			expectErr: true,
		},
	}

	for _, testCase := range testCases {
		err := testCase.config.Validate()
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
		} else {
			assert.NoError(t, err, testCase.description)
		}
	}
}

func TestLoadClusterFileExpandEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cluster.yaml")

	contents := []byte(`
meta:
  name: test-cluster
spec:
  bootstrapAddr: ${TEST_KPLAN_BOOTSTRAP}
`)
	require.NoError(t, os.WriteFile(path, contents, 0644))
	os.Setenv("TEST_KPLAN_BOOTSTRAP", "broker:9092")
	defer os.Unsetenv("TEST_KPLAN_BOOTSTRAP")

	config, err := LoadClusterFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, "broker:9092", config.Spec.BootstrapAddr)
	assert.Equal(t, dir, config.RootDir)
}

func TestNewLoader(t *testing.T) {
	describeConfig := ClusterConfig{
		Meta: ClusterMeta{Name: "c"},
		Spec: ClusterSpec{BootstrapAddr: "localhost:9092"},
	}
	loader, err := describeConfig.NewLoader()
	require.NoError(t, err)
	_, ok := loader.(*admin.DescribeRunner)
	assert.True(t, ok)

	directConfig := ClusterConfig{
		Meta: ClusterMeta{Name: "c"},
		Spec: ClusterSpec{BootstrapAddr: "localhost:9092", Direct: true},
	}
	loader, err = directConfig.NewLoader()
	require.NoError(t, err)
	_, ok = loader.(*admin.MetadataLoader)
	assert.True(t, ok)
}

func TestResolvePath(t *testing.T) {
	config := ClusterConfig{RootDir: "/etc/kplan"}

	assert.Equal(t, "", config.resolvePath(""))
	assert.Equal(t, "/abs/client.properties", config.resolvePath("/abs/client.properties"))
	assert.Equal(t, "/etc/kplan/client.properties", config.resolvePath("client.properties"))

	noRoot := ClusterConfig{}
	assert.Equal(t, "client.properties", noRoot.resolvePath("client.properties"))
}
