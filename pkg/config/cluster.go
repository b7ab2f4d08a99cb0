package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/kafka-ops/kplan/pkg/admin"
)

// ClusterConfig stores the configuration for a single cluster.
type ClusterConfig struct {
	Meta ClusterMeta `json:"meta"`
	Spec ClusterSpec `json:"spec"`

	// RootDir is the directory the config file was loaded from. Used to
	// resolve relative paths in the file.
	RootDir string `json:"-"`
}

// ClusterMeta contains (mostly immutable) metadata about the cluster.
type ClusterMeta struct {
	Name        string `json:"name"`
	Environment string `json:"environment"`
	Region      string `json:"region"`
	Description string `json:"description"`
}

// ClusterSpec contains the details required to connect to the cluster and
// describe its topics.
type ClusterSpec struct {
	// BootstrapAddr is the host:port of any broker in the cluster.
	BootstrapAddr string `json:"bootstrapAddr"`

	// CommandConfigPath is an optional client properties file passed
	// through to the Kafka CLI tools for SASL/SSL setup.
	CommandConfigPath string `json:"commandConfigPath"`

	// KafkaTopicsPath overrides the kafka-topics command used to
	// describe topics.
	KafkaTopicsPath string `json:"kafkaTopicsPath"`

	// FetchTimeoutSeconds bounds a single describe invocation.
	FetchTimeoutSeconds int `json:"fetchTimeoutSeconds"`

	// Direct switches topology loading to the Kafka metadata API
	// instead of the kafka-topics subprocess.
	Direct bool `json:"direct"`

	TLS  TLSSpec  `json:"tls"`
	SASL SASLSpec `json:"sasl"`
}

// TLSSpec configures TLS for direct metadata loading.
type TLSSpec struct {
	Enabled    bool   `json:"enabled"`
	CACertPath string `json:"caCertPath"`
	CertPath   string `json:"certPath"`
	KeyPath    string `json:"keyPath"`
	ServerName string `json:"serverName"`
	SkipVerify bool   `json:"skipVerify"`
}

// SASLSpec configures SASL for direct metadata loading.
type SASLSpec struct {
	Enabled   bool   `json:"enabled"`
	Mechanism string `json:"mechanism"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// Validate evaluates whether the config is valid.
func (c ClusterConfig) Validate() error {
	var err error

	if c.Meta.Name == "" {
		err = multierror.Append(err, errors.New("Name must be set"))
	}
	if c.Spec.BootstrapAddr == "" {
		err = multierror.Append(err, errors.New("BootstrapAddr must be set"))
	}
	if c.Spec.FetchTimeoutSeconds < 0 {
		err = multierror.Append(err, errors.New("FetchTimeoutSeconds cannot be negative"))
	}
	if c.Spec.Direct && c.Spec.CommandConfigPath != "" {
		err = multierror.Append(
			err,
			errors.New("CommandConfigPath only applies to subprocess loading, not direct"),
		)
	}
	if c.Spec.SASL.Enabled {
		if _, mechErr := admin.SASLNameToMechanism(c.Spec.SASL.Mechanism); mechErr != nil {
			err = multierror.Append(err, mechErr)
		}
	}

	return err
}

// FetchTimeout returns the configured describe timeout as a duration,
// falling back to the default when unset.
func (c ClusterConfig) FetchTimeout() time.Duration {
	if c.Spec.FetchTimeoutSeconds == 0 {
		return admin.DefaultDescribeTimeout
	}

	return time.Duration(c.Spec.FetchTimeoutSeconds) * time.Second
}

// NewLoader constructs a topology loader from the cluster config: a
// describe-subprocess runner by default, or a direct metadata loader when
// Direct is set.
func (c ClusterConfig) NewLoader() (admin.Loader, error) {
	if !c.Spec.Direct {
		return admin.NewDescribeRunner(
			admin.DescribeConfig{
				BootstrapAddr:     c.Spec.BootstrapAddr,
				CommandConfigPath: c.resolvePath(c.Spec.CommandConfigPath),
				ToolPath:          c.Spec.KafkaTopicsPath,
				Timeout:           c.FetchTimeout(),
			},
		), nil
	}

	var saslMechanism admin.SASLMechanism
	if c.Spec.SASL.Enabled {
		mechanism, err := admin.SASLNameToMechanism(c.Spec.SASL.Mechanism)
		if err != nil {
			return nil, err
		}
		saslMechanism = mechanism
	}

	return admin.NewMetadataLoader(
		admin.ConnectorConfig{
			BrokerAddr: c.Spec.BootstrapAddr,
			TLS: admin.TLSConfig{
				Enabled:    c.Spec.TLS.Enabled,
				CACertPath: c.resolvePath(c.Spec.TLS.CACertPath),
				CertPath:   c.resolvePath(c.Spec.TLS.CertPath),
				KeyPath:    c.resolvePath(c.Spec.TLS.KeyPath),
				ServerName: c.Spec.TLS.ServerName,
				SkipVerify: c.Spec.TLS.SkipVerify,
			},
			SASL: admin.SASLConfig{
				Enabled:   c.Spec.SASL.Enabled,
				Mechanism: saslMechanism,
				Username:  c.Spec.SASL.Username,
				Password:  c.Spec.SASL.Password,
			},
		},
	)
}

// resolvePath makes a relative path absolute with respect to the
// directory the config file was loaded from.
func (c ClusterConfig) resolvePath(path string) string {
	if path == "" || c.RootDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.RootDir, path)
}

// Summary returns a short human-readable description of the cluster.
func (c ClusterConfig) Summary() string {
	if c.Meta.Environment == "" {
		return fmt.Sprintf("%s (%s)", c.Meta.Name, c.Spec.BootstrapAddr)
	}

	return fmt.Sprintf(
		"%s/%s (%s)",
		c.Meta.Name,
		c.Meta.Environment,
		c.Spec.BootstrapAddr,
	)
}
