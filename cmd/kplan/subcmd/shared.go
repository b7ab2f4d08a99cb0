package subcmd

import (
	"errors"
	"os"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kafka-ops/kplan/pkg/admin"
	"github.com/kafka-ops/kplan/pkg/config"
)

type sharedOptions struct {
	bootstrapAddr   string
	clusterConfig   string
	commandConfig   string
	direct          bool
	expandEnv       bool
	fetchTimeout    int
	kafkaTopicsPath string
	saslMechanism   string
	saslPassword    string
	saslUsername    string
	tlsCACert       string
	tlsCert         string
	tlsEnabled      bool
	tlsKey          string
	tlsServerName   string
	tlsSkipVerify   bool
}

func (s sharedOptions) validate() error {
	var err error

	if s.clusterConfig == "" && s.bootstrapAddr == "" {
		err = multierror.Append(
			err,
			errors.New("Must set either bootstrap-server or cluster-config"),
		)
	}

	if s.clusterConfig != "" {
		clusterConfig, loadErr := config.LoadClusterFile(s.clusterConfig, s.expandEnv)
		if loadErr != nil {
			err = multierror.Append(err, loadErr)
		} else if validateErr := clusterConfig.Validate(); validateErr != nil {
			err = multierror.Append(err, validateErr)
		}

		if s.bootstrapAddr != "" || s.commandConfig != "" || s.kafkaTopicsPath != "" ||
			s.tlsCACert != "" || s.tlsCert != "" || s.tlsKey != "" ||
			s.saslMechanism != "" {
			log.Warn("Connection flags are ignored when using cluster-config")
		}

		return err
	}

	if s.direct && s.commandConfig != "" {
		err = multierror.Append(
			err,
			errors.New("Cannot set command-config when using direct metadata loading"),
		)
	}
	if s.fetchTimeout < 0 {
		err = multierror.Append(err, errors.New("fetch-timeout cannot be negative"))
	}

	useSASL := s.saslMechanism != "" || s.saslUsername != "" || s.saslPassword != ""
	if useSASL {
		if !s.direct {
			log.Warn("SASL flags only apply to direct metadata loading; use command-config for the kafka-topics subprocess")
		}
		if _, saslErr := admin.SASLNameToMechanism(s.saslMechanism); saslErr != nil {
			err = multierror.Append(err, saslErr)
		}
	}

	return err
}

// getClusterConfig returns the loaded cluster config file, or one
// synthesized from the connection flags.
func (s sharedOptions) getClusterConfig() (config.ClusterConfig, error) {
	if s.clusterConfig != "" {
		return config.LoadClusterFile(s.clusterConfig, s.expandEnv)
	}

	useTLS := s.tlsEnabled || s.tlsCACert != "" || s.tlsCert != "" || s.tlsKey != ""
	useSASL := s.saslMechanism != "" || s.saslUsername != "" || s.saslPassword != ""

	return config.ClusterConfig{
		Meta: config.ClusterMeta{
			Name: "flag-configured",
		},
		Spec: config.ClusterSpec{
			BootstrapAddr:       s.bootstrapAddr,
			CommandConfigPath:   s.commandConfig,
			KafkaTopicsPath:     s.kafkaTopicsPath,
			FetchTimeoutSeconds: s.fetchTimeout,
			Direct:              s.direct,
			TLS: config.TLSSpec{
				Enabled:    useTLS,
				CACertPath: s.tlsCACert,
				CertPath:   s.tlsCert,
				KeyPath:    s.tlsKey,
				ServerName: s.tlsServerName,
				SkipVerify: s.tlsSkipVerify,
			},
			SASL: config.SASLSpec{
				Enabled:   useSASL,
				Mechanism: s.saslMechanism,
				Username:  s.saslUsername,
				Password:  s.saslPassword,
			},
		},
	}, nil
}

func (s sharedOptions) getLoader() (admin.Loader, config.ClusterConfig, error) {
	clusterConfig, err := s.getClusterConfig()
	if err != nil {
		return nil, config.ClusterConfig{}, err
	}

	loader, err := clusterConfig.NewLoader()
	if err != nil {
		return nil, config.ClusterConfig{}, err
	}

	return loader, clusterConfig, nil
}

func addSharedFlags(cmd *cobra.Command, options *sharedOptions) {
	cmd.Flags().StringVarP(
		&options.bootstrapAddr,
		"bootstrap-server",
		"b",
		os.Getenv("KPLAN_BOOTSTRAP_SERVER"),
		"Bootstrap broker address (host:port)",
	)
	cmd.Flags().StringVar(
		&options.clusterConfig,
		"cluster-config",
		os.Getenv("KPLAN_CLUSTER_CONFIG"),
		"Cluster config file",
	)
	cmd.Flags().StringVar(
		&options.commandConfig,
		"command-config",
		"",
		"Client properties file passed through to the Kafka CLI tools",
	)
	cmd.Flags().BoolVar(
		&options.direct,
		"direct",
		false,
		"Load topic data via the Kafka metadata API instead of the kafka-topics tool",
	)
	cmd.Flags().BoolVar(
		&options.expandEnv,
		"expand-env",
		false,
		"Expand environment in cluster config",
	)
	cmd.Flags().IntVar(
		&options.fetchTimeout,
		"fetch-timeout",
		0,
		"Timeout in seconds for a single topic data fetch (0 for default)",
	)
	cmd.Flags().StringVar(
		&options.kafkaTopicsPath,
		"kafka-topics-path",
		"",
		"Path to the kafka-topics executable",
	)
	cmd.Flags().StringVar(
		&options.saslMechanism,
		"sasl-mechanism",
		"",
		"SASL mechanism if using SASL (choices: PLAIN, SCRAM-SHA-256, or SCRAM-SHA-512)",
	)
	cmd.Flags().StringVar(
		&options.saslPassword,
		"sasl-password",
		os.Getenv("KPLAN_SASL_PASSWORD"),
		"SASL password if using SASL",
	)
	cmd.Flags().StringVar(
		&options.saslUsername,
		"sasl-username",
		os.Getenv("KPLAN_SASL_USERNAME"),
		"SASL username if using SASL",
	)
	cmd.Flags().StringVar(
		&options.tlsCACert,
		"tls-ca-cert",
		"",
		"Path to client CA cert PEM file if using TLS",
	)
	cmd.Flags().StringVar(
		&options.tlsCert,
		"tls-cert",
		"",
		"Path to client cert PEM file if using TLS",
	)
	cmd.Flags().BoolVar(
		&options.tlsEnabled,
		"tls-enabled",
		false,
		"Use TLS for direct metadata loading",
	)
	cmd.Flags().StringVar(
		&options.tlsKey,
		"tls-key",
		"",
		"Path to client private key PEM file if using TLS",
	)
	cmd.Flags().StringVar(
		&options.tlsServerName,
		"tls-server-name",
		"",
		"Server name to use for TLS cert verification",
	)
	cmd.Flags().BoolVar(
		&options.tlsSkipVerify,
		"tls-skip-verify",
		false,
		"Skip hostname verification when using TLS",
	)
}
