// Command sm2tool generates SM2 keys, signs and verifies messages and
// computes SM3 digests on the GB/T 32918 sample curve.
package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sm2.mleku.dev"
)

const envPrefix = "SM2TOOL"

const (
	formatRaw  = "raw"
	formatASN1 = "asn1"
)

// tool carries the per-invocation configuration shared by all commands.
type tool struct {
	v      *viper.Viper
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	t := &tool{v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "sm2tool",
		Short:         "SM2 signatures and SM3 digests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return t.configure(cmd)
		},
	}

	// For environment variables.
	t.v.SetEnvPrefix(envPrefix)
	t.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	t.v.AutomaticEnv()

	flags := root.PersistentFlags()
	flags.String("config", "", "configuration file (yaml, json or toml)")
	flags.String("id", sm2.DefaultIdentity, "signer distinguishing identifier")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("format", formatRaw, "signature encoding: raw (r||s) or asn1 (DER)")
	bindFlags(t.v, flags, "config", "id", "log-level", "format")

	root.AddCommand(
		t.keygenCmd(),
		t.signCmd(),
		t.verifyCmd(),
		t.hashCmd(),
		t.demoCmd(),
	)
	return root
}

// configure reads the optional config file and installs the logger.
func (t *tool) configure(cmd *cobra.Command) error {
	if path := t.v.GetString("config"); path != "" {
		t.v.SetConfigFile(path)
		if err := t.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", path)
		}
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(t.v.GetString("log-level"))); err != nil {
		return errors.Wrap(err, "parsing log level")
	}
	switch t.format() {
	case formatRaw, formatASN1:
	default:
		return errors.Errorf("unknown signature format %q", t.format())
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.NameKey = "name"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(cmd.ErrOrStderr()),
		level,
	)
	t.logger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).Named("sm2tool")
	sm2.SetLogger(t.logger)
	return nil
}

// bindFlags makes each named flag the fallback for the viper key of the same
// name, below environment and config file values.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

func (t *tool) identity() []byte { return []byte(t.v.GetString("id")) }

func (t *tool) format() string { return strings.ToLower(t.v.GetString("format")) }

func main() {
	// On failure print the error and exit with a non-0 status; usage output
	// is silenced.
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
