package cli

import (
	"fmt"
	"os"

	"github.com/wokdav/gorsa/engine"
	"github.com/wokdav/gorsa/engine/config"
	"github.com/wokdav/gorsa/engine/keystore"
	"github.com/wokdav/gorsa/engine/keystore/filesystem"
	"github.com/wokdav/gorsa/engine/rsa"
	"github.com/wokdav/gorsa/logging"

	_ "github.com/wokdav/gorsa/engine/config/v1"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gorsa",
	Short: "Textbook RSA from first principles",
	Long: `gorsa generates and uses textbook RSA keys built on its own
fixed-capacity integer arithmetic.

Keys live in a directory as <name>.pub and <name>.priv, one line each.
No padding is applied: messages are hex encoded integers below the modulus.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		settings = s
		if debugSizes {
			settings.DebugSizes = true
		}

		level := settings.LogLevel
		if debug {
			level = logging.LevelDebug
		} else if verbose {
			level = max(level, logging.LevelInfo)
		}
		logging.Initialize(level, nil, nil)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var verbose bool
var debug bool
var configFile string
var debugSizes bool

var settings *config.Settings

func loadSettings() (*config.Settings, error) {
	if configFile == "" {
		return config.Default(), nil
	}

	f, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := config.ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configFile, err)
	}
	return s, nil
}

func openDatabase(dir string) (keystore.Database, error) {
	var opts []rsa.Option
	if settings.DebugSizes {
		opts = append(opts, rsa.WithDebugSizes())
	}

	db := filesystem.NewFilesystemDatabase(filesystem.NewNativeFs(dir), opts...)
	if err := db.Open(); err != nil {
		return nil, fmt.Errorf("can't open as filesystem database: %w", err)
	}
	return db, nil
}

func operationCommand(op engine.Operation, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(op) + " <dir> <name> <hex>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			out, err := engine.Apply(db, args[1], op, args[2])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "a LOT more verbose output (overrides -v)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "settings file (see 'doc example')")
	rootCmd.PersistentFlags().BoolVar(&debugSizes, "debug-sizes", false, "accept the 64 bit debug key size")

	var bits int
	var rounds int
	var name string
	cmdKeygen := cobra.Command{
		Use:   "keygen <dir>",
		Short: "Generate a key pair",
		Long:  "Generates a key pair and stores both halves in the given directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("bits") {
				settings.BitLength = bits
			}
			if cmd.Flags().Changed("rounds") {
				settings.Rounds = rounds
			}

			db, err := openDatabase(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			entry, err := engine.GenerateKey(db, name, settings, nil)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), engine.Describe(entry))
			return nil
		},
	}
	cmdKeygen.Flags().IntVarP(&bits, "bits", "b", 2048, "modulus bit length")
	cmdKeygen.Flags().IntVarP(&rounds, "rounds", "r", 10, "Miller-Rabin rounds per prime candidate")
	cmdKeygen.Flags().StringVarP(&name, "name", "n", "", "key name (default from settings)")

	var asPem bool
	cmdInspect := cobra.Command{
		Use:   "inspect <dir> <name>",
		Short: "Show a stored key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			if asPem {
				out, err := engine.PublicKeyPEM(db, args[1])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), string(out))
				return nil
			}

			entry := db.Get(args[1])
			if entry == nil {
				return fmt.Errorf("%w: '%s'", engine.ErrKeyNotFound, args[1])
			}
			fmt.Fprint(cmd.OutOrStdout(), engine.Describe(entry))
			return nil
		},
	}
	cmdInspect.Flags().BoolVarP(&asPem, "pem", "p", false, "print the public key as PKCS #1 PEM")

	cmdList := cobra.Command{
		Use:   "list <dir>",
		Short: "List stored keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			for _, n := range db.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	cmdDoc := cobra.Command{
		Use:   "doc",
		Short: "Show Documentation",
		Long:  "Get help on various topics.",
	}

	cmdDoc.AddCommand(&cobra.Command{
		Use:   "example",
		Short: "Show an example settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.GetConfigurator(config.LatestVersion())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.SettingsExample())
			return nil
		},
	})

	cmdDoc.AddCommand(&cobra.Command{
		Use:   "sizes",
		Short: "Show the supported key sizes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, bits := range rsa.SupportedBitLengths(settings.DebugSizes) {
				status := "ok"
				if err := rsa.CheckBitLength(bits, settings.DebugSizes); err != nil {
					status = err.Error()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%5d  %s\n", bits, status)
			}
		},
	})

	rootCmd.AddCommand(&cmdKeygen)
	rootCmd.AddCommand(operationCommand(engine.OpEncrypt, "Encrypt a message with the public exponent"))
	rootCmd.AddCommand(operationCommand(engine.OpDecrypt, "Decrypt a message with the private exponent"))
	rootCmd.AddCommand(operationCommand(engine.OpSign, "Sign a message with the private exponent"))
	rootCmd.AddCommand(operationCommand(engine.OpVerify, "Recover a signed message with the public exponent"))
	rootCmd.AddCommand(&cmdInspect)
	rootCmd.AddCommand(&cmdList)
	rootCmd.AddCommand(&cmdDoc)
}
