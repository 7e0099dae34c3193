package cmd

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/abiosoft/readline"
	"github.com/spf13/cobra"

	"github.com/hitanshu-dhawan/gosh/core/config"
	"github.com/hitanshu-dhawan/gosh/core/logger"
	"github.com/hitanshu-dhawan/gosh/core/shell"
	"github.com/hitanshu-dhawan/gosh/core/vos"
)

var (
	cfgPath     string
	commandFlag string
)

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gosh"
	}
	return filepath.Join(home, ".gosh")
}

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		// Run with built-in defaults until the user runs `gosh init`.
		return config.Default(cfgPath), nil
	}

	return configuration, err
}

// applyConfigEnv fills environment gaps from the configuration.
func applyConfigEnv(v vos.VOS, cfg *config.Configuration) {
	if _, ok := v.LookupEnv(shell.EnvPath); !ok {
		v.Setenv(shell.EnvPath, cfg.DefaultPath)
	}
	if _, ok := v.LookupEnv(shell.EnvPrompt); !ok && cfg.Prompt != "" {
		v.Setenv(shell.EnvPrompt, cfg.Prompt)
	}
	if _, ok := v.LookupEnv(shell.EnvHistFile); !ok && cfg.HistoryFile != "" {
		if home := v.Getenv(shell.EnvHome); home != "" {
			v.Setenv(shell.EnvHistFile, filepath.Join(home, cfg.HistoryFile))
		}
	}
	if _, ok := v.LookupEnv(shell.EnvHostname); !ok {
		if host, err := os.Hostname(); err == nil {
			v.Setenv(shell.EnvHostname, host)
		}
	}
}

// rootCmd runs the interactive shell when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "gosh",
	Short: "An interactive command shell",
	Long: `gosh reads a line, resolves it to a builtin or an executable on the
PATH, and runs it with any requested redirections.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		virtualOS := vos.NewHostOS()
		applyConfigEnv(virtualOS, configuration)
		virtualOS.SetPTY(vos.PTY{
			Width: readline.GetScreenWidth(),
			Term:  virtualOS.Getenv("TERM"),
			IsPTY: readline.DefaultIsTerminal(),
		})

		s, err := shell.New(virtualOS)
		if err != nil {
			return err
		}

		var logFd io.Closer
		if configuration.SessionLog {
			fd, err := configuration.OpenSessionLog()
			if err != nil {
				return err
			}
			logFd = fd
			s.Events = logger.NewRecorder(fd)
		}

		var status int
		if commandFlag != "" {
			s.RunCommand(commandFlag)
			status = s.LastStatus()
		} else {
			status = s.Run()
		}

		s.Close()
		if logFd != nil {
			logFd.Close()
		}
		os.Exit(status)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigDir(), "configuration directory")
	rootCmd.Flags().StringVarP(&commandFlag, "command", "c", "", "run a single command and exit")
}
