package cmd

import (
	"io"
	"log"
	"os"

	"github.com/gliderlabs/ssh"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	gossh "golang.org/x/crypto/ssh"

	"github.com/hitanshu-dhawan/gosh/core/config"
	"github.com/hitanshu-dhawan/gosh/core/logger"
	"github.com/hitanshu-dhawan/gosh/core/shell"
	"github.com/hitanshu-dhawan/gosh/core/vos"
)

// serveCmd exposes the shell over SSH on a local port.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the shell over SSH on a local port.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		keyPem, err := configuration.HostKeyPem()
		if err != nil {
			log.Println("Couldn't load host key: did you run init?")
			return err
		}
		signer, err := gossh.ParsePrivateKey(keyPem)
		if err != nil {
			return err
		}

		var events *logger.Recorder
		if configuration.SessionLog {
			fd, err := configuration.OpenSessionLog()
			if err != nil {
				return err
			}
			defer fd.Close()
			events = logger.NewRecorder(fd)
		}

		server := &ssh.Server{
			Addr: configuration.SSH.Addr,
			Handler: func(sess ssh.Session) {
				handleSession(sess, configuration, events)
			},
		}
		server.AddHostKey(signer)

		log.Printf("Listening on %s", configuration.SSH.Addr)
		return server.ListenAndServe()
	},
}

func handleSession(sess ssh.Session, configuration *config.Configuration, events *logger.Recorder) {
	ptyInfo, winch, isPty := sess.Pty()

	env := vos.NewMapEnvFromEnvList(os.Environ())
	for _, kv := range sess.Environ() {
		_ = env.Setenv(splitEnv(kv))
	}
	env.Setenv(shell.EnvUser, sess.User())

	wd, err := os.Getwd()
	if err != nil {
		wd = string(os.PathSeparator)
	}

	virtualOS := vos.NewProcOS(
		afero.NewOsFs(),
		env,
		vos.NewVIOAdapter(io.NopCloser(sess), vos.WriteNopCloser(sess), vos.WriteNopCloser(sess.Stderr())),
		wd,
	)
	applyConfigEnv(virtualOS, configuration)

	virtualOS.SetPTY(vos.PTY{
		Width:  ptyInfo.Window.Width,
		Height: ptyInfo.Window.Height,
		Term:   ptyInfo.Term,
		IsPTY:  isPty,
	})

	// Track window resizes for the line editor.
	go func() {
		for window := range winch {
			pty := virtualOS.GetPTY()
			pty.Width, pty.Height = window.Width, window.Height
			virtualOS.SetPTY(pty)
		}
	}()

	s, err := shell.New(virtualOS)
	if err != nil {
		log.Printf("session setup: %v", err)
		_ = sess.Exit(1)
		return
	}
	defer s.Close()
	s.Events = events

	_ = sess.Exit(s.Run())
}

func splitEnv(kv string) (key, value string) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:]
		}
	}
	return kv, ""
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
