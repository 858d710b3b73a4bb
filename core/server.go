package core

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/juju/ratelimit"
	"github.com/mishell-project/mishell/core/config"
	"github.com/mishell-project/mishell/core/logger"
)

// Server exposes interactive shell sessions over SSH.
type Server struct {
	config     *config.Configuration
	logger     *logger.Logger
	sshServer  *ssh.Server
	authBucket *ratelimit.Bucket
}

func NewServer(configuration *config.Configuration, logDest io.Writer) (*Server, error) {
	keyPem, err := configuration.PrivateKeyPem()
	if err != nil {
		return nil, fmt.Errorf("couldn't read host key, did you run init? %w", err)
	}

	server := &Server{
		config: configuration,
		logger: logger.NewJSONLinesRecorder(logDest),
		// Failed password guesses drain this bucket; it refills slowly
		// enough to make online guessing impractical.
		authBucket: ratelimit.NewBucket(time.Second, 10),
	}

	server.sshServer = &ssh.Server{
		Addr: fmt.Sprintf(":%d", configuration.SSHPort),
		Handler: func(s ssh.Session) {
			server.HandleSession(s)
		},
		PasswordHandler: server.handlePassword,
	}
	if configuration.SSHBanner != "" {
		server.sshServer.Version = configuration.SSHBanner
	}
	server.sshServer.SetOption(ssh.HostKeyPEM(keyPem))

	return server, nil
}

func (s *Server) handlePassword(ctx ssh.Context, password string) bool {
	remoteAddr := ctx.RemoteAddr().String()

	if s.authBucket.TakeAvailable(1) == 0 {
		s.logger.Sessionless().Record(&logger.LoginAttempt{
			Username:   ctx.User(),
			RemoteAddr: remoteAddr,
			Throttled:  true,
		})
		return false
	}

	user, ok := s.config.LookupUser(ctx.User())
	granted := ok && subtle.ConstantTimeCompare([]byte(password), []byte(user.Password)) == 1

	s.logger.Sessionless().Record(&logger.LoginAttempt{
		Username:   ctx.User(),
		RemoteAddr: remoteAddr,
		Success:    granted,
	})
	return granted
}

func (s *Server) HandleSession(sess ssh.Session) {
	sessionLog := s.logger.NewSession()

	pty, winch, isPty := sess.Pty()
	windowWidth := pty.Window.Width
	go func() {
		for window := range winch {
			windowWidth = window.Width
		}
	}()

	sessionLog.Record(&logger.SessionStart{
		Username:   sess.User(),
		RemoteAddr: sess.RemoteAddr().String(),
		PTY:        isPty,
	})
	defer sessionLog.Record(&logger.SessionEnd{})

	sio := SessionIO{
		Stdin:  sess,
		Stdout: sess,
		Stderr: sess.Stderr(),
		IsPTY:  isPty,
		Width: func() int {
			return windowWidth
		},
	}

	transcriptName := fmt.Sprintf("%s.transcript", time.Now().Format(time.RFC3339))
	transcript, err := s.config.CreateSessionLog(transcriptName)
	if err != nil {
		log.Printf("couldn't create session transcript: %v", err)
	} else {
		defer transcript.Close()
		sio = RecordSession(sio, transcript)
	}

	user, _ := s.config.LookupUser(sess.User())
	home := user.Home
	if home == "" {
		home = "/"
	}

	shell, err := NewShell(sio, s.config, sessionLog, ShellOptions{
		Username: sess.User(),
		Dir:      home,
		Env: []string{
			EnvPath + "=" + s.config.SearchPath,
			EnvHome + "=" + home,
			EnvUser + "=" + sess.User(),
		},
	})
	if err != nil {
		fmt.Fprintf(sess.Stderr(), "couldn't start shell: %v\n", err)
		sess.Exit(1)
		return
	}
	defer shell.Close()

	if err := shell.Run(); err != nil {
		log.Printf("session ended with error: %v", err)
	}
	sess.Exit(0)
}

func (s *Server) ListenAndServe() error {
	return s.sshServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.sshServer.Shutdown(ctx)
}
