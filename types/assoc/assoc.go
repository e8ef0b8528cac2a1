// Package assoc starts a wallet out of band and tells it where to reach this client.
package assoc

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/url"
	"os/exec"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/edup2p/mwa/types/key"
)

const (
	Scheme    = "solana-wallet"
	LocalPath = "v1/associate/local"

	MinPort = 49152
	MaxPort = 65535
)

var (
	ErrForbiddenBaseURL = errors.New("wallet base url must use https")
	ErrWalletNotFound   = errors.New("no wallet accepted the association")
)

// Bootstrapper makes a wallet listen for this association, and returns the port it will listen on.
type Bootstrapper interface {
	Start(ctx context.Context, pub key.AssociationPublic, baseURL string) (uint16, error)
}

type BootstrapFunc func(ctx context.Context, pub key.AssociationPublic, baseURL string) (uint16, error)

func (f BootstrapFunc) Start(ctx context.Context, pub key.AssociationPublic, baseURL string) (uint16, error) {
	return f(ctx, pub, baseURL)
}

// Static always returns Port, for wallets that are already listening.
type Static struct {
	Port uint16
}

func (s Static) Start(context.Context, key.AssociationPublic, string) (uint16, error) {
	return s.Port, nil
}

// Launcher hands an association URL to whatever can open it.
type Launcher interface {
	Launch(ctx context.Context, u *url.URL) error
}

type LauncherFunc func(ctx context.Context, u *url.URL) error

func (f LauncherFunc) Launch(ctx context.Context, u *url.URL) error {
	return f(ctx, u)
}

// ExecLauncher opens the URL with the platform's url opener, or Command if set.
type ExecLauncher struct {
	Command []string
}

func (e ExecLauncher) command() []string {
	if len(e.Command) > 0 {
		return e.Command
	}

	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

func (e ExecLauncher) Launch(ctx context.Context, u *url.URL) error {
	argv := append(slices.Clone(e.command()), u.String())

	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", argv[0], err, strings.TrimSpace(string(out)))
	}

	return nil
}

// LocalBootstrap picks a random port and launches the association URL for it.
type LocalBootstrap struct {
	// If nil, uses ExecLauncher
	Launcher Launcher

	// If nil, uses RandomPort
	Port func() (uint16, error)

	// If nil, uses slog.Default()
	Logger *slog.Logger
}

func (l *LocalBootstrap) Start(ctx context.Context, pub key.AssociationPublic, baseURL string) (uint16, error) {
	pf := l.Port
	if pf == nil {
		pf = RandomPort
	}

	port, err := pf()
	if err != nil {
		return 0, fmt.Errorf("could not pick port: %w", err)
	}

	u, err := AssociationURL(pub, port, baseURL)
	if err != nil {
		return 0, err
	}

	var launcher Launcher = ExecLauncher{}
	if l.Launcher != nil {
		launcher = l.Launcher
	}

	log := l.Logger
	if log == nil {
		log = slog.Default()
	}

	log.Debug("launching association", "url", u.String(), "port", port)

	if err := launcher.Launch(ctx, u); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWalletNotFound, err)
	}

	return port, nil
}

// RandomPort returns a port in the dynamic range.
func RandomPort() (uint16, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(MaxPort-MinPort+1))
	if err != nil {
		return 0, err
	}

	return uint16(MinPort + n.Int64()), nil
}

// AssociationURL builds the local association URL, under baseURL if it is set.
func AssociationURL(pub key.AssociationPublic, port uint16, baseURL string) (*url.URL, error) {
	var u *url.URL

	if baseURL != "" {
		b, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrForbiddenBaseURL, err)
		}
		if b.Scheme != "https" {
			return nil, fmt.Errorf("%w: got %q", ErrForbiddenBaseURL, baseURL)
		}

		u = b.JoinPath(LocalPath)
	} else {
		u = &url.URL{Scheme: Scheme, Opaque: "/" + LocalPath}
	}

	q := url.Values{}
	q.Set("association", pub.Token())
	q.Set("port", strconv.Itoa(int(port)))
	u.RawQuery = q.Encode()

	return u, nil
}
