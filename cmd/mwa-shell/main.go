package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/LukaGiorgadze/gonull"
	"github.com/abiosoft/ishell/v2"
	"github.com/edup2p/mwa/types"
	"github.com/edup2p/mwa/types/assoc"
	"github.com/edup2p/mwa/types/dial"
	"github.com/edup2p/mwa/types/key"
	"github.com/edup2p/mwa/wallet"
)

var (
	programLevel = new(slog.LevelVar) // Info by default

	mu sync.Mutex

	suite     = key.P256()
	opts      dial.Opts
	authToken string
)

func main() {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel, AddSource: true})
	slog.SetDefault(slog.New(h))
	programLevel.Set(slog.LevelInfo)

	shell := ishell.New()

	shell.SetHomeHistoryPath(".mwash_history")

	shell.Println("Mobile Wallet Adapter Interactive Shell")

	shell.AddCmd(&ishell.Cmd{
		Name: "trace",
		Help: "set log level to trace",
		Func: func(c *ishell.Context) {
			programLevel.Set(types.LevelTrace)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "debug",
		Help: "set log level to debug",
		Func: func(c *ishell.Context) {
			programLevel.Set(slog.LevelDebug)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "info",
		Help: "set log level to info",
		Func: func(c *ishell.Context) {
			programLevel.Set(slog.LevelInfo)
		},
	})

	shell.AddCmd(suiteCmd())
	shell.AddCmd(portCmd())
	shell.AddCmd(authCmd())
	shell.AddCmd(callCmd())
	shell.AddCmd(capsCmd())

	shell.Run()
}

// transact runs one session with the current settings.
func transact[T any](fn func(ctx context.Context, w *wallet.Wallet) (T, error)) (T, error) {
	mu.Lock()
	cfg := &wallet.Config{Suite: suite, Dial: opts}
	if opts.Port != 0 {
		cfg.Bootstrap = assoc.Static{Port: opts.Port}
	}
	mu.Unlock()

	return wallet.Transact(context.Background(), fn, cfg)
}

func suiteCmd() *ishell.Cmd {
	return &ishell.Cmd{
		Name: "suite",
		Help: "show or set the key suite (p256, curve25519)",
		Func: func(c *ishell.Context) {
			mu.Lock()
			defer mu.Unlock()

			if len(c.Args) == 0 {
				c.Println("suite:", suite.Name())
				return
			}

			s, err := key.SuiteByName(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			suite = s
		},
	}
}

func portCmd() *ishell.Cmd {
	return &ishell.Cmd{
		Name: "port",
		Help: "show or set the port of an already listening wallet, 0 launches one",
		Func: func(c *ishell.Context) {
			mu.Lock()
			defer mu.Unlock()

			if len(c.Args) == 0 {
				c.Println("port:", opts.Port)
				return
			}

			p, err := strconv.ParseUint(c.Args[0], 10, 16)
			if err != nil {
				c.Err(err)
				return
			}
			opts.Port = uint16(p)
		},
	}
}

func authCmd() *ishell.Cmd {
	c := &ishell.Cmd{
		Name: "auth",
		Help: "authorize with the wallet",
		Func: func(c *ishell.Context) {
			name := "mwa-shell"
			if len(c.Args) > 0 {
				name = strings.Join(c.Args, " ")
			}

			res, err := transact(func(ctx context.Context, w *wallet.Wallet) (*wallet.AuthorizationResult, error) {
				return w.Authorize(ctx, wallet.AuthorizeParams{
					Identity: wallet.AppIdentity{Name: gonull.NewNullable(name)},
				})
			})
			if err != nil {
				c.Err(err)
				return
			}

			mu.Lock()
			authToken = res.AuthToken
			mu.Unlock()

			for _, a := range res.Accounts {
				c.Printf("account: %x label=%s\n", a.Address, a.Label.Val)
			}
			c.Println("auth token stored")
		},
	}

	c.AddCmd(&ishell.Cmd{
		Name: "token",
		Help: "show the stored auth token",
		Func: func(c *ishell.Context) {
			mu.Lock()
			defer mu.Unlock()

			c.Println("token:", authToken)
		},
	})

	c.AddCmd(&ishell.Cmd{
		Name: "drop",
		Help: "deauthorize the stored auth token",
		Func: func(c *ishell.Context) {
			mu.Lock()
			tok := authToken
			mu.Unlock()

			if tok == "" {
				c.Err(errors.New("no auth token stored"))
				return
			}

			_, err := transact(func(ctx context.Context, w *wallet.Wallet) (struct{}, error) {
				return struct{}{}, w.Deauthorize(ctx, tok)
			})
			if err != nil {
				c.Err(err)
				return
			}

			mu.Lock()
			authToken = ""
			mu.Unlock()
		},
	})

	return c
}

func callCmd() *ishell.Cmd {
	return &ishell.Cmd{
		Name: "call",
		Help: "call <capability> [json params], e.g. call signMessages {\"payloads\":[]}",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(errors.New("missing capability name"))
				return
			}

			var params any
			if len(c.Args) > 1 {
				raw := json.RawMessage(strings.Join(c.Args[1:], " "))
				if !json.Valid(raw) {
					c.Err(errors.New("params are not valid json"))
					return
				}
				params = raw
			}

			res, err := transact(func(ctx context.Context, w *wallet.Wallet) (json.RawMessage, error) {
				return w.Invoke(ctx, c.Args[0], params)
			})
			if err != nil {
				c.Err(err)
				return
			}

			c.Println(string(res))
		},
	}
}

func capsCmd() *ishell.Cmd {
	return &ishell.Cmd{
		Name: "caps",
		Help: "show the wallet's capabilities",
		Func: func(c *ishell.Context) {
			res, err := transact(func(ctx context.Context, w *wallet.Wallet) (*wallet.Capabilities, error) {
				return w.GetCapabilities(ctx)
			})
			if err != nil {
				c.Err(err)
				return
			}

			c.Println("features:", strings.Join(res.Features, ", "))
			if res.MaxTransactionsPerRequest.Valid {
				c.Println("max transactions per request:", res.MaxTransactionsPerRequest.Val)
			}
			if res.MaxMessagesPerRequest.Valid {
				c.Println("max messages per request:", res.MaxMessagesPerRequest.Val)
			}
		},
	}
}
