package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/robertkrimen/isatty"
	"github.com/spf13/cobra"
	lambdakernel "github.com/vilterp/lambdakernel/pkg"
	clog "github.com/vilterp/lambdakernel/pkg/log"
	"go.uber.org/zap"
)

var (
	url   string
	local bool
	fuel  int
)

var rootCmd = &cobra.Command{
	Use:   "lambdakernel-shell",
	Short: "Interactive shell for the lambda kernel",
	Long: `Reads terms in named syntax (\x y. x (y x)) and sends them to a
lambdakernel server, or evaluates them in-process with --local.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.Flags().StringVar(&url, "url", "ws://localhost:9000/ws", "URL of server to connect to")
	rootCmd.Flags().BoolVar(&local, "local", false, "evaluate in-process instead of connecting to a server")
	rootCmd.Flags().IntVar(&fuel, "fuel", lambdakernel.ServerFuel, "reduction fuel per request (default: server's)")
}

type localBackend struct {
	service *lambdakernel.Service
}

func (l *localBackend) Do(ctx context.Context, req *lambdakernel.Request) (*lambdakernel.Response, error) {
	return l.service.Handle(ctx, req), nil
}

func runShell(cmd *cobra.Command, args []string) error {
	clog.SetLogger(zap.NewNop())

	var b backend
	target := url
	if local {
		config := lambdakernel.DefaultConfig()
		config.DataFile = ""
		service, err := lambdakernel.NewService(config)
		if err != nil {
			return err
		}
		defer service.Close()
		b = &localBackend{service: service}
		target = "local"
	} else {
		client, err := lambdakernel.NewClient(url)
		if err != nil {
			return fmt.Errorf("couldn't connect: %w", err)
		}
		defer client.Close()
		go waitForServerClose(client)
		b = client
	}

	// check if is TTY
	isInputTty := isatty.Check(os.Stdin.Fd())
	if isInputTty {
		fmt.Println("lambdakernel shell")
		fmt.Println(`\h for help`)
	}

	prompt := ""
	if isInputTty {
		prompt = fmt.Sprintf("%s> ", target)
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       "/tmp/.lambdakernel-history",
		InterruptPrompt:   "^C",
		EOFPrompt:         "bye!",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	state := &shellState{fuel: fuel}
	ctx := context.Background()
	for {
		line, readlineErr := l.Readline()
		if readlineErr != nil {
			fmt.Println("bye!")
			return nil
		}
		if len(strings.Trim(line, "\t ")) == 0 {
			continue
		}
		if err := runCommand(ctx, b, state, line, os.Stdout); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func waitForServerClose(client *lambdakernel.Client) {
	<-client.ServerClosed
	fmt.Println("server closed the connection")
	os.Exit(0)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
