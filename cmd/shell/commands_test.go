package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	lambdakernel "github.com/vilterp/lambdakernel/pkg"
	clog "github.com/vilterp/lambdakernel/pkg/log"
	"go.uber.org/zap"
)

func TestRunCommand(t *testing.T) {
	clog.SetLogger(zap.NewNop())
	config := lambdakernel.DefaultConfig()
	config.DataFile = ""
	service, err := lambdakernel.NewService(config)
	require.NoError(t, err)
	defer service.Close()

	b := &localBackend{service: service}
	state := &shellState{fuel: lambdakernel.ServerFuel}

	cases := []struct {
		line   string
		output string
		error  string
	}{
		{line: `(\x y. x) a b`, output: "a (2 steps)\n"},
		{line: `whnf \x. (\y. y) x`, output: "\\x0. (\\x1. x1) x0 (0 steps)\n"},
		{line: `nf \x. (\y. y) x`, output: "\\x0. x0 (1 steps)\n"},
		{line: `alpha \x. x = \y. y`, output: "true\n"},
		{line: `eq \x y. x = \x y. y`, output: "not equivalent: at bb: #1 ≠ #0\n"},
		{line: `eq (\x. x) f = f`, output: "equivalent (1 steps)\n"},
		{line: `check (\x. x) f`, output: "consistent: f (1 steps)\n"},
		{line: `fuel 3`, output: "fuel: 3\n"},
		{line: `(\x. x x) (\x. x x)`, output: "out of fuel after 3 steps: (\\x0. x0 x0) (\\x0. x0 x0)\n"},
		{line: `check (\x. x x) (\x. x x)`, output: "unknown: out of fuel after 3 steps\n"},
		{line: `fuel default`, output: "fuel: default\n"},
		{line: `fuel -2`, error: `fuel must be a non-negative integer; got "-2"`},
		{line: `eq f`, error: "usage: eq <a> = <b>"},
		{line: `proof abc`, error: "validation error: proof id: invalid UUID length: 3"},
	}

	for idx, testCase := range cases {
		out := &bytes.Buffer{}
		err := runCommand(context.Background(), b, state, testCase.line, out)
		if testCase.error != "" {
			require.EqualError(t, err, testCase.error, "case %d", idx)
			continue
		}
		require.NoError(t, err, "case %d", idx)
		if !strings.HasPrefix(out.String(), testCase.output) {
			t.Fatalf("case %d: expected %q; got %q", idx, testCase.output, out.String())
		}
	}
}
