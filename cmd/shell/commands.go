package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	lambdakernel "github.com/vilterp/lambdakernel/pkg"
)

type backend interface {
	Do(ctx context.Context, req *lambdakernel.Request) (*lambdakernel.Response, error)
}

type shellState struct {
	fuel  int
	trace bool
}

const helpText = `<term>		weak head normal form of term
whnf <term>	same
nf <term>	full normal form
eq <a> = <b>	check beta-equivalence, storing a proof
alpha <a> = <b>	check alpha-equivalence
check <term>	compare two independent reduction paths
proof <id>	show a stored proof
fuel [n]	show or set fuel ("default" for the server's)
trace		toggle printing full proofs
\h		help`

func runCommand(ctx context.Context, b backend, state *shellState, line string, out io.Writer) error {
	line = strings.TrimSpace(line)
	cmd, rest := line, ""
	if idx := strings.IndexAny(line, " \t"); idx >= 0 {
		cmd, rest = line[:idx], strings.TrimSpace(line[idx+1:])
	}

	switch cmd {
	case `\h`:
		fmt.Fprintln(out, helpText)
		return nil
	case "fuel":
		return setFuel(state, rest, out)
	case "trace":
		state.trace = !state.trace
		fmt.Fprintln(out, "trace:", state.trace)
		return nil
	case "whnf", "nf":
		return normalize(ctx, b, state, rest, cmd == "nf", out)
	case "eq", "alpha":
		a, bSrc, ok := strings.Cut(rest, "=")
		if !ok {
			return errors.Errorf("usage: %s <a> = <b>", cmd)
		}
		op := lambdakernel.OpVerify
		if cmd == "alpha" {
			op = lambdakernel.OpAlpha
		}
		resp, err := do(ctx, b, &lambdakernel.Request{
			Op:   op,
			A:    lambdakernel.Src(strings.TrimSpace(a)),
			B:    lambdakernel.Src(strings.TrimSpace(bSrc)),
			Fuel: state.fuelRequest(),
		})
		if err != nil {
			return err
		}
		if resp.Alpha != nil {
			fmt.Fprintln(out, resp.Alpha.Equivalent)
			return nil
		}
		printProof(state, resp.Verify, out)
		return nil
	case "check":
		resp, err := do(ctx, b, &lambdakernel.Request{
			Op:   lambdakernel.OpCheck,
			Term: lambdakernel.Src(rest),
			Fuel: state.fuelRequest(),
		})
		if err != nil {
			return err
		}
		check := resp.Check
		switch check.Status {
		case lambdakernel.StatusConsistent:
			fmt.Fprintf(out, "consistent: %s (%d steps)\n", check.WHNF, check.Steps)
		case lambdakernel.StatusInconsistent:
			fmt.Fprintf(out, "INCONSISTENT: at %s: %s ≠ %s\nproof %s\n",
				check.Witness.Path, check.Witness.Left, check.Witness.Right, check.ProofID)
		default:
			fmt.Fprintf(out, "unknown: out of fuel after %d steps\n", check.Steps)
		}
		return nil
	case "proof":
		resp, err := do(ctx, b, &lambdakernel.Request{Op: lambdakernel.OpGetProof, ProofID: rest})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, resp.Proof.Text)
		return nil
	}
	return normalize(ctx, b, state, line, false, out)
}

func (s *shellState) fuelRequest() *int {
	if s.fuel == lambdakernel.ServerFuel {
		return nil
	}
	fuel := s.fuel
	return &fuel
}

func setFuel(state *shellState, arg string, out io.Writer) error {
	switch arg {
	case "":
	case "default":
		state.fuel = lambdakernel.ServerFuel
	default:
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return errors.Errorf("fuel must be a non-negative integer; got %q", arg)
		}
		state.fuel = n
	}
	if state.fuel == lambdakernel.ServerFuel {
		fmt.Fprintln(out, "fuel: default")
	} else {
		fmt.Fprintln(out, "fuel:", state.fuel)
	}
	return nil
}

func normalize(ctx context.Context, b backend, state *shellState, src string, full bool, out io.Writer) error {
	resp, err := do(ctx, b, &lambdakernel.Request{
		Op:   lambdakernel.OpNormalize,
		Term: lambdakernel.Src(src),
		Fuel: state.fuelRequest(),
		Full: full,
	})
	if err != nil {
		return err
	}
	res := resp.Normalize
	if res.OutOfFuel {
		fmt.Fprintf(out, "out of fuel after %d steps: %s\n", res.Steps, res.Term)
		return nil
	}
	fmt.Fprintf(out, "%s (%d steps)\n", res.Term, res.Steps)
	return nil
}

func printProof(state *shellState, proof *lambdakernel.ProofResult, out io.Writer) {
	verdict := strings.ReplaceAll(proof.Verdict, "_", " ")
	if proof.Witness != nil {
		fmt.Fprintf(out, "%s: at %s: %s ≠ %s\n", verdict, proof.Witness.Path, proof.Witness.Left, proof.Witness.Right)
	} else {
		fmt.Fprintf(out, "%s (%d steps)\n", verdict, proof.Steps)
	}
	if proof.Replayed {
		fmt.Fprintln(out, "replayed from store")
	}
	fmt.Fprintln(out, "proof", proof.ProofID)
	if state.trace {
		fmt.Fprintln(out, proof.Text)
	}
}

func do(ctx context.Context, b backend, req *lambdakernel.Request) (*lambdakernel.Response, error) {
	resp, err := b.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}
	return resp, nil
}
