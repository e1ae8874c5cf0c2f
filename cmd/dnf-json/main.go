// Command dnf-json reads a single JSON request from stdin, resolves it
// against RPM repository metadata, and writes a single JSON response to
// stdout. It is meant to be invoked as a short-lived subprocess, one
// request per invocation.
package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	dnfjson "github.com/ygalblum/osbuild"
)

func main() {
	os.Exit(run(os.Stdin, os.Stdout))
}

func run(in io.Reader, out io.Writer) int {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	body, err := io.ReadAll(in)
	if err != nil {
		emitError(out, dnfjson.NewError(dnfjson.KindInvalidRequest, "reading request: %s", err))
		return 1
	}

	var req dnfjson.Request
	if err := json.Unmarshal(body, &req); err != nil {
		emitError(out, dnfjson.NewError(dnfjson.KindInvalidRequest, "decoding request: %s", err))
		return 1
	}

	result, err := dnfjson.Solve(&req)
	if err != nil {
		solveErr, ok := dnfjson.AsError(err)
		if !ok {
			solveErr = dnfjson.NewError(dnfjson.KindError, "%s", err)
		}
		log.Errorf("%s: %s", solveErr.Kind, solveErr.Reason)
		emitError(out, solveErr)
		return 1
	}

	if err := json.NewEncoder(out).Encode(result); err != nil {
		log.Errorf("encoding response: %s", err)
		return 1
	}

	return 0
}

func emitError(out io.Writer, err *dnfjson.Error) {
	_ = json.NewEncoder(out).Encode(dnfjson.NewErrorResponse(err))
}
