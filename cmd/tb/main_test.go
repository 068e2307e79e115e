package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubRun(t *testing.T, execErr error, code int) (args *[]string, mapped *error) {
	t.Helper()
	prevExec, prevMap := executeCmd, mapExitCode
	t.Cleanup(func() { executeCmd, mapExitCode = prevExec, prevMap })

	args, mapped = new([]string), new(error)
	executeCmd = func(_ context.Context, a []string) error {
		*args = append([]string(nil), a...)
		return execErr
	}
	mapExitCode = func(err error) int {
		*mapped = err
		return code
	}
	return args, mapped
}

func TestRun(t *testing.T) {
	t.Run("success skips exit mapping", func(t *testing.T) {
		args, mapped := stubRun(t, nil, 99)
		assert.Zero(t, run([]string{"devices", "list", "-o", "json"}))
		assert.Equal(t, []string{"devices", "list", "-o", "json"}, *args)
		assert.NoError(t, *mapped)
	})

	t.Run("failure returns mapped code", func(t *testing.T) {
		boom := errors.New("boom")
		_, mapped := stubRun(t, boom, 4)
		assert.Equal(t, 4, run(nil))
		assert.ErrorIs(t, *mapped, boom)
	})
}
