package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecute(t *testing.T) {
	t.Setenv("COUCHSTORM_CONFIG", "")
	t.Chdir(t.TempDir())

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"couchstorm", "version"}
	assert.NoError(t, Execute())

	os.Args = []string{"couchstorm", "no-such-command"}
	assert.Error(t, Execute())
}
