package completion_helper

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestDefaultFlagComplete(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	cmd := &cli.Command{
		Name:   "check",
		Writer: &buf,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "fix", Aliases: []string{"f"}},
			&cli.StringFlag{Name: "range"},
		},
	}

	// Act
	DefaultFlagComplete(context.Background(), cmd)

	// Assert
	assert.Equal(t, "--fix\n-f\n--range\n", buf.String())
}

func TestWriters(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := &cli.Command{Name: "root", Writer: &out, ErrWriter: &errOut}

	assert.Same(t, &out, Writer(cmd))
	assert.Same(t, &errOut, ErrWriter(cmd))
}

func TestReader(t *testing.T) {
	in := bytes.NewBufferString("feat: x\n")
	root := &cli.Command{Name: "root", Reader: in}
	sub := &cli.Command{Name: "check"}
	root.Commands = []*cli.Command{sub}

	assert.Same(t, in, Reader(root))
}
