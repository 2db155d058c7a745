package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zostay/docmail/message"
	"github.com/zostay/docmail/message/walk"
)

var errNoSuchPart = errors.New("no part with that Content-id")

type inspectOptions struct {
	headers bool
	cid     string
}

func newInspectCmd(a *app) *cobra.Command {
	opts := &inspectOptions{}
	inspectCmd := &cobra.Command{
		Use:   "inspect message.eml",
		Short: "Lists the parts of a message",
		Long: `Lists the parts of a message, one per line, indented by depth.
With --headers only the top-level header is printed. With --cid the decoded
content of the part with that Content-id is written instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInspect(cmd, args[0], opts)
		},
	}

	fs := inspectCmd.Flags()
	fs.BoolVar(&opts.headers, "headers", false, "print only the top-level header")
	fs.StringVar(&opts.cid, "cid", "", "write the decoded content of the part with this Content-id")
	inspectCmd.MarkFlagsMutuallyExclusive("headers", "cid")

	return inspectCmd
}

func (a *app) runInspect(cmd *cobra.Command, path string, opts *inspectOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	var popts []message.ParseOption
	switch {
	case opts.headers:
		popts = append(popts, message.WithoutMultipart())
	case opts.cid != "":
		popts = append(popts, message.DecodeTransferEncoding())
	}

	m, err := message.Parse(f, popts...)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.headers:
		_, err := m.GetHeader().WriteTo(out)
		return err
	case opts.cid != "":
		part := walk.FindContentID(m, opts.cid)
		if part == nil {
			return fmt.Errorf("%w: %s", errNoSuchPart, opts.cid)
		}
		_, err := io.Copy(out, part.GetReader())
		return err
	}

	return walk.AndProcess(
		func(part message.Part, parents []message.Part) error {
			h := part.GetHeader()
			mt, _ := h.GetMediaType()

			line := strings.Repeat("  ", len(parents)) + mt
			if cid, err := h.GetContentID(); err == nil {
				line += " " + cid
			}
			if fn, err := h.GetFilename(); err == nil {
				line += " " + fn
			}

			fmt.Fprintln(out, line)
			return nil
		}, m)
}
