package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zostay/docmail/convert"
)

var errNotIdempotent = errors.New("conversions differ")

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify document.docx",
		Short: "Converts a document twice and compares the results",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runVerify,
	}
}

func (a *app) runVerify(cmd *cobra.Command, args []string) error {
	c, err := a.converter()
	if err != nil {
		return err
	}

	var snaps [2]*convert.Snapshot
	for i := range snaps {
		msg, _, err := c.Build(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		snaps[i], err = convert.ReadSnapshot(msg)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	same := true

	if snaps[0].HTML != snaps[1].HTML {
		same = false
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(snaps[0].HTML, snaps[1].HTML, false)
		fmt.Fprintln(out, dmp.DiffPrettyText(dmp.DiffCleanupSemantic(diffs)))
	}

	for _, cid := range snaps[0].ContentIDs {
		if !bytes.Equal(snaps[0].Images[cid], snaps[1].Images[cid]) {
			same = false
			fmt.Fprintf(out, "image %s differs\n", cid)
		}
	}
	if len(snaps[0].ContentIDs) != len(snaps[1].ContentIDs) {
		same = false
		fmt.Fprintf(out, "image count differs: %d != %d\n",
			len(snaps[0].ContentIDs), len(snaps[1].ContentIDs))
	}

	if !same {
		return errNotIdempotent
	}

	fmt.Fprintf(out, "%s: ok, %d images\n", args[0], len(snaps[0].ContentIDs))
	return nil
}
