package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zostay/docmail/archive"
	"github.com/zostay/docmail/convert"
)

var errOutputWithMany = errors.New("--output needs exactly one document")

func newConvertCmd(a *app) *cobra.Command {
	convertCmd := &cobra.Command{
		Use:   "convert document.docx...",
		Short: "Converts documents into .eml messages",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runConvert,
	}

	fs := convertCmd.Flags()
	fs.String("subject", convert.DefaultSubject, "Subject header")
	fs.String("from", convert.DefaultFrom, "From header")
	fs.String("to", convert.DefaultTo, "To header")
	fs.String("date", "", "fixed Date header (default now)")
	fs.StringP("output", "o", "", "message file (default the document with .eml)")
	fs.Duration("timeout", convert.DefaultTimeout, "timeout of each remote image request")
	fs.Int("retries", convert.DefaultRetries, "retries of a failed remote image request")
	fs.Bool("archive", false, "append each message to the configured IMAP mailbox")

	for _, k := range []string{"subject", "from", "to", "date", "output"} {
		a.bind(fs, k, k)
	}
	a.bind(fs, "fetch.timeout", "timeout")
	a.bind(fs, "fetch.retries", "retries")
	a.bind(fs, "archive.enabled", "archive")

	return convertCmd
}

// converter builds a Converter from the loaded configuration.
func (a *app) converter() (*convert.Converter, error) {
	date, err := a.cfg.ParsedDate()
	if err != nil {
		return nil, err
	}

	c := &convert.Converter{
		Resolver: convert.NewResolver(
			convert.WithTimeout(a.cfg.Fetch.Timeout),
			convert.WithRetries(a.cfg.Fetch.Retries),
			convert.WithBackoff(a.cfg.Fetch.Backoff),
			convert.WithLogger(a.logger),
		),
		Assembler: &convert.Assembler{
			Subject: a.cfg.Subject,
			From:    a.cfg.From,
			To:      a.cfg.To,
			Date:    date,
			Logger:  a.logger,
		},
		Output: a.cfg.Output,
		Logger: a.logger,
	}

	if a.cfg.Archive.Enabled {
		c.Archiver = archive.NewIMAP(archive.Config{
			Address:            a.cfg.Archive.Address,
			Username:           a.cfg.Archive.Username,
			Password:           a.cfg.Archive.Password,
			Mailbox:            a.cfg.Archive.Mailbox,
			TLS:                a.cfg.Archive.TLS,
			InsecureSkipVerify: a.cfg.Archive.InsecureSkipVerify,
			Timeout:            a.cfg.Archive.Timeout,
		}, a.logger)
	}

	return c, nil
}

func (a *app) runConvert(cmd *cobra.Command, args []string) error {
	if a.cfg.Output != "" && len(args) > 1 {
		return errOutputWithMany
	}

	c, err := a.converter()
	if err != nil {
		return err
	}

	for _, path := range args {
		res, err := c.Convert(cmd.Context(), path)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d units, %d images, %d dropped\n",
			res.OutputPath, len(res.Units), len(res.Images), len(res.Failures))
	}

	return nil
}
