package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/schengen-tracker/internal/export"
)

func (a *app) exportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trips with their usage as CSV, iCalendar or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" {
				format = a.cfg.Display.ExportFormat
			}
			if err := a.openStore(cmd.Context()); err != nil {
				return err
			}
			rows, err := a.export.Export(cmd.Context())
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			switch format {
			case "csv":
				err = export.WriteCSV(&buf, rows)
			case "ics":
				opts := export.ICSOptions{Now: a.now()}
				st, serr := a.compliance.Status(cmd.Context(), a.compliance.Today())
				if serr != nil {
					return serr
				}
				if st.Reset.Found {
					opts.Reset = &st.Reset.Date
				}
				err = export.WriteICS(&buf, rows, opts)
			case "json":
				enc := json.NewEncoder(&buf)
				enc.SetIndent("", "  ")
				err = enc.Encode(rows)
			default:
				return fmt.Errorf("unknown format %q (want csv, ics or json)", format)
			}
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = a.out.Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			a.log.Info("export written", "path", out, "format", format, "trips", len(rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "csv, ics or json (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}
