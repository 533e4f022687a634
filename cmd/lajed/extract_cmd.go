package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lajed/internal/common/fsutil"
	"lajed/internal/extract"
	"lajed/internal/upstream"
	"lajed/pkg/types"
)

func newExtractCmd(a *app) *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:     "extract <file>",
		Short:   "Extract slab dimensions from a local plan image and print JSON",
		Example: "  lajed extract planta.png\n  lajed extract planta.pdf --profile lajes-schema",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, mediaType, err := fsutil.ReadLocalFile(args[0])
			if err != nil {
				return err
			}
			svc, err := extract.NewFromConfig(a.cfg, a.log)
			if err != nil {
				return err
			}
			res, err := svc.Extract(cmd.Context(), profile, types.Upload{Data: data, MediaType: mediaType, Filename: args[0]})
			if err != nil {
				if ue, ok := upstream.AsError(err); ok {
					return fmt.Errorf("%s returned %d: %s", ue.Provider, ue.Status, ue.Body)
				}
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "Extraction profile (default: the configured default profile)")
	return cmd
}

func newProfilesCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List extraction profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := extract.NewFromConfig(a.cfg, a.log)
			if err != nil {
				return err
			}
			ps := svc.Profiles()
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(types.ProfilesResponse{Profiles: ps})
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSHAPE\tSURFACE\tMODEL\tSCHEMA\tDEFAULT")
			for _, p := range ps {
				def := ""
				if p.Default {
					def = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\n", p.Name, p.Shape, p.Surface, p.Model, p.Schema, def)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}
