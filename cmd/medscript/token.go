package main

import (
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medscript/pkg/auth"
	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var subject, role string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer rt.close()

			token, expiresAt, err := auth.NewJWTManager(rt.cfg.JWT).GenerateAccessToken(subject, domain.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			cmd.PrintErrf("expires at %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject (user name)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleDoctor), "admin, doctor, pharmacist or clerk")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
