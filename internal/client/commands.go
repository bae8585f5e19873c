package client

import (
	"fmt"
	"os"

	"github.com/MKhiriev/go-family-tree/models"
	"github.com/spf13/cobra"
)

const defaultExportFile = "familytree_data.json"

func (a *App) rootCommand() *cobra.Command {
	var server string

	root := &cobra.Command{
		Use:           "familyctl",
		Short:         "Administer a family-tree server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return a.connect(server)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVarP(&server, "server", "s", "", "server base URL (overrides ADAPTER_ADDRESS)")

	root.AddCommand(
		a.loginCommand(),
		a.logoutCommand(),
		a.statusCommand(),
		a.listCommand(),
		a.exportCommand(),
		a.importCommand(),
		a.passwdCommand(),
		a.versionCommand(),
	)
	return root
}

func (a *App) loginCommand() *cobra.Command {
	var username, password string
	var copyToken bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if username, err = a.prompt("Username", username); err != nil {
				return err
			}
			if password, err = a.prompt("Password", password); err != nil {
				return err
			}

			resp, err := a.server.Login(cmd.Context(), models.LoginRequest{Username: username, Password: password})
			if err != nil {
				return err
			}
			if err = a.tokens.Save(resp.Token); err != nil {
				return err
			}

			fmt.Fprintln(a.out, renderIdentity(resp.User))
			if copyToken {
				if err = a.copyToken(resp.Token); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(a.out, helpStyle.Render("token copied to clipboard"))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")
	cmd.Flags().BoolVar(&copyToken, "copy", false, "copy the session token to the clipboard")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.server.Token() != "" {
				if err := a.server.Logout(cmd.Context()); err != nil {
					a.logger.Warn().Err(err).Str("func", "logout").Msg("server logout failed")
				}
			}
			if err := a.tokens.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "logged out")
			return nil
		},
	}
}

func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who the saved session belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.server.Status(cmd.Context())
			if err != nil {
				return err
			}
			if !status.IsAuthenticated || status.User == nil {
				fmt.Fprintln(a.out, "not logged in")
				return nil
			}
			fmt.Fprintln(a.out, renderIdentity(*status.User))
			return nil
		},
	}
}

func (a *App) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List everyone in the family tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			persons, err := a.server.ListPersons(cmd.Context())
			if err != nil {
				return a.sessionExpired(err)
			}
			fmt.Fprint(a.out, renderPersons(persons))
			return nil
		},
	}
}

func (a *App) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the whole directory (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			doc, err := a.server.Export(cmd.Context())
			if err != nil {
				return a.sessionExpired(err)
			}

			if output == "-" {
				_, err = a.out.Write(doc)
				return err
			}
			if err = os.WriteFile(output, doc, 0o600); err != nil {
				return fmt.Errorf("error writing export: %w", err)
			}
			fmt.Fprintf(a.out, "exported %d bytes to %s\n", len(doc), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", defaultExportFile, `destination file, "-" for stdout`)
	return cmd
}

func (a *App) importCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the whole directory with a document (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			doc, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("error reading import file: %w", err)
			}

			resp, err := a.server.Import(cmd.Context(), doc)
			if err != nil {
				return a.sessionExpired(err)
			}
			fmt.Fprintf(a.out, "%s: %d persons, %d accounts\n", resp.Message, resp.Persons, resp.Accounts)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "file", "f", "", "document in the persisted layout")
	cmd.MarkFlagRequired("file")
	return cmd
}

func (a *App) passwdCommand() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "passwd <person-id>",
		Short: "Set a new password for an account (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			newPassword, err := a.prompt("New password", password)
			if err != nil {
				return err
			}
			if err = a.server.ChangePassword(cmd.Context(), args[0], newPassword); err != nil {
				return a.sessionExpired(err)
			}
			fmt.Fprintln(a.out, "password changed")
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "new password (prompted when omitted)")
	return cmd
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print client and server versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(a.out, renderBuildInfo(a.buildInfo))

			v, err := a.server.Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Server version: %s\n", v)
			return nil
		},
	}
}
