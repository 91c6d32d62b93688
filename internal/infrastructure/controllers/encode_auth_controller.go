package controllers

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Orbs/jspm-git/internal/domain/entities"
)

// EncodeAuthController handles the "encode-auth" subcommand, which prints
// the token to store as "auth" in the configuration file.
type EncodeAuthController struct{}

// NewEncodeAuthController creates a new EncodeAuthController.
func NewEncodeAuthController() *EncodeAuthController {
	return &EncodeAuthController{}
}

// GetBind returns the Cobra command metadata for the encode-auth controller.
func (it *EncodeAuthController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "encode-auth",
		Short: "Encode a username and password into a credential token",
		Long: `Encode a username and password into the opaque token expected by the
"auth" configuration field. The password is read from --password or,
when omitted, from the JSPM_GIT_PASSWORD environment variable.`,
	}
}

// AddFlags adds the encode-auth flags to the given Cobra command.
func (it *EncodeAuthController) AddFlags(cmd *cobra.Command) {
	cmd.Args = cobra.NoArgs
	cmd.Flags().String("username", "", "Username of the Git server account")
	cmd.Flags().String("password", "", "Password or access token of the account")
}

// Execute prints the encoded token.
func (it *EncodeAuthController) Execute(cmd *cobra.Command, _ []string) error {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = entities.ResolveToken("password", "${JSPM_GIT_PASSWORD}")
	}
	if username == "" {
		return errors.New("--username is required")
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), entities.EncodeCredential(entities.Credential{
		Username: username,
		Password: password,
	}))
	return err
}
