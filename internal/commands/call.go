package commands

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/port402/anything-cli/internal/anything"
	"github.com/port402/anything-cli/internal/apierr"
	"github.com/port402/anything-cli/internal/client"
	"github.com/port402/anything-cli/internal/config"
	"github.com/port402/anything-cli/internal/jsonapi"
	"github.com/port402/anything-cli/internal/output"
)

var (
	errNoAccessToken = errors.New("environment variable ACCESS_TOKEN must be set")
	errUsage         = errors.New("usage: anything [flags] [--] <userId> <mailAddress>: both a user ID and a mail address are required (put -- first when the user ID is a command name)")
)

func (c *cli) runCall(cmd *cobra.Command, args []string) error {
	token := c.getenv(config.EnvAccessToken)
	if token == "" {
		return &exitError{code: 1, err: errNoAccessToken}
	}
	if len(args) < 2 || args[0] == "" || args[1] == "" {
		return &exitError{code: 1, err: errUsage}
	}
	userID, mailAddress := args[0], args[1]

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return &exitError{code: 1, err: err}
	}

	level := cfg.Level()
	if c.verbose {
		level = logrus.DebugLevel
	}
	log := newLogger(cmd.ErrOrStderr(), level)
	// The user ID is accepted for forward compatibility; the endpoint does not take it.
	log.WithField("userId", userID).Debug("user ID is not sent to the endpoint")

	target := anything.Target{
		Host:   cfg.Endpoint.Host,
		Port:   cfg.Endpoint.Port,
		Secure: !cfg.Endpoint.Insecure,
	}
	call := anything.New(target,
		jsonapi.WithClient(client.New(
			client.WithTimeout(cfg.Timeout()),
			client.WithHeader("User-Agent", userAgent()),
			client.WithLogger(log),
		)),
		jsonapi.WithLogger(log),
	)

	resp, err := call(cmd.Context(), jsonapi.Request[anything.Security, anything.Parameters, anything.RequestBody]{
		Security:    &anything.Security{Token: token},
		RequestBody: &anything.RequestBody{MailAddress: mailAddress},
	})
	if err != nil {
		if _, ok := apierr.As(err); !ok {
			err = pkgerrors.WithStack(err)
		}
		if perr := output.PrintFailure(cmd.OutOrStdout(), err); perr != nil {
			return &exitError{code: 1, err: fmt.Errorf("printing failure: %w", perr)}
		}
		return &exitError{code: 1}
	}

	body := resp.ResponseBody
	return output.PrintJSON(cmd.OutOrStdout(), output.CallResult{
		Host:          body.Headers.Host,
		Authorization: body.Headers.Authorization,
		URL:           body.URL,
		Method:        body.Method,
		MailAddress:   body.JSON.MailAddress,
	})
}

func userAgent() string {
	return "anything/" + Version
}

// loadConfig merges the config file with any flags set on cmd.
func (c *cli) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configPath, c.getenv)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Endpoint.Host = c.host
	}
	if flags.Changed("port") {
		cfg.Endpoint.Port = c.port
	}
	if flags.Changed("insecure") {
		cfg.Endpoint.Insecure = c.insecure
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = c.timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
