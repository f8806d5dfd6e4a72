package main

import (
	"fmt"
	"net/url"

	"github.com/couchcryptid/vortex/internal/config"
	"github.com/spf13/cobra"
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Manage the error report webhook",
	Long:  `Store or show the webhook URL that error reports are posted to.`,
}

var webhookSetCmd = &cobra.Command{
	Use:   "set <url>",
	Short: "Save the webhook URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookSet,
}

var webhookShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the webhook URL in effect",
	Long:  `Show prints WEBHOOK_URL when set, otherwise the URL saved in the settings file.`,
	Args:  cobra.NoArgs,
	RunE:  runWebhookShow,
}

func init() {
	rootCmd.AddCommand(webhookCmd)
	webhookCmd.AddCommand(webhookSetCmd)
	webhookCmd.AddCommand(webhookShowCmd)
}

func runWebhookSet(cmd *cobra.Command, args []string) error {
	u, err := url.ParseRequestURI(args[0])
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid webhook url %q", args[0])
	}
	if err := config.SaveWebhook(configFile, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "webhook saved to %s\n", configFile)
	return nil
}

func runWebhookShow(cmd *cobra.Command, _ []string) error {
	u, err := config.ResolveWebhookURL(configFile)
	if err != nil {
		return err
	}
	if u == "" {
		u = "(not set)"
	}
	fmt.Fprintln(cmd.OutOrStdout(), u)
	return nil
}
