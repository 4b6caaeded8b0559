package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the knowledge base a question",
	Long: `Ask the knowledge base a question.

Examples:
  friday ask tell me about Justtawk
  friday ask what is your pricing model
  friday ask list all products`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		answer, err := client.ask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Println(answer)
		return nil
	},
}

// --- classify ---

var classifyCmd = &cobra.Command{
	Use:   "classify <message>",
	Short: "Classify a user message for lead intent",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		verdict, guidance, err := client.classify(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", colorize(colorBold, verdict+":"), guidance)
		return nil
	},
}

// --- lead ---

var leadCmd = &cobra.Command{
	Use:   "lead",
	Short: "Manage sales leads",
}

var leadCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Validate and save a new lead",
	Long: `Validate and save a new lead.

Example:
  friday lead create --name "John Doe" --email john@company.com \
      --company "Tech Corp" --interest "AI Voice Bot" --phone 9876543210`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := map[string]string{}
		for _, f := range []string{"name", "email", "company", "interest", "phone", "job-title", "budget", "timeline"} {
			v, _ := cmd.Flags().GetString(f)
			fields[strings.ReplaceAll(f, "-", "_")] = v
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		msg, err := client.createLead(cmd.Context(), fields)
		if err != nil {
			return err
		}

		fmt.Println(msg)
		return nil
	},
}

func init() {
	leadCreateCmd.Flags().String("name", "", "contact name (required)")
	leadCreateCmd.Flags().String("email", "", "contact email (required)")
	leadCreateCmd.Flags().String("company", "", "company name (required)")
	leadCreateCmd.Flags().String("interest", "", "area of interest (required)")
	leadCreateCmd.Flags().String("phone", "", "phone number")
	leadCreateCmd.Flags().String("job-title", "", "job title")
	leadCreateCmd.Flags().String("budget", "", "budget range")
	leadCreateCmd.Flags().String("timeline", "", "purchase timeline")

	leadCmd.AddCommand(leadCreateCmd)
}

// --- kb ---

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Inspect the knowledge catalog",
}

var kbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all products in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		answer, err := client.ask(cmd.Context(), "list all products")
		if err != nil {
			return err
		}

		fmt.Println(answer)
		return nil
	},
}

func init() {
	kbCmd.AddCommand(kbListCmd)
}

// --- conversation ---

var conversationCmd = &cobra.Command{
	Use:   "conversation",
	Short: "Show the current session's conversation log",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path, entries, err := client.conversationLog(cmd.Context())
		if err != nil {
			return err
		}

		printStatus("Log", "%s", path)
		for _, e := range entries {
			fmt.Printf("%s %s [%s]: %s\n", e.Timestamp, colorize(colorBold, e.Role), e.Channel, e.Content)
		}
		return nil
	},
}
