package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/complaintd/internal/config"
	"github.com/kalambet/complaintd/internal/storage"
)

// --- complain ---

var complainCmd = &cobra.Command{
	Use:   "complain <text>",
	Short: "Submit a complaint for classification",
	Long: `Submit a complaint for classification.

Examples:
  complaintd complain "сайт не работает уже второй день"
  complaintd complain "с карты списали деньги дважды"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return fmt.Errorf("complaint text is required")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/complaints", map[string]string{"text": text})
		if err != nil {
			return err
		}

		var complaint storage.Complaint
		if err := decodeJSON(resp, &complaint); err != nil {
			return err
		}

		printSuccess("Complaint %s recorded", complaint.ID)
		printStatus("Sentiment", "%s", complaint.Sentiment)
		printStatus("Category", "%s", complaint.Category)
		if complaint.IsSpam {
			printWarning("flagged as likely spam")
		}
		return nil
	},
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored complaints, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		category, _ := cmd.Flags().GetString("category")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := fmt.Sprintf("/complaints?limit=%d", limit)
		if status != "" {
			path += "&status=" + status
		}
		if category != "" {
			path += "&category=" + category
		}

		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var complaints []storage.Complaint
		if err := decodeJSON(resp, &complaints); err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(complaints)
		}

		if len(complaints) == 0 {
			fmt.Println("no complaints found")
			return nil
		}

		for _, c := range complaints {
			text := truncate(c.Text, 60)
			fmt.Printf("%s  %-6s %-9s %-8s %s\n",
				colorize(colorCyan, c.ID[:8]),
				c.Status,
				c.Category,
				c.Sentiment,
				text,
			)
		}
		return nil
	},
}

// --- report ---

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Send the daily complaint report to Telegram",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/telegram/daily-report", nil)
		if err != nil {
			return err
		}

		var result struct {
			Message string `json:"message"`
			Data    struct {
				Total int `json:"total_complaints"`
				Open  int `json:"open_complaints"`
			} `json:"data"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("%s", result.Message)
		printStatus("Total (24h)", "%d", result.Data.Total)
		printStatus("Open (24h)", "%d", result.Data.Open)
		return nil
	},
}

// --- close ---

var closeCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Close a complaint after handling",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.put(cmd.Context(), "/complaints/"+args[0],
			map[string]string{"status": storage.StatusClosed})
		if err != nil {
			return err
		}

		var complaint storage.Complaint
		if err := decodeJSON(resp, &complaint); err != nil {
			return err
		}

		printSuccess("Complaint %s closed", complaint.ID)
		return nil
	},
}

// truncate shortens s to at most max runes, marking the cut with an
// ellipsis. Complaints are Russian text, so it must count runes, not bytes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.SetKey(key, value); err != nil {
			return err
		}
		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	listCmd.Flags().String("status", "", "filter by status (open, closed)")
	listCmd.Flags().String("category", "", "filter by category (technical, payment, other)")
	listCmd.Flags().Int("limit", 20, "maximum number of results")
	listCmd.Flags().Bool("json", false, "print raw JSON")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
