package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/helene/internal/config"
	"github.com/kalambet/helene/internal/health"
	"github.com/kalambet/helene/internal/insights"
)

// --- ask ---

type askRequest struct {
	Message     string              `json:"message"`
	SessionID   string              `json:"session_id,omitempty"`
	UserContext *health.UserContext `json:"user_context,omitempty"`
	History     []health.Turn       `json:"history,omitempty"`
}

type askResponse struct {
	Reply         string `json:"reply"`
	Mode          string `json:"mode"`
	InteractionID string `json:"interaction_id"`
}

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask Hélène a question",
	Long: `Ask Hélène a question. The server fills in your stored profile and
recent check-ins unless --context points at a YAML or JSON context file.

Examples:
  helene ask "Je dors mal depuis une semaine"
  helene ask --session morning "What helps with hot flashes?"
  helene ask --context ./me.yaml "Any tips for brain fog?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contextFile, _ := cmd.Flags().GetString("context")
		session, _ := cmd.Flags().GetString("session")

		req := askRequest{
			Message:   strings.Join(args, " "),
			SessionID: session,
		}
		if contextFile != "" {
			uc, history, err := health.LoadContextFile(contextFile)
			if err != nil {
				return err
			}
			req.UserContext = &uc
			req.History = history
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/v1/assistant/reply", req)
		if err != nil {
			return err
		}

		var out askResponse
		if err := decodeJSON(resp, &out); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), out.Reply)
		if out.Mode == "demo" {
			printWarning("demo mode: canned answer, no model was called")
		}
		return nil
	},
}

func init() {
	askCmd.Flags().String("context", "", "YAML or JSON file with the user context and history")
	askCmd.Flags().String("session", "", "conversation session ID to continue")
}

// --- summary ---

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Write a short summary of the past week",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/v1/assistant/weekly-summary", struct{}{})
		if err != nil {
			return err
		}

		var out struct {
			Summary string `json:"summary"`
		}
		if err := decodeJSON(resp, &out); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Summary)
		return nil
	},
}

// --- checkin ---

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Record a daily check-in",
	Long: `Record a daily check-in. Scores range from 1 to 5 and symptom
intensities from 1 (mild) to 3 (severe); 0 or an omitted flag means not
recorded.

Examples:
  helene checkin --mood 4 --sleep 2 --hot-flashes 3
  helene checkin --date 2024-03-04 --energy 3 --notes "long walk"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := checkinFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := l.Validate(); err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.put(cmd.Context(), "/v1/logs/"+url.PathEscape(l.LogDate), l)
		if err != nil {
			return err
		}
		if err := decodeJSON(resp, nil); err != nil {
			return err
		}

		printSuccess("Check-in saved for %s", l.LogDate)
		return nil
	},
}

// symptomFlag turns a symptom key into its flag name.
func symptomFlag(s health.Symptom) string {
	return strings.ReplaceAll(string(s), "_", "-")
}

func checkinFromFlags(cmd *cobra.Command) (health.DailyLog, error) {
	flags := cmd.Flags()
	date, _ := flags.GetString("date")
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	}

	l := health.DailyLog{LogDate: date}
	l.Mood, _ = flags.GetInt("mood")
	l.EnergyLevel, _ = flags.GetInt("energy")
	l.SleepQuality, _ = flags.GetInt("sleep")
	l.Notes, _ = flags.GetString("notes")
	for _, s := range health.Symptoms {
		v, err := flags.GetInt(symptomFlag(s))
		if err != nil {
			return health.DailyLog{}, err
		}
		l.SetIntensity(s, v)
	}
	return l, nil
}

func init() {
	checkinCmd.Flags().String("date", "", "check-in date (YYYY-MM-DD, default today)")
	checkinCmd.Flags().Int("mood", 0, "mood score 1-5")
	checkinCmd.Flags().Int("energy", 0, "energy score 1-5")
	checkinCmd.Flags().Int("sleep", 0, "sleep quality score 1-5")
	checkinCmd.Flags().String("notes", "", "free-text notes")
	for _, s := range health.Symptoms {
		checkinCmd.Flags().Int(symptomFlag(s), 0, fmt.Sprintf("%s intensity 1-3", strings.ReplaceAll(string(s), "_", " ")))
	}
}

// --- logs ---

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Browse stored check-ins",
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent check-ins, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), fmt.Sprintf("/v1/logs?limit=%d", limit))
		if err != nil {
			return err
		}

		var logs []health.DailyLog
		if err := decodeJSON(resp, &logs); err != nil {
			return err
		}

		if len(logs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No check-ins found.")
			return nil
		}
		for _, l := range logs {
			fmt.Fprintln(cmd.OutOrStdout(), formatLogLine(l))
		}
		return nil
	},
}

// formatLogLine renders one check-in as a single list line.
func formatLogLine(l health.DailyLog) string {
	var b strings.Builder
	b.WriteString(colorize(colorCyan, l.LogDate))
	fmt.Fprintf(&b, "  mood %s  energy %s  sleep %s", score(l.Mood), score(l.EnergyLevel), score(l.SleepQuality))
	var symptoms []string
	for _, s := range health.Symptoms {
		if v := l.Intensity(s); v > 0 {
			symptoms = append(symptoms, fmt.Sprintf("%s=%d", s, v))
		}
	}
	if len(symptoms) > 0 {
		b.WriteString("  " + strings.Join(symptoms, ", "))
	}
	return b.String()
}

func score(v int) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/5", v)
}

var logsShowCmd = &cobra.Command{
	Use:   "show <date>",
	Short: "Show a single check-in as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/v1/logs/"+url.PathEscape(args[0]))
		if err != nil {
			return err
		}

		var l health.DailyLog
		if err := decodeJSON(resp, &l); err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	},
}

var logsDeleteCmd = &cobra.Command{
	Use:   "delete <date>",
	Short: "Delete a check-in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/v1/logs/"+url.PathEscape(args[0]))
		if err != nil {
			return err
		}
		if err := decodeJSON(resp, nil); err != nil {
			return err
		}

		printSuccess("Deleted check-in %s", args[0])
		return nil
	},
}

func init() {
	logsListCmd.Flags().Int("limit", 14, "maximum number of check-ins to list")
	logsCmd.AddCommand(logsListCmd)
	logsCmd.AddCommand(logsShowCmd)
	logsCmd.AddCommand(logsDeleteCmd)
}

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage user profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/v1/profile")
		if err != nil {
			return err
		}

		var p any
		if err := decodeJSON(resp, &p); err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a profile field (empty value clears it)",
	Long: `Set a profile field. Keys: age, menopause_stage (pre, peri, meno,
post), goals (comma-separated), language, context_summary,
yesterday_summary. An empty value clears the field.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.patch(cmd.Context(), "/v1/profile", map[string]any{key: value})
		if err != nil {
			return err
		}
		if err := decodeJSON(resp, nil); err != nil {
			return err
		}

		if value == "" {
			printSuccess("Cleared %s", key)
		} else {
			printSuccess("Set %s = %s", key, value)
		}
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}

// --- insights ---

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show trends from recent check-ins",
	RunE: func(cmd *cobra.Command, args []string) error {
		month, _ := cmd.Flags().GetBool("month")
		period := "week"
		if month {
			period = "month"
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/v1/insights?period="+period)
		if err != nil {
			return err
		}

		var out struct {
			Period   string             `json:"period"`
			Insights []insights.Insight `json:"insights"`
		}
		if err := decodeJSON(resp, &out); err != nil {
			return err
		}

		if len(out.Insights) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Not enough check-ins yet.")
			return nil
		}
		for _, in := range out.Insights {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n  %s\n",
				colorize(insightColor(string(in.Type)), in.Title),
				colorize(colorBold, in.Value),
				in.Message,
			)
		}
		return nil
	},
}

func init() {
	insightsCmd.Flags().Bool("month", false, "look at the last 30 days instead of the last week")
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
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Valid keys: " + strings.Join(config.ValidKeys(), ", "),
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

var configSetSecretCmd = &cobra.Command{
	Use:   "set-secret",
	Short: "Store the Gemini API key in the OS keyring (read from stdin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		var key string
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &key); err != nil {
			return fmt.Errorf("reading API key: %w", err)
		}
		if err := config.StoreAPIKey(key); err != nil {
			return err
		}
		printSuccess("API key stored in keyring")
		return nil
	},
}

var configDeleteSecretCmd = &cobra.Command{
	Use:   "delete-secret",
	Short: "Remove the Gemini API key from the OS keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.DeleteAPIKey(); err != nil {
			return err
		}
		printSuccess("API key removed; helene will answer in demo mode unless HELENE_GEMINI_API_KEY is set")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetSecretCmd)
	configCmd.AddCommand(configDeleteSecretCmd)
}
