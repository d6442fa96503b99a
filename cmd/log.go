package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PolarWolf314/oauthvault/internal/audit"
	"github.com/PolarWolf314/oauthvault/internal/ui"

	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logReverse   bool
	logOperation string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
	rootCmd.AddCommand(logCmd)
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logOperation = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log of vault operations.

Every seal, open, rekey, acquire and call is recorded with its outcome.
The log never contains passwords, keys or tokens.

Examples:
  oauthvault log                         # View full log
  oauthvault log -n 10                   # Last 10 entries
  oauthvault log --reverse               # Most recent first
  oauthvault log --operation open,call   # Filter by operation
  oauthvault log --json                  # JSON output`,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	auditLog := auditLogger()
	if auditLog.Path == "" {
		fmt.Println(ui.Info.Sprint("ℹ") + " The audit log is disabled in your config.")
		return nil
	}

	entries, err := auditLog.ReadEntries()
	if err != nil {
		return Logger.ErrorfAndReturn("failed to read audit log: %w", err)
	}
	Logger.Debugf("Parsed %d entries from %s", len(entries), auditLog.Path)

	total := len(entries)
	entries = filterEntries(entries, logOperation, logLimit, logReverse)

	if len(entries) == 0 {
		if total == 0 {
			fmt.Println("No audit log entries found.")
		} else {
			fmt.Println("No audit log entries found matching the filters.")
		}
		return nil
	}

	if logJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entries to JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%-19s  %-8s  %-19s  %s\n", formatTimestamp(e.Timestamp), e.Operation, formatOutcome(e.Outcome), formatDetails(e))
	}
	return nil
}

// filterEntries keeps entries whose operation is listed in operations,
// then takes the last limit of them. Entries are in file order unless
// reverse is set.
func filterEntries(entries []audit.Entry, operations string, limit int, reverse bool) []audit.Entry {
	if operations != "" {
		wanted := make(map[string]bool)
		for _, op := range strings.Split(operations, ",") {
			wanted[strings.TrimSpace(op)] = true
		}
		filtered := entries[:0:0]
		for _, e := range entries {
			if wanted[e.Operation] {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	if reverse {
		reversed := make([]audit.Entry, len(entries))
		for i, e := range entries {
			reversed[len(entries)-1-i] = e
		}
		entries = reversed
	}
	return entries
}

// formatTimestamp shortens an RFC3339 timestamp to "YYYY-MM-DD HH:MM:SS".
func formatTimestamp(ts string) string {
	if len(ts) < 19 {
		return ts
	}
	return strings.Replace(ts[:19], "T", " ", 1)
}

func formatOutcome(outcome string) string {
	if outcome == audit.OutcomeOK {
		return ui.Success.Sprint(outcome)
	}
	return ui.Error.Sprint(outcome)
}

func formatDetails(e audit.Entry) string {
	var parts []string
	if e.Method != "" || e.Endpoint != "" {
		parts = append(parts, strings.TrimSpace(e.Method+" "+e.Endpoint))
	}
	if e.Status != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.Status))
	}
	if e.Iterations != 0 {
		parts = append(parts, fmt.Sprintf("iterations=%d", e.Iterations))
	}
	if e.Owner != "" {
		parts = append(parts, "owner="+e.Owner)
	}
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	return strings.Join(parts, "  ")
}
