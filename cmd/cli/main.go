package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledger-cli",
		Short: "Ledger CLI tool",
		Long:  `A command line interface for interacting with the ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(assetsCmd())
	rootCmd.AddCommand(verifyCmd())
	rootCmd.AddCommand(entriesCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func assetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assets <user-id>",
		Short: "Show a user's balances across all accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := getJSON(fmt.Sprintf("/api/v1/users/%s/assets", args[0]))
			if err != nil {
				return err
			}
			printJSON(result)
			return nil
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <user-id> <account-type> <currency>",
		Short: "Check that an account's balance matches the sum of its entries",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := getJSON(fmt.Sprintf("/api/v1/users/%s/accounts/%s/%s/verify", args[0], args[1], args[2]))
			if err != nil {
				return err
			}

			printJSON(result)

			if m, ok := result.(map[string]any); ok {
				if consistent, ok := m["consistent"].(bool); ok && !consistent {
					return fmt.Errorf("account %s/%s/%s is inconsistent", args[0], args[1], args[2])
				}
			}
			return nil
		},
	}
}

func entriesCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "entries <user-id>",
		Short: "List a user's ledger entries, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := getJSON(fmt.Sprintf("/api/v1/users/%s/entries?limit=%d&offset=%d", args[0], limit, offset))
			if err != nil {
				return err
			}
			printJSON(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Entries to skip")

	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "System configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Read a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := getJSON("/api/v1/configs/" + args[0])
			if err != nil {
				return err
			}
			printJSON(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(map[string]string{"value": args[1]})
			if err != nil {
				return err
			}

			result, err := doJSON(http.MethodPut, "/api/v1/configs/"+args[0], body)
			if err != nil {
				return err
			}
			printJSON(result)
			return nil
		},
	})

	return cmd
}

func getJSON(path string) (any, error) {
	return doJSON(http.MethodGet, path, nil)
}

func doJSON(method, path string, body []byte) (any, error) {
	client := &http.Client{Timeout: timeout}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var result any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return result, nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render output: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
