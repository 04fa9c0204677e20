package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/privai/internal/config"
	"github.com/user/privai/internal/types"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		scanner := bufio.NewScanner(os.Stdin)

		fmt.Println("PrivAI Setup Wizard")
		fmt.Println("Press Enter to accept the default value shown in brackets.")
		fmt.Println()

		cfg.DataDir = prompt(scanner, "Data directory", cfg.DataDir)
		cfg.ListenAddr = prompt(scanner, "Listen address", cfg.ListenAddr)

		windowStr := prompt(scanner, "History window (messages per request)", strconv.Itoa(cfg.HistoryWindow))
		if n, err := strconv.Atoi(windowStr); err == nil && n > 0 {
			cfg.HistoryWindow = n
		}

		daysStr := prompt(scanner, "Retention in days (0 keeps everything)", strconv.Itoa(cfg.Retention.MaxDays))
		if n, err := strconv.Atoi(daysStr); err == nil && n >= 0 {
			cfg.Retention.MaxDays = n
		}

		fmt.Println()
		fmt.Println("API keys (all optional; leave blank to skip a provider):")
		for _, provider := range []string{
			types.ProviderGroq,
			types.ProviderOpenAI,
			types.ProviderAnthropic,
			types.ProviderDeepSeek,
			types.ProviderGemini,
		} {
			key := prompt(scanner, provider+" API key", cfg.APIKeys[provider])
			if key != "" {
				cfg.APIKeys[provider] = key
			}
		}

		if err := config.Save(cfgPath, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Println()
		fmt.Println("Configuration saved to", cfgPath)
		return nil
	},
}

// prompt displays a labeled prompt with a default value and reads user input.
// If the user enters nothing, the default is returned.
func prompt(scanner *bufio.Scanner, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("%s: ", label)
	}
	if scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input != "" {
			return input
		}
	}
	return defaultVal
}
