package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// detectSource guesses the documentation source from the current
// directory: a directory holding a menu configuration file wins.
func detectSource(menuConfig string) string {
	for _, dir := range []string{".", "docs", "tutorial", "site"} {
		if _, err := os.Stat(dir + "/" + menuConfig); err == nil {
			return dir
		}
	}
	return "."
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docview! Let's configure your documentation viewer.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Source.
	sourcePrompt := promptui.Prompt{
		Label:   "Documentation source (directory or http(s) URL)",
		Default: detectSource(cfg.MenuConfig),
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("source is required")
			}
			return nil
		},
	}
	source, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	cfg.Source = strings.TrimSpace(source)

	// 2. Cache backend.
	backendPrompt := promptui.Select{
		Label: "Select cache backend",
		Items: []string{
			"sqlite — persists between runs",
			"memory — cleared on exit",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("cache backend selection: %w", err)
	}
	cfg.Cache.Backend = []CacheBackend{CacheSQLite, CacheMemory}[backendIdx]

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:   "Port for docview serve",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p <= 0 || p > 65535 {
				return errors.New("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 4. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if extra := splitAndTrim(excludeStr); len(extra) > 0 {
		cfg.Exclude = append(append([]string(nil), DefaultExcludes...), extra...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
