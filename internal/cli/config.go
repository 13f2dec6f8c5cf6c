package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"beatcut/internal/config"
	"beatcut/internal/paths"
)

var configValidate bool

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective project configuration",
		RunE:  runConfig,
	}

	cmd.Flags().BoolVar(&configValidate, "validate", false, "run strict validation and report findings")
	return cmd
}

func runConfig(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}
	pp = paths.ApplyConfig(pp, cfg)

	var findings []config.ValidationResult
	if configValidate {
		findings = cfg.ValidateStrict(pp.Root)
	}

	if outputJSON {
		cfgMap, err := configAsMap(cfg)
		if err != nil {
			return err
		}
		payload := struct {
			Project     string                    `json:"project"`
			Config      map[string]any            `json:"config"`
			Validations []config.ValidationResult `json:"validations,omitempty"`
		}{
			Project:     pp.Root,
			Config:      cfgMap,
			Validations: findings,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
	} else {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))

		for _, v := range findings {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", v.Level, v.Message)
		}
	}

	if configValidate && config.HasErrors(findings) {
		var msgs []string
		for _, v := range findings {
			if v.Level == "error" {
				msgs = append(msgs, v.Message)
			}
		}
		return errors.New("config validation failed: " + strings.Join(msgs, "; "))
	}
	return nil
}

// configAsMap round-trips the config through YAML so the JSON output uses the
// same snake_case keys as the config file.
func configAsMap(cfg config.Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("remarshal config: %w", err)
	}
	return m, nil
}
