package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"polarkb/internal/fixture"
	"polarkb/internal/kb"
	"polarkb/internal/logging"
	"polarkb/internal/resource"
	"polarkb/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [fixture...]",
	Short: "Load, elaborate, and validate fixture files, printing any diagnostics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	kbase := kb.New()
	for _, path := range args {
		if _, err := fixture.Load(path, kbase); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}

	elabLog := logging.For(logger, logging.StageElaborate)
	if errs := resource.RewriteShorthandRules(kbase); len(errs) > 0 {
		for _, err := range errs {
			elabLog.Error("shorthand rule rejected", zap.Error(err))
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
	resource.CreateResourceSpecificRuleTypes(kbase)

	diagnostics := validate.ValidateRules(kbase, validate.SchemaUndefinedChecker{})

	valLog := logging.For(logger, logging.StageValidate)
	if len(diagnostics) == 0 {
		valLog.Info("validation passed", zap.Int("rule_count", len(kbase.GetRules())))
		fmt.Println("OK: no diagnostics")
		return nil
	}

	for _, d := range diagnostics {
		valLog.Warn("diagnostic", zap.String("severity", d.Severity.String()), zap.Error(d.Err))
		fmt.Printf("%s: %s\n", d.Severity, d.Err)
	}

	if cfg.Strict {
		os.Exit(1)
	}
	return nil
}
