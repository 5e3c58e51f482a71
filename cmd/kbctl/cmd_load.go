package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"polarkb/internal/fixture"
	"polarkb/internal/kb"
	"polarkb/internal/logging"
)

var loadCmd = &cobra.Command{
	Use:   "load [fixture...]",
	Short: "Load fixture files into a fresh knowledge base and report what was admitted",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := logging.For(logger, logging.StageLoad)
	kbase := kb.New()

	for _, path := range append([]string(nil), args...) {
		sourceID, err := fixture.Load(path, kbase)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		log.Info("admitted fixture", zap.String("path", path), zap.Uint64("source_id", sourceID))
	}

	for _, generic := range kbase.GetRules() {
		log.Info("loaded rule", zap.String("name", string(generic.Name)), zap.Int("count", generic.Len()))
	}
	for _, name := range kbase.RuleTypes().Names() {
		types, _ := kbase.RuleTypes().Get(name)
		log.Info("loaded rule type", zap.String("name", string(name)), zap.Int("count", len(types)))
	}

	fmt.Printf("loaded %d fixture(s), %d rule name(s), %d rule type name(s)\n",
		len(args), len(kbase.GetRules()), len(kbase.RuleTypes().Names()))
	return nil
}
