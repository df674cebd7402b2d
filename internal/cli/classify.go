package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"disaster_response/internal/logger"
	"disaster_response/internal/risk"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Classify the readings in a JSON file",
	Long: `Classify the readings in a JSON file and print the batch result.

The file may hold {"sensor_data": ...}, a single reading or an array of readings.

Examples:
  riskd classify data/sensors.json
  riskd classify -v readings.json`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	log := logger.Get(logger.Level("", verbose))
	path := args[0]

	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	readings, err := risk.ParsePayload(body)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	log.Debugw("classify_loaded", "file", path, "readings", len(readings))

	out, err := json.MarshalIndent(risk.Analyze(readings), "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
