// Command salescast runs forecasting scenarios over a delimited time series
// file: fit, extend, predict, evaluate, and optionally compare two scenario
// configurations.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/retailscope/salescast"
	"github.com/retailscope/salescast/ingest"
	"github.com/retailscope/salescast/timeseries"
)

// ScenarioFile is the on-disk scenario configuration: how to read the source
// file plus the model assumptions to fit with.
type ScenarioFile struct {
	Data     ingest.Config              `json:"data"`
	Scenario *salescast.ScenarioOptions `json:"scenario"`
}

func loadScenarioFile(path string) (*ScenarioFile, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read scenario config %s, %w", path, err)
	}
	var sf ScenarioFile
	if err := json.Unmarshal(buf, &sf); err != nil {
		return nil, fmt.Errorf("unable to decode scenario config %s, %w", path, err)
	}
	if sf.Scenario == nil {
		return nil, fmt.Errorf("scenario config %s has no scenario block", path)
	}
	return &sf, nil
}

func runScenario(dataPath string, sf *ScenarioFile) (*salescast.ScenarioResult, *timeseries.Series, error) {
	series, err := ingest.Load(dataPath, sf.Data)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("loaded series",
		"rows", series.Len(),
		"start", series.StartTime(),
		"end", series.EndTime(),
	)

	res, err := salescast.Run(series, sf.Scenario)
	if err != nil {
		return nil, nil, err
	}
	return res, series, nil
}

func main() {
	// missing .env just means no defaults
	_ = godotenv.Load()

	var (
		dataPath   string
		cpuProfile bool
	)

	root := &cobra.Command{
		Use:           "salescast",
		Short:         "fit and evaluate additive forecasting scenarios over a univariate series",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&dataPath, "data", "d", os.Getenv("SALESCAST_DATA"), "path to the delimited time series file")
	root.PersistentFlags().BoolVar(&cpuProfile, "profile", false, "write a CPU profile to the current directory")

	var (
		configPath string
		chartPath  string
		reportPath string
	)
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "fit one scenario and report forecast accuracy",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cpuProfile {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
			}

			sf, err := loadScenarioFile(configPath)
			if err != nil {
				return err
			}
			res, series, err := runScenario(dataPath, sf)
			if err != nil {
				return err
			}

			ef, metrics, err := salescast.Evaluate(res.Frame, series)
			if err != nil {
				return err
			}
			report := salescast.NewReport(res, ef, metrics)
			if err := report.TablePrint(os.Stdout); err != nil {
				return err
			}

			if reportPath != "" {
				f, err := os.Create(reportPath)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := report.WriteJSON(f); err != nil {
					return err
				}
			}

			if chartPath != "" {
				f, err := os.Create(chartPath)
				if err != nil {
					return err
				}
				defer f.Close()
				return salescast.WritePage(f,
					salescast.OverlayChart(series, res.Frame),
					salescast.ComponentsChart(res.Frame),
				)
			}
			return nil
		},
	}
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "scenario config file")
	runCmd.Flags().StringVarP(&chartPath, "out", "o", os.Getenv("SALESCAST_OUT"), "output html chart path")
	runCmd.Flags().StringVar(&reportPath, "report", "", "output json report path")
	if err := runCmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}

	var basePath string
	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "fit two scenarios and report their mean percentage difference",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cpuProfile {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
			}

			sf, err := loadScenarioFile(configPath)
			if err != nil {
				return err
			}
			baseSf, err := loadScenarioFile(basePath)
			if err != nil {
				return err
			}

			res, series, err := runScenario(dataPath, sf)
			if err != nil {
				return err
			}
			baseRes, _, err := runScenario(dataPath, baseSf)
			if err != nil {
				return err
			}

			ef, metrics, err := salescast.Evaluate(res.Frame, series)
			if err != nil {
				return err
			}

			comparison, err := salescast.Compare(res.Frame, baseRes.Frame)
			if err != nil {
				return err
			}
			report, err := salescast.NewReport(res, ef, metrics).WithComparison(baseRes.Name, comparison)
			if err != nil {
				if errors.Is(err, salescast.ErrAllZeroBase) {
					slog.Warn("comparison undefined on every row", "base", baseRes.Name)
				}
				return err
			}
			if err := report.TablePrint(os.Stdout); err != nil {
				return err
			}
			if reportPath != "" {
				f, err := os.Create(reportPath)
				if err != nil {
					return err
				}
				defer f.Close()
				return report.WriteJSON(f)
			}
			return nil
		},
	}
	compareCmd.Flags().StringVarP(&configPath, "config", "c", "", "scenario config file")
	compareCmd.Flags().StringVarP(&basePath, "base", "b", "", "base scenario config file")
	compareCmd.Flags().StringVar(&reportPath, "report", "", "output json report path")
	for _, flag := range []string{"config", "base"} {
		if err := compareCmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}

	root.AddCommand(runCmd, compareCmd)

	if err := root.Execute(); err != nil {
		slog.Error("scenario failed", "error", err.Error())
		os.Exit(1)
	}
}
