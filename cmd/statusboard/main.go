// Package main provides the statusboard CLI: run the dashboard's data
// pipeline against a local file and print the result as JSON, no server
// required.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"statusboard/internal/core"
)

var (
	outputPath   string
	pretty       bool
	statusColumn string
	statuses     string
	selectAll    bool
	xColumn      string
	yColumn      string
	zColumn      string
	xMin, xMax   float64
	yMin, yMax   float64
	zMin, zMax   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "statusboard",
		Short: "Filter-and-project pipeline for tabular dashboard data",
		Long: `statusboard loads a CSV or Excel file, classifies its columns as numeric
or categorical, filters rows by a categorical status column, resolves chart
axes, and prints the resulting view as JSON.`,
	}

	columnsCmd := &cobra.Command{
		Use:   "columns [input file]",
		Short: "Print the inferred column classification",
		Args:  cobra.ExactArgs(1),
		RunE:  runColumns,
	}

	viewCmd := &cobra.Command{
		Use:   "view [input file]",
		Short: "Filter rows by status and print the resulting view",
		Args:  cobra.ExactArgs(1),
		RunE:  runView,
	}

	viewCmd.Flags().StringVar(&statusColumn, "status-column", core.DefaultStatusColumn, "Categorical column to filter on")
	viewCmd.Flags().StringVar(&statuses, "status", "", "Comma-separated accepted status values")
	viewCmd.Flags().BoolVar(&selectAll, "all", false, "Accept every status value")
	viewCmd.Flags().StringVar(&xColumn, "x", "", "Preferred numeric column for the x axis")
	viewCmd.Flags().StringVar(&yColumn, "y", "", "Preferred numeric column for the y axis")
	viewCmd.Flags().StringVar(&zColumn, "z", "", "Preferred numeric column for the z axis")
	viewCmd.Flags().Float64Var(&xMin, "x-min", 0, "Requested x axis minimum")
	viewCmd.Flags().Float64Var(&xMax, "x-max", 0, "Requested x axis maximum")
	viewCmd.Flags().Float64Var(&yMin, "y-min", 0, "Requested y axis minimum")
	viewCmd.Flags().Float64Var(&yMax, "y-max", 0, "Requested y axis maximum")
	viewCmd.Flags().Float64Var(&zMin, "z-min", 0, "Requested z axis minimum")
	viewCmd.Flags().Float64Var(&zMax, "z-max", 0, "Requested z axis maximum")

	for _, cmd := range []*cobra.Command{columnsCmd, viewCmd} {
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
		cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	}

	rootCmd.AddCommand(columnsCmd, viewCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadFile opens and parses the input file.
func loadFile(path string) (*core.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	defer f.Close()

	table, err := core.Load(path, f)
	if err != nil {
		return nil, fmt.Errorf("%s", core.FormatUserError(err))
	}
	return table, nil
}

func runColumns(cmd *cobra.Command, args []string) error {
	table, err := loadFile(args[0])
	if err != nil {
		return err
	}

	class := core.Classify(table)

	type column struct {
		Name  string `json:"name"`
		Class string `json:"class"`
	}
	out := struct {
		Columns     []column `json:"columns"`
		Numeric     []string `json:"numericColumns"`
		Categorical []string `json:"categoricalColumns"`
		RowCount    int      `json:"rowCount"`
	}{
		Numeric:     core.NumericColumns(table, class),
		Categorical: core.CategoricalColumns(table, class),
		RowCount:    table.NumRows(),
	}
	for _, name := range table.Columns {
		out.Columns = append(out.Columns, column{Name: name, Class: class[name].String()})
	}

	return writeOutput(out)
}

func runView(cmd *cobra.Command, args []string) error {
	table, err := loadFile(args[0])
	if err != nil {
		return err
	}

	spec := core.FilterSpec{
		StatusColumn: statusColumn,
		SelectAll:    selectAll,
		X:            axisFlag(cmd, xColumn, "x-min", "x-max", xMin, xMax),
		Y:            axisFlag(cmd, yColumn, "y-min", "y-max", yMin, yMax),
		Z:            axisFlag(cmd, zColumn, "z-min", "z-max", zMin, zMax),
	}
	if statuses != "" {
		for _, v := range strings.Split(statuses, ",") {
			if v = strings.TrimSpace(v); v != "" {
				spec.Statuses = append(spec.Statuses, v)
			}
		}
	}

	result, err := core.BuildView(table, core.Classify(table), spec)
	if err != nil {
		return fmt.Errorf("%s", core.FormatUserError(err))
	}

	for _, warning := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", warning)
	}

	return writeOutput(result)
}

// axisFlag builds an AxisSpec from the column flag and range flags.
// Returns nil when the axis was not requested at all, so an untouched axis
// stays out of the pipeline entirely.
func axisFlag(cmd *cobra.Command, column, minFlag, maxFlag string, min, max float64) *core.AxisSpec {
	minSet := cmd.Flags().Changed(minFlag)
	maxSet := cmd.Flags().Changed(maxFlag)
	if column == "" && !minSet && !maxSet {
		return nil
	}

	axis := &core.AxisSpec{Column: column}
	if minSet {
		axis.Min = &min
	}
	if maxSet {
		axis.Max = &max
	}
	return axis
}

// writeOutput serializes v as JSON to the output path or stdout.
func writeOutput(v any) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	fmt.Println(string(data))
	return nil
}
