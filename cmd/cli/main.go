package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/finsight-labs/statement-insights/internal/logger"
	"github.com/finsight-labs/statement-insights/internal/statement"
	"github.com/rs/zerolog"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(log)
	case "summary":
		runSummary(log)
	case "categories":
		runCategories()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Statement Insights CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze     Extract transactions and insights from a statement text file")
	fmt.Println("  summary     Print only the insights summary for a statement text file")
	fmt.Println("  categories  List the supported transaction categories")
	fmt.Println("  help        Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runAnalyze(log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to the statement text file")
	pretty := fs.Bool("pretty", true, "Indent the JSON output")
	fs.Parse(os.Args[2:])

	result := processFile(log, *filePath)
	printJSON(log, result, *pretty)
}

func runSummary(log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to the statement text file")
	pretty := fs.Bool("pretty", true, "Indent the JSON output")
	fs.Parse(os.Args[2:])

	result := processFile(log, *filePath)

	fmt.Printf("Candidates: %d, accepted: %d, rejected: %d\n",
		result.CandidateCount, len(result.Transactions), result.RejectedCount)
	printJSON(log, result.Summary, *pretty)
}

func runCategories() {
	for _, c := range statement.Categories() {
		fmt.Println(c)
	}
}

func processFile(log zerolog.Logger, filePath string) *statement.Result {
	if filePath == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", filePath).Msg("Failed to read statement file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("file", filePath).Int("bytes", len(raw)).Msg("Analyzing statement")

	categorizer := statement.NewCategorizer(statement.DefaultCategoryRules())
	return statement.Process(ctx, string(raw), categorizer)
}

func printJSON(log zerolog.Logger, v interface{}, pretty bool) {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		log.Fatal().Err(err).Msg("Failed to encode output")
	}
}
