package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// OutputFormat selects how results are encoded.
type OutputFormat string

const (
	// FormatYAML is the terminal default.
	FormatYAML OutputFormat = "yaml"
	// FormatJSON is the machine-readable format behind --json.
	FormatJSON OutputFormat = "json"
	// FormatRaw writes byte or string results verbatim.
	FormatRaw OutputFormat = "raw"
)

// OutputOptions says where and how a result goes.
type OutputOptions struct {
	// Format defaults to YAML when empty.
	Format OutputFormat

	// File receives the output; empty means stdout.
	File string

	// Writer overrides File when set.
	Writer io.Writer
}

// Output encodes result and writes it to the configured destination.
func Output(result any, opts OutputOptions) error {
	var w io.Writer = os.Stdout
	if opts.Writer != nil {
		w = opts.Writer
	} else if opts.File != "" {
		f, err := os.Create(opts.File)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return encode(w, result, opts.Format)
}

func encode(w io.Writer, result any, format OutputFormat) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML, "":
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatRaw:
		switch v := result.(type) {
		case []byte:
			_, err := w.Write(v)
			return err
		case string:
			_, err := io.WriteString(w, v)
			return err
		default:
			return fmt.Errorf("raw output needs bytes or string, got %T", result)
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Terminal message helpers. Status lines go to stdout, errors and
// verbose traces to stderr so piped output stays clean.

func PrintSuccess(format string, args ...any) {
	fmt.Printf("✓ "+format+"\n", args...)
}

func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

func PrintInfo(format string, args ...any) {
	fmt.Printf("ℹ "+format+"\n", args...)
}

func PrintWarning(format string, args ...any) {
	fmt.Printf("⚠ "+format+"\n", args...)
}

func PrintVerbose(verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}
