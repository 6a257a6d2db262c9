package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		encoded, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(encoded))
		return
	}
	fmt.Println(data)
}

// Printf outputs a formatted line in text mode, or the given data as JSON
func (o *Output) Printf(data any, format string, args ...any) {
	if o.format == "json" {
		o.Print(data)
		return
	}
	fmt.Printf(format+"\n", args...)
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]any{
			"error": map[string]string{"message": err.Error()},
		})
		fmt.Fprintln(os.Stderr, string(data))
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
}
