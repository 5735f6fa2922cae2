// Package utils contains small helpers shared by the CLI commands.
package utils

import (
	"encoding/json"
	"fmt"
)

// PrintJSON writes v to stdout as indented JSON, or the marshal error.
func PrintJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println("Error marshalling the JSON:", err)
		return
	}

	fmt.Println(string(out))
}
