package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/perfumeoud/retailapi/internal/conversion"
)

func main() {
	args := os.Args[1:]
	// Tolerate "convert 1 tola to gram"
	if len(args) == 4 && strings.EqualFold(args[2], "to") {
		args = []string{args[0], args[1], args[3]}
	}
	if len(args) < 3 {
		fmt.Println("Usage: go run cmd/convert/main.go <value> <from-unit> <to-unit> [material-id] [temperature]")
		fmt.Println("Example: go run cmd/convert/main.go 3 tola gram")
		fmt.Println("Example: go run cmd/convert/main.go 100 ml gram oud-cambodi 35")
		os.Exit(1)
	}

	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid value: %s\n", args[0])
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	engine := conversion.NewEngine(conversion.DefaultRules(), logger)
	catalog := conversion.DefaultCatalog()

	req := conversion.Request{
		Value: value,
		From:  conversion.Unit(args[1]),
		To:    conversion.Unit(args[2]),
	}

	if len(args) > 3 {
		material, ok := catalog.Get(args[3])
		if !ok {
			fmt.Fprintf(os.Stderr, "❌ Unknown material: %s\n\nAvailable materials:\n", args[3])
			for _, m := range catalog.List() {
				fmt.Fprintf(os.Stderr, "  %s (%s, %.3f g/ml)\n", m.ID, m.Name, m.Density)
			}
			os.Exit(1)
		}
		req.Material = &material
	}
	if len(args) > 4 {
		temp, err := strconv.ParseFloat(args[4], 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid temperature: %s\n", args[4])
			os.Exit(1)
		}
		req.Temperature = &temp
	}

	result, err := engine.Convert(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ %g %s = %g %s\n\n", result.OriginalValue, result.FromUnit, result.ConvertedValue, result.ToUnit)
	fmt.Printf("Factor: %g\n", result.Factor)
	fmt.Printf("Method: %s\n", result.Method)
	fmt.Printf("Accuracy: %s\n", result.Accuracy)
	fmt.Printf("Formula: %s\n", result.Formula)
	for _, w := range result.Warnings {
		fmt.Printf("⚠️  %s\n", w)
	}
}
