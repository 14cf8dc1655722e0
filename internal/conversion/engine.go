// Package conversion resolves quantities between weight, volume and count
// units, crossing the volume/weight boundary through material density and
// optionally adjusting that density for temperature.
package conversion

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DefaultDensity is the g/ml fallback when neither a material nor a
// custom density is supplied
const DefaultDensity = 0.85

// ReferenceTemperature is the °C baseline material densities are quoted at
const ReferenceTemperature = 20.0

// Accuracy is the qualitative confidence tier of a result
type Accuracy string

const (
	AccuracyHigh      Accuracy = "high"
	AccuracyMedium    Accuracy = "medium"
	AccuracyEstimated Accuracy = "estimated"
)

// Method names the resolution path that produced a result
type Method string

const (
	MethodDirect             Method = "direct"
	MethodReverse            Method = "reverse"
	MethodDensity            Method = "density"
	MethodDensityTemperature Method = "density_temperature"
	MethodCompound           Method = "compound"
)

// ErrNoConversionPath indicates no standard, density or compound rule
// bridges the two units
type ErrNoConversionPath struct {
	From Unit
	To   Unit
}

func (e *ErrNoConversionPath) Error() string {
	return fmt.Sprintf("no conversion path from %s to %s", e.From, e.To)
}

// Request is a single conversion
type Request struct {
	Value         float64
	From          Unit
	To            Unit
	Material      *Material
	CustomDensity *float64 // g/ml, used when no material is given
	Temperature   *float64 // °C, enables density temperature adjustment
}

// Result is the transient outcome of a conversion; it is not persisted
// beyond the bounded history log
type Result struct {
	OriginalValue  float64   `json:"original_value"`
	ConvertedValue float64   `json:"converted_value"`
	FromUnit       Unit      `json:"from_unit"`
	ToUnit         Unit      `json:"to_unit"`
	Factor         float64   `json:"factor"`
	Method         Method    `json:"method"`
	Formula        string    `json:"formula"`
	Accuracy       Accuracy  `json:"accuracy"`
	Warnings       []string  `json:"warnings,omitempty"`
	Temperature    *float64  `json:"temperature,omitempty"`
}

// Engine performs conversions against an injected rules table. It is
// stateless per call apart from the bounded history log.
type Engine struct {
	rules   *Rules
	history *History
	logger  *zap.Logger
}

// NewEngine creates an engine over the given rules table
func NewEngine(rules *Rules, logger *zap.Logger) *Engine {
	return &Engine{
		rules:   rules,
		history: NewHistory(HistoryCap),
		logger:  logger,
	}
}

// Convert resolves a single conversion and records it in the history log
func (e *Engine) Convert(req Request) (*Result, error) {
	result, err := e.convert(req)
	if err != nil {
		return nil, err
	}

	e.history.Add(result)
	return result, nil
}

// History returns recorded conversions, most recent first
func (e *Engine) History() []*Result {
	return e.history.List()
}

func (e *Engine) convert(req Request) (*Result, error) {
	// Unit names match case-insensitively; the table stores lowercase
	req.From = Unit(strings.ToLower(string(req.From)))
	req.To = Unit(strings.ToLower(string(req.To)))

	if !e.rules.Known(req.From) || !e.rules.Known(req.To) {
		return nil, &ErrNoConversionPath{From: req.From, To: req.To}
	}

	if req.From == req.To {
		return e.finish(req, 1, MethodDirect, AccuracyHigh,
			fmt.Sprintf("%g %s = %g %s", req.Value, req.From, req.Value, req.To), nil), nil
	}

	// 1. Direct standard factor
	if factor, ok := e.rules.Factor(req.From, req.To); ok {
		formula := fmt.Sprintf("%g %s × %g = %g %s", req.Value, req.From, factor, req.Value*factor, req.To)
		return e.finish(req, factor, MethodDirect, AccuracyHigh, formula, nil), nil
	}

	// 2. Reverse standard factor
	if factor, ok := e.rules.Factor(req.To, req.From); ok {
		reciprocal := 1 / factor
		formula := fmt.Sprintf("%g %s ÷ %g = %g %s", req.Value, req.From, factor, req.Value*reciprocal, req.To)
		return e.finish(req, reciprocal, MethodReverse, AccuracyHigh, formula, nil), nil
	}

	fromFamily, _ := e.rules.Family(req.From)
	toFamily, _ := e.rules.Family(req.To)

	// 3/4. Density-mediated cross-family conversion, optionally
	// temperature-adjusted
	if isDensityPair(fromFamily, toFamily) {
		return e.convertWithDensity(req, fromFamily, toFamily)
	}

	// 5. Compound conversion via a pivot unit
	if fromFamily == toFamily {
		if result, ok := e.convertCompound(req); ok {
			return result, nil
		}
	}

	return nil, &ErrNoConversionPath{From: req.From, To: req.To}
}

func isDensityPair(a, b Family) bool {
	return (a == FamilyVolume && b == FamilyWeight) || (a == FamilyWeight && b == FamilyVolume)
}

func (e *Engine) convertWithDensity(req Request, fromFamily, toFamily Family) (*Result, error) {
	var warnings []string

	density := DefaultDensity
	accuracy := AccuracyEstimated
	densityLabel := "default density"
	switch {
	case req.Material != nil:
		density = req.Material.Density
		accuracy = AccuracyHigh
		densityLabel = req.Material.Name
	case req.CustomDensity != nil:
		density = *req.CustomDensity
		accuracy = AccuracyMedium
		densityLabel = "custom density"
	default:
		warnings = append(warnings,
			fmt.Sprintf("no material or density given, using default %.2f g/ml", DefaultDensity))
	}

	method := MethodDensity
	if req.Temperature != nil && req.Material != nil && req.Material.TemperatureCoefficient != nil {
		coeff := *req.Material.TemperatureCoefficient
		density = density * (1 + coeff*(*req.Temperature-ReferenceTemperature))
		method = MethodDensityTemperature
		densityLabel = fmt.Sprintf("%s at %g°C", densityLabel, *req.Temperature)
	}

	// Source unit to its canonical intermediate
	toCanonical, ok := e.canonicalFactor(req.From, fromFamily)
	if !ok {
		return nil, &ErrNoConversionPath{From: req.From, To: req.To}
	}

	// Cross families through g/ml
	var cross float64
	if fromFamily == FamilyVolume {
		cross = density // ml × g/ml = gram
	} else {
		cross = 1 / density // gram ÷ g/ml = ml
	}

	// Canonical intermediate to the target unit
	targetFactor, ok := e.factorAnyDirection(e.rules.Canonical(toFamily), req.To)
	if !ok {
		return nil, &ErrNoConversionPath{From: req.From, To: req.To}
	}

	factor := toCanonical * cross * targetFactor
	converted := req.Value * factor

	formula := fmt.Sprintf("%g %s → %g %s × %.4f g/ml (%s) → %g %s",
		req.Value, req.From,
		req.Value*toCanonical, e.rules.Canonical(fromFamily),
		density, densityLabel,
		converted, req.To)

	return e.finish(req, factor, method, accuracy, formula, warnings), nil
}

func (e *Engine) convertCompound(req Request) (*Result, bool) {
	for _, pivot := range e.rules.pivots {
		if pivot == req.From || pivot == req.To {
			continue
		}
		f1, ok1 := e.factorAnyDirection(req.From, pivot)
		f2, ok2 := e.factorAnyDirection(pivot, req.To)
		if !ok1 || !ok2 {
			continue
		}

		factor := f1 * f2
		formula := fmt.Sprintf("%g %s → %g %s → %g %s",
			req.Value, req.From,
			req.Value*f1, pivot,
			req.Value*factor, req.To)

		// First successful pivot wins; chained factors downgrade accuracy
		return e.finish(req, factor, MethodCompound, AccuracyMedium, formula, nil), true
	}

	return nil, false
}

// canonicalFactor returns the factor from unit to its family's canonical
// intermediate (identity for the canonical unit itself)
func (e *Engine) canonicalFactor(u Unit, family Family) (float64, bool) {
	canonical := e.rules.Canonical(family)
	if u == canonical {
		return 1, true
	}
	return e.factorAnyDirection(u, canonical)
}

// factorAnyDirection tries the direct factor, then the reciprocal of the
// reverse factor
func (e *Engine) factorAnyDirection(from, to Unit) (float64, bool) {
	if from == to {
		return 1, true
	}
	if factor, ok := e.rules.Factor(from, to); ok {
		return factor, true
	}
	if factor, ok := e.rules.Factor(to, from); ok {
		return 1 / factor, true
	}
	return 0, false
}

func (e *Engine) finish(req Request, factor float64, method Method, accuracy Accuracy, formula string, warnings []string) *Result {
	converted := req.Value * factor

	if converted > 1_000_000 {
		warnings = append(warnings, "result is unusually large, check the units")
	}
	if converted != 0 && math.Abs(converted) < 0.001 {
		warnings = append(warnings, "result is unusually small, check the units")
	}

	return &Result{
		OriginalValue:  req.Value,
		ConvertedValue: converted,
		FromUnit:       req.From,
		ToUnit:         req.To,
		Factor:         factor,
		Method:         method,
		Formula:        formula,
		Accuracy:       accuracy,
		Warnings:       warnings,
		Temperature:    req.Temperature,
	}
}

// ConvertBatch applies Convert to newline-delimited "value from to"
// triples. A malformed line is skipped, not fatal; batch conversions are
// not recorded in the history log.
func (e *Engine) ConvertBatch(input string, material *Material) []*Result {
	results := []*Result{}

	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		req, ok := parseBatchLine(line)
		if !ok {
			e.logger.Warn("Skipping malformed batch line", zap.String("line", line))
			continue
		}
		req.Material = material

		result, err := e.convert(req)
		if err != nil {
			e.logger.Warn("Skipping unconvertible batch line",
				zap.String("line", line), zap.Error(err))
			continue
		}
		results = append(results, result)
	}

	return results
}

// parseBatchLine parses "<value> <fromUnit> <toUnit>", tolerating an
// extra "to" between the units
func parseBatchLine(line string) (Request, bool) {
	fields := strings.Fields(line)
	if len(fields) == 4 && strings.EqualFold(fields[2], "to") {
		fields = []string{fields[0], fields[1], fields[3]}
	}
	if len(fields) != 3 {
		return Request{}, false
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Request{}, false
	}

	return Request{
		Value: value,
		From:  Unit(fields[1]),
		To:    Unit(fields[2]),
	}, true
}
