package conversion

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(DefaultRules(), zap.NewNop())
}

func mustGet(t *testing.T, id string) *Material {
	t.Helper()
	m, ok := DefaultCatalog().Get(id)
	require.True(t, ok, "material %s missing from catalog", id)
	return &m
}

func TestConvertTolaToGram(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Convert(Request{Value: 1, From: UnitTola, To: UnitGram})
	require.NoError(t, err)

	assert.Equal(t, 11.66, result.ConvertedValue)
	assert.Equal(t, MethodDirect, result.Method)
	assert.Equal(t, AccuracyHigh, result.Accuracy)
	assert.Empty(t, result.Warnings)
}

func TestConvertGramToTolaReverse(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Convert(Request{Value: 11.66, From: UnitGram, To: UnitTola})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.ConvertedValue, 1e-9)
	assert.Equal(t, MethodReverse, result.Method)
	assert.Equal(t, AccuracyHigh, result.Accuracy)
}

func TestConvertSameUnit(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Convert(Request{Value: 42, From: UnitGram, To: UnitGram})
	require.NoError(t, err)

	assert.Equal(t, 42.0, result.ConvertedValue)
	assert.Equal(t, 1.0, result.Factor)
	assert.Equal(t, MethodDirect, result.Method)
}

func TestConvertSameFamilyRoundTrip(t *testing.T) {
	engine := newTestEngine(t)

	there, err := engine.Convert(Request{Value: 3, From: UnitLiter, To: UnitMl})
	require.NoError(t, err)
	back, err := engine.Convert(Request{Value: there.ConvertedValue, From: UnitMl, To: UnitLiter})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, back.ConvertedValue, 1e-9)
}

func TestConvertDensityWithMaterial(t *testing.T) {
	engine := newTestEngine(t)
	oud := mustGet(t, "oud-cambodi")

	result, err := engine.Convert(Request{Value: 100, From: UnitMl, To: UnitGram, Material: oud})
	require.NoError(t, err)

	assert.InDelta(t, 97.0, result.ConvertedValue, 1e-9)
	assert.Equal(t, MethodDensity, result.Method)
	assert.Equal(t, AccuracyHigh, result.Accuracy)
	assert.Empty(t, result.Warnings)
}

func TestConvertDensityRoundTrip(t *testing.T) {
	engine := newTestEngine(t)
	oud := mustGet(t, "oud-hindi")

	grams, err := engine.Convert(Request{Value: 50, From: UnitMl, To: UnitGram, Material: oud})
	require.NoError(t, err)
	ml, err := engine.Convert(Request{Value: grams.ConvertedValue, From: UnitGram, To: UnitMl, Material: oud})
	require.NoError(t, err)

	assert.InDelta(t, 50.0, ml.ConvertedValue, 1e-9)
}

func TestConvertDensityWithCustomDensity(t *testing.T) {
	engine := newTestEngine(t)
	density := 0.9

	result, err := engine.Convert(Request{Value: 10, From: UnitMl, To: UnitGram, CustomDensity: &density})
	require.NoError(t, err)

	assert.InDelta(t, 9.0, result.ConvertedValue, 1e-9)
	assert.Equal(t, AccuracyMedium, result.Accuracy)
	assert.Empty(t, result.Warnings)
}

func TestConvertDensityDefaultFallback(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Convert(Request{Value: 100, From: UnitMl, To: UnitGram})
	require.NoError(t, err)

	assert.InDelta(t, 85.0, result.ConvertedValue, 1e-9)
	assert.Equal(t, AccuracyEstimated, result.Accuracy)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "default")
}

func TestConvertDensityNonCanonicalUnits(t *testing.T) {
	engine := newTestEngine(t)
	oud := mustGet(t, "oud-cambodi")

	// 1 liter = 1000 ml; 1000 ml × 0.97 g/ml = 970 g = 0.97 kg
	result, err := engine.Convert(Request{Value: 1, From: UnitLiter, To: UnitKilogram, Material: oud})
	require.NoError(t, err)

	assert.InDelta(t, 0.97, result.ConvertedValue, 1e-9)
	assert.Equal(t, MethodDensity, result.Method)
}

func TestConvertTemperatureAdjustment(t *testing.T) {
	engine := newTestEngine(t)
	oud := mustGet(t, "oud-cambodi")

	baseline, err := engine.Convert(Request{Value: 100, From: UnitMl, To: UnitGram, Material: oud})
	require.NoError(t, err)

	hot := 45.0
	warm, err := engine.Convert(Request{Value: 100, From: UnitMl, To: UnitGram, Material: oud, Temperature: &hot})
	require.NoError(t, err)

	// Negative coefficient: density drops above the 20°C baseline
	assert.Less(t, warm.ConvertedValue, baseline.ConvertedValue)
	assert.Equal(t, MethodDensityTemperature, warm.Method)

	expected := 100 * oud.Density * (1 + *oud.TemperatureCoefficient*(hot-ReferenceTemperature))
	assert.InDelta(t, expected, warm.ConvertedValue, 1e-9)
}

func TestConvertTemperatureAtBaselineIsNeutral(t *testing.T) {
	engine := newTestEngine(t)
	oud := mustGet(t, "oud-cambodi")

	baseline := 20.0
	result, err := engine.Convert(Request{Value: 100, From: UnitMl, To: UnitGram, Material: oud, Temperature: &baseline})
	require.NoError(t, err)

	assert.InDelta(t, 97.0, result.ConvertedValue, 1e-9)
}

func TestConvertTemperatureIgnoredWithoutCoefficient(t *testing.T) {
	engine := newTestEngine(t)
	water := mustGet(t, "rose-water")
	require.Nil(t, water.TemperatureCoefficient)

	hot := 40.0
	result, err := engine.Convert(Request{Value: 100, From: UnitMl, To: UnitGram, Material: water, Temperature: &hot})
	require.NoError(t, err)

	assert.InDelta(t, 99.8, result.ConvertedValue, 1e-9)
	assert.Equal(t, MethodDensity, result.Method)
}

func TestConvertCompoundViaPivot(t *testing.T) {
	engine := newTestEngine(t)

	// tola → gram → kilogram
	result, err := engine.Convert(Request{Value: 100, From: UnitTola, To: UnitKilogram})
	require.NoError(t, err)

	assert.InDelta(t, 1.166, result.ConvertedValue, 1e-9)
	assert.Equal(t, MethodCompound, result.Method)
	assert.Equal(t, AccuracyMedium, result.Accuracy)
}

func TestConvertCountFamilyCompound(t *testing.T) {
	engine := newTestEngine(t)

	// dozen → piece → box
	result, err := engine.Convert(Request{Value: 5, From: UnitDozen, To: UnitBox})
	require.NoError(t, err)

	assert.InDelta(t, 6.0, result.ConvertedValue, 1e-9)
	assert.Equal(t, MethodCompound, result.Method)
}

func TestConvertNoPathCountToWeight(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Convert(Request{Value: 1, From: UnitPiece, To: UnitGram})
	require.Error(t, err)

	var noPath *ErrNoConversionPath
	require.ErrorAs(t, err, &noPath)
	assert.Equal(t, UnitPiece, noPath.From)
	assert.Equal(t, UnitGram, noPath.To)
}

func TestConvertUnknownUnit(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Convert(Request{Value: 1, From: Unit("furlong"), To: UnitGram})
	require.Error(t, err)
	assert.IsType(t, &ErrNoConversionPath{}, err)
}

func TestConvertMagnitudeWarnings(t *testing.T) {
	engine := newTestEngine(t)

	big, err := engine.Convert(Request{Value: 2000, From: UnitKilogram, To: UnitGram})
	require.NoError(t, err)
	require.Len(t, big.Warnings, 1)
	assert.Contains(t, big.Warnings[0], "large")

	small, err := engine.Convert(Request{Value: 0.1, From: UnitGram, To: UnitKilogram})
	require.NoError(t, err)
	require.Len(t, small.Warnings, 1)
	assert.Contains(t, small.Warnings[0], "small")
}

func TestConvertBatch(t *testing.T) {
	engine := newTestEngine(t)

	input := "1 tola gram\n" +
		"2 liter to ml\n" + // "to" token tolerated
		"\n" + // blank line skipped
		"garbage line here extra tokens\n" + // malformed, skipped
		"5 piece gram\n" + // no path, skipped
		"3 dozen piece\n"

	results := engine.ConvertBatch(input, nil)
	require.Len(t, results, 3)

	assert.InDelta(t, 11.66, results[0].ConvertedValue, 1e-9)
	assert.InDelta(t, 2000.0, results[1].ConvertedValue, 1e-9)
	assert.InDelta(t, 36.0, results[2].ConvertedValue, 1e-9)

	// Batch conversions are not recorded
	assert.Empty(t, engine.History())
}

func TestConvertNormalizesUnitCasing(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Convert(Request{Value: 1, From: Unit("TOLA"), To: Unit("Gram")})
	require.NoError(t, err)

	assert.Equal(t, 11.66, result.ConvertedValue)
	assert.Equal(t, UnitTola, result.FromUnit)
	assert.Equal(t, UnitGram, result.ToUnit)
}

func TestConvertBatchUppercaseUnits(t *testing.T) {
	engine := newTestEngine(t)

	results := engine.ConvertBatch("1 TOLA GRAM", nil)
	require.Len(t, results, 1)
	assert.InDelta(t, 11.66, results[0].ConvertedValue, 1e-9)
}

func TestHistoryOrderAndCap(t *testing.T) {
	engine := newTestEngine(t)

	for i := 1; i <= HistoryCap+20; i++ {
		_, err := engine.Convert(Request{Value: float64(i), From: UnitTola, To: UnitGram})
		require.NoError(t, err)
	}

	history := engine.History()
	require.Len(t, history, HistoryCap)

	// Most recent first; the 20 oldest entries were evicted
	assert.Equal(t, float64(HistoryCap+20), history[0].OriginalValue)
	assert.Equal(t, 21.0, history[HistoryCap-1].OriginalValue)
}

func TestHistoryRecordsFailuresNever(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Convert(Request{Value: 1, From: UnitPiece, To: UnitGram})
	require.Error(t, err)
	assert.Empty(t, engine.History())
}

func TestDefaultRulesTable(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		from   Unit
		to     Unit
		factor float64
	}{
		{UnitKilogram, UnitGram, 1000},
		{UnitTola, UnitGram, 11.66},
		{UnitPound, UnitGram, 453.592},
		{UnitOunce, UnitGram, 28.3495},
		{UnitLiter, UnitMl, 1000},
		{UnitGallon, UnitMl, 3785.41},
		{UnitFluidOunce, UnitMl, 29.5735},
		{UnitCup, UnitMl, 240},
		{UnitDozen, UnitPiece, 12},
		{UnitBox, UnitPiece, 10},
		{UnitCase, UnitPiece, 100},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_to_%s", tt.from, tt.to), func(t *testing.T) {
			factor, ok := rules.Factor(tt.from, tt.to)
			require.True(t, ok)
			assert.Equal(t, tt.factor, factor)
		})
	}
}
