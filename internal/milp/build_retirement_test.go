package milp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/gridforge/internal/component"
	"github.com/aristath/gridforge/internal/linkage"
	"github.com/aristath/gridforge/internal/system"
)

func TestPlannedCapacityEqualsInputWhenAssetCannotRetire(t *testing.T) {
	sys, sets, temp := toySystem()
	b := NewBuilder(sys, sets, temp)
	b.buildBuildRetirementConstraints()

	c := findConstraint(t, b.prob.Constraints, varName("PlannedCapEQ", "gas_ct", 2030))
	assert.Equal(t, EQ, c.Op)
	assert.Equal(t, 100.0, c.RHS)
}

func TestPlannedCapacityIsAnUpperBoundWhenAssetCanRetire(t *testing.T) {
	sys := system.New(map[string]linkage.KindSpec{})
	a := component.New("retirable_ct", component.KindResource)
	mustSet(a, "planned_installed_capacity", annualSeries([]int{2030}, []float64{100}))
	mustSet(a, "can_retire", scalarBool(true))
	require.NoError(t, sys.AddComponent(a))

	sets := &Sets{ModelYears: []int{2030}, Vintages: []int{2030}, Assets: []string{"retirable_ct"}}
	b := NewBuilder(sys, sets, testTemporalResult())
	b.buildBuildRetirementConstraints()

	c := findConstraint(t, b.prob.Constraints, varName("PlannedCapUB", "retirable_ct", 2030))
	assert.Equal(t, LE, c.Op)
	assert.Equal(t, 100.0, c.RHS)
}

func TestVintageExpiresAtPhysicalLifetime(t *testing.T) {
	sys := system.New(map[string]linkage.KindSpec{})
	a := component.New("short_lived", component.KindResource)
	mustSet(a, "planned_installed_capacity", annualSeries([]int{2030}, []float64{0}))
	mustSet(a, "physical_lifetime", component.Value{Type: component.AttrScalarInteger, Number: 1})
	mustSet(a, "can_build_new", scalarBool(true))
	require.NoError(t, sys.AddComponent(a))

	sets := &Sets{ModelYears: []int{2030, 2031}, Vintages: []int{2030, 2031}, Assets: []string{"short_lived"}}
	b := NewBuilder(sys, sets, testTemporalResult())
	b.buildBuildRetirementConstraints()

	c := findConstraint(t, b.prob.Constraints, varName("VintageExpired", "short_lived", 2030, 2031))
	assert.Equal(t, EQ, c.Op)
	assert.Equal(t, 0.0, c.RHS)
}

func TestIntegerBuildSizingTiesVintageBuildToUnitCount(t *testing.T) {
	sys := system.New(map[string]linkage.KindSpec{})
	a := component.New("lumpy_ct", component.KindResource)
	mustSet(a, "planned_installed_capacity", annualSeries([]int{2030}, []float64{0}))
	mustSet(a, "can_build_new", scalarBool(true))
	mustSet(a, "integer_build", scalarBool(true))
	mustSet(a, "unit_size", scalarNum(50))
	require.NoError(t, sys.AddComponent(a))

	sets := &Sets{ModelYears: []int{2030}, Vintages: []int{2030}, Assets: []string{"lumpy_ct"}}
	b := NewBuilder(sys, sets, testTemporalResult())
	b.buildCapacityVariables()
	b.buildBuildRetirementConstraints()

	c := findConstraint(t, b.prob.Constraints, varName("IntegerBuildSizing", "lumpy_ct", 2030))
	assert.Equal(t, EQ, c.Op)
	assert.Equal(t, 0.0, c.RHS)
	vars := termVars(c.Terms)
	assert.Contains(t, vars, varName("OperationalNewByVintage", "lumpy_ct", 2030, 2030))
	assert.Contains(t, vars, varName("IntegerBuild", "lumpy_ct", 2030))
}

func TestIntegerBuildSizingSkippedWithoutUnitSize(t *testing.T) {
	sys := system.New(map[string]linkage.KindSpec{})
	a := component.New("no_unit_size", component.KindResource)
	mustSet(a, "planned_installed_capacity", annualSeries([]int{2030}, []float64{0}))
	mustSet(a, "can_build_new", scalarBool(true))
	mustSet(a, "integer_build", scalarBool(true))
	require.NoError(t, sys.AddComponent(a))

	sets := &Sets{ModelYears: []int{2030}, Vintages: []int{2030}, Assets: []string{"no_unit_size"}}
	b := NewBuilder(sys, sets, testTemporalResult())
	b.buildBuildRetirementConstraints()

	for _, c := range b.prob.Constraints {
		assert.NotEqual(t, varName("IntegerBuildSizing", "no_unit_size", 2030), c.Name)
	}
}

func TestResourcePotentialBoundsOperationalCapacityWithSlack(t *testing.T) {
	sys := system.New(map[string]linkage.KindSpec{})
	a := component.New("capped_res", component.KindResource)
	mustSet(a, "planned_installed_capacity", annualSeries([]int{2030}, []float64{0}))
	mustSet(a, "potential", annualSeries([]int{2030}, []float64{250}))
	mustSet(a, "can_build_new", scalarBool(true))
	require.NoError(t, sys.AddComponent(a))

	sets := &Sets{ModelYears: []int{2030}, Vintages: []int{2030}, Assets: []string{"capped_res"}}
	b := NewBuilder(sys, sets, testTemporalResult())
	b.buildBuildRetirementConstraints()

	c := findConstraint(t, b.prob.Constraints, varName("ResourcePotential", "capped_res", 2030))
	assert.Equal(t, LE, c.Op)
	assert.Equal(t, 250.0, c.RHS)
	assert.Contains(t, termVars(c.Terms), varName("ResourcePotentialSlack", "capped_res", 2030))
}
