package remap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"
)

func TestConfigurationSealedAfterConstruction(t *testing.T) {
	cfg := NewMapperConfiguration(func(b *ConfigurationBuilder) {
		CreateMap[SourceBasic, DestBasic](b)
	})

	assert.True(t, cfg.Sealed())
	for _, tm := range cfg.TypeMaps() {
		assert.True(t, tm.Sealed())
	}
}

func TestCreateMapperRequiresSealedConfiguration(t *testing.T) {
	// A zero-value configuration never went through the factory and is
	// still in the building state.
	var cfg MapperConfiguration

	_, err := cfg.CreateMapper()
	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Contains(t, err.Error(), "sealed")
}

func TestValidConfigurationPasses(t *testing.T) {
	cfg := NewMapperConfiguration(func(b *ConfigurationBuilder) {
		CreateMap[SourceBasic, DestBasic](b)
		CreateMap[Order, OrderDTO](b)
	}, WithLogger(zaptest.NewLogger(t)))

	require.NoError(t, cfg.AssertConfigurationIsValid())
}

type sparseSource struct {
	ID int
}

type demandingDest struct {
	ID    int
	Title string // no same-named source field
}

func TestUnmappedDestinationMemberFailsValidation(t *testing.T) {
	cfg := NewMapperConfiguration(func(b *ConfigurationBuilder) {
		CreateMap[sparseSource, demandingDest](b)
	})

	err := cfg.AssertConfigurationIsValid()
	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Contains(t, err.Error(), `"Title"`)
}

func TestIgnoredMemberPassesValidation(t *testing.T) {
	cfg := NewMapperConfiguration(func(b *ConfigurationBuilder) {
		CreateMap[sparseSource, demandingDest](b).
			ForMemberName("Title", Ignore())
	})

	require.NoError(t, cfg.AssertConfigurationIsValid())
}

func TestValidationAggregatesAllFailures(t *testing.T) {
	type emptySource struct{}
	type wideDest struct {
		A string
		B string
		C string
	}

	cfg := NewMapperConfiguration(func(b *ConfigurationBuilder) {
		CreateMap[emptySource, wideDest](b)
		CreateMap[sparseSource, demandingDest](b)
	})

	err := cfg.AssertConfigurationIsValid()
	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)

	failures := multierr.Errors(confErr.Failures)
	assert.Len(t, failures, 4, "three members of wideDest plus Title, all reported together")
	assert.Contains(t, err.Error(), `"A"`)
	assert.Contains(t, err.Error(), `"Title"`)
}

func TestDuplicateRegistrationFirstWins(t *testing.T) {
	cfg := NewMapperConfiguration(func(b *ConfigurationBuilder) {
		CreateMap[SourceBasic, DestBasic](b).
			ForMemberName("Name", UseValue("first"))
		CreateMap[SourceBasic, DestBasic](b).
			ForMemberName("Name", UseValue("second"))
	})

	mapper, err := cfg.CreateMapper()
	require.NoError(t, err)

	dest, err := Map[DestBasic](mapper, SourceBasic{Name: "src"})
	require.NoError(t, err)
	assert.Equal(t, "first", dest.Name)
	assert.Len(t, cfg.TypeMaps(), 2, "duplicates stay registered; lookup takes the first")
}

func TestFindTypeMapFor(t *testing.T) {
	cfg := NewMapperConfiguration(func(b *ConfigurationBuilder) {
		CreateMap[SourceBasic, DestBasic](b)
	})

	pair := typePairOf[SourceBasic, DestBasic]()
	require.NotNil(t, cfg.FindTypeMapFor(pair))
	assert.Equal(t, pair, cfg.FindTypeMapFor(pair).Pair())
	assert.Nil(t, cfg.FindTypeMapFor(pair.Reverse()))
}

func TestValidationRequiresSealing(t *testing.T) {
	var cfg MapperConfiguration

	err := cfg.AssertConfigurationIsValid()
	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
}
