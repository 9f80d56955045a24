package remap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileMerge(t *testing.T) {
	users := NewProfile("users", func(b *ConfigurationBuilder) {
		CreateMap[SourceBasic, DestBasic](b)
	})
	orders := NewProfile("orders", func(b *ConfigurationBuilder) {
		CreateMap[Order, OrderDTO](b)
	})

	assert.Equal(t, "users", users.Name())
	require.Len(t, users.TypeMaps(), 1)
	assert.False(t, users.TypeMaps()[0].Sealed(), "profile maps seal configuration-wide, not at build time")

	cfg := NewMapperConfiguration(func(b *ConfigurationBuilder) {
		b.AddProfile(users)
		b.AddProfile(orders)
	})

	require.Len(t, cfg.TypeMaps(), 2)
	// Merged by reference: the configuration sealed the profile's own maps.
	assert.Same(t, users.TypeMaps()[0], cfg.TypeMaps()[0])
	assert.True(t, users.TypeMaps()[0].Sealed())

	mapper, err := cfg.CreateMapper()
	require.NoError(t, err)

	dto, err := Map[OrderDTO](mapper, Order{Total: 5, Customer: Customer{Name: "Bo"}})
	require.NoError(t, err)
	assert.Equal(t, "Bo", dto.CustomerName)
}

func TestProfileConvertersMerge(t *testing.T) {
	type tagged struct{ Tags []string }
	type joined struct{ Tags string }

	formatting := NewProfile("formatting", func(b *ConfigurationBuilder) {
		CreateMap[tagged, joined](b)
		ConvertUsing(b, func(tags []string) (string, error) {
			return strings.Join(tags, ","), nil
		})
	})

	mapper := mustMapper(t, func(b *ConfigurationBuilder) {
		b.AddProfile(formatting)
	})

	out, err := Map[joined](mapper, tagged{Tags: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "a,b", out.Tags)
}

func TestProfileStateIsPrivateUntilMerged(t *testing.T) {
	profile := NewProfile("isolated", func(b *ConfigurationBuilder) {
		CreateMap[SourceBasic, DestBasic](b)
	})

	cfg := NewMapperConfiguration(nil)
	assert.Empty(t, cfg.TypeMaps())
	assert.Len(t, profile.TypeMaps(), 1)
}
