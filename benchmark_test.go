package remap

import "testing"

type benchSource struct {
	ID    int
	Name  string
	Email string
	Age   int
	Score float64
}

type benchDest struct {
	ID    int
	Name  string
	Email string
	Age   int
	Score float64
}

func benchMapper(b *testing.B) *Mapper {
	b.Helper()
	cfg := NewMapperConfiguration(func(cb *ConfigurationBuilder) {
		CreateMap[benchSource, benchDest](cb)
	})
	mapper, err := cfg.CreateMapper()
	if err != nil {
		b.Fatalf("unexpected error: %v", err)
	}
	return mapper
}

func BenchmarkMap(b *testing.B) {
	mapper := benchMapper(b)
	src := benchSource{ID: 1, Name: "bench", Email: "b@e.nch", Age: 40, Score: 9.5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Map[benchDest](mapper, src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMapTo(b *testing.B) {
	mapper := benchMapper(b)
	src := benchSource{ID: 1, Name: "bench", Email: "b@e.nch", Age: 40, Score: 9.5}
	var dest benchDest

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := MapTo(mapper, src, &dest); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMapSlice(b *testing.B) {
	mapper := benchMapper(b)
	src := make([]benchSource, 100)
	for i := range src {
		src[i] = benchSource{ID: i, Name: "bench", Age: i}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := MapSlice[benchSource, benchDest](mapper, src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMapParallel(b *testing.B) {
	mapper := benchMapper(b)
	src := benchSource{ID: 1, Name: "bench"}

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := Map[benchDest](mapper, src); err != nil {
				b.Fatal(err)
			}
		}
	})
}
