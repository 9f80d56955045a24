package remap_test

import (
	"fmt"

	"github.com/remap-dev/remap"
)

// Entity types (domain layer)
type Employee struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
	Office    Office
}

type Office struct {
	City    string
	Country string
}

// DTO types (presentation layer)
type EmployeeDTO struct {
	ID         int
	FullName   string
	Email      string
	OfficeCity string // Flattened from Office.City
}

// Example demonstrates building a configuration, validating it, and
// mapping with the resulting mapper.
func Example() {
	cfg := remap.NewMapperConfiguration(func(b *remap.ConfigurationBuilder) {
		remap.CreateMap[Employee, EmployeeDTO](b).
			ForMember(func(d *EmployeeDTO) any { return &d.FullName },
				remap.MapFromFunc(func(e Employee) (any, error) {
					return e.FirstName + " " + e.LastName, nil
				}))
	})

	if err := cfg.AssertConfigurationIsValid(); err != nil {
		fmt.Println("invalid configuration:", err)
		return
	}

	mapper, err := cfg.CreateMapper()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	employee := Employee{
		ID:        1,
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
		Office:    Office{City: "Boston", Country: "US"},
	}

	dto, err := remap.Map[EmployeeDTO](mapper, employee)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("ID: %d\n", dto.ID)
	fmt.Printf("FullName: %s\n", dto.FullName)
	fmt.Printf("Email: %s\n", dto.Email)
	fmt.Printf("OfficeCity: %s\n", dto.OfficeCity)

	// Output:
	// ID: 1
	// FullName: John Doe
	// Email: john@example.com
	// OfficeCity: Boston
}

// ExampleProfile shows grouping related mappings into a profile that is
// merged into the configuration before sealing.
func ExampleProfile() {
	hr := remap.NewProfile("hr", func(b *remap.ConfigurationBuilder) {
		remap.CreateMap[Employee, EmployeeDTO](b).
			ForMemberName("FullName", remap.MapFromFunc(func(e Employee) (any, error) {
				return e.LastName + ", " + e.FirstName, nil
			}))
	})

	cfg := remap.NewMapperConfiguration(func(b *remap.ConfigurationBuilder) {
		b.AddProfile(hr)
	})

	mapper, _ := cfg.CreateMapper()
	dto, _ := remap.Map[EmployeeDTO](mapper, Employee{FirstName: "Ann", LastName: "Lee"})
	fmt.Println(dto.FullName)

	// Output:
	// Lee, Ann
}
