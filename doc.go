// Package remap transforms instances of one struct shape into instances of
// another, driven by a declarative configuration that is built once and
// then used concurrently for many transformations.
//
// Configuration is assembled through a fluent builder, sealed inside
// NewMapperConfiguration (which runs automatic, case-insensitive field
// matching for every registered pair), and validated as a whole before any
// mapping runs:
//
//	cfg := remap.NewMapperConfiguration(func(b *remap.ConfigurationBuilder) {
//	    remap.CreateMap[User, UserDTO](b).
//	        ForMember(func(d *UserDTO) any { return &d.FullName },
//	            remap.MapFromFunc(func(u User) (any, error) {
//	                return u.FirstName + " " + u.LastName, nil
//	            }))
//	})
//	if err := cfg.AssertConfigurationIsValid(); err != nil {
//	    // every configuration mistake, reported in one batch
//	}
//	mapper, err := cfg.CreateMapper()
//	dto, err := remap.Map[UserDTO](mapper, user)
//
// After sealing, the configuration is read-only and the mapper is safe for
// concurrent use.
package remap
