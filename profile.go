package remap

// Profile is a named batch of mapping configuration assembled
// independently of any MapperConfiguration. A profile builds its TypeMaps
// through its own private builder, so its state stays invisible to the
// configuration until merged with ConfigurationBuilder.AddProfile.
//
// The configuration pulls the accumulated TypeMaps by reference; they are
// sealed once, configuration-wide, after the merge.
type Profile struct {
	name    string
	builder *ConfigurationBuilder
}

// NewProfile builds a profile by running configure against the profile's
// private builder.
func NewProfile(name string, configure func(*ConfigurationBuilder)) *Profile {
	builder := NewConfigurationBuilder()
	if configure != nil {
		configure(builder)
	}
	return &Profile{name: name, builder: builder}
}

// Name returns the profile's name.
func (p *Profile) Name() string {
	return p.name
}

// TypeMaps returns the TypeMaps this profile collected, in declaration
// order.
func (p *Profile) TypeMaps() []*TypeMap {
	return p.builder.typeMaps
}
