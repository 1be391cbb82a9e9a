package java

// PrimaryConstructor selects the constructor used as the injection entry
// point: the first injection-marked constructor, else the only constructor,
// else the one with the most parameters (first declared on a tie).
func PrimaryConstructor(ctors []MethodModel) (MethodModel, bool) {
	if len(ctors) == 0 {
		return MethodModel{}, false
	}
	for _, c := range ctors {
		if hasInjectionMarker(c.Markers) {
			return c, true
		}
	}
	best := ctors[0]
	for _, c := range ctors[1:] {
		if len(c.Parameters) > len(best.Parameters) {
			best = c
		}
	}
	return best, true
}

// AnalyzeDependencies merges injection-marked fields and the parameters of
// the primary constructor, in that order, dropping repeated types.
func AnalyzeDependencies(fields []FieldModel, ctors []MethodModel) []Dependency {
	deps := []Dependency{}
	seen := make(map[string]bool)
	add := func(d Dependency) {
		key := d.ResolvedType
		if key == "" {
			key = d.Type
		}
		if seen[key] {
			return
		}
		seen[key] = true
		deps = append(deps, d)
	}

	for _, f := range fields {
		if f.Injected {
			add(Dependency{Name: f.Name, Type: f.Type, ResolvedType: f.ResolvedType})
		}
	}
	if ctor, ok := PrimaryConstructor(ctors); ok {
		for _, p := range ctor.Parameters {
			add(Dependency{Name: p.Name, Type: p.Type, ResolvedType: p.ResolvedType})
		}
	}
	return deps
}
