package java

import "strings"

// MarkerInfo is an annotation found on a class, field, method or parameter.
type MarkerInfo struct {
	Name          string            `json:"name" yaml:"name"`
	QualifiedName string            `json:"qualifiedName" yaml:"qualifiedName"`
	Attributes    map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Attribute returns the named attribute; "value" is also found under "path"
// and vice versa since request mappings accept both.
func (m MarkerInfo) Attribute(name string) (string, bool) {
	if v, ok := m.Attributes[name]; ok {
		return v, true
	}
	switch name {
	case "value":
		v, ok := m.Attributes["path"]
		return v, ok
	case "path":
		v, ok := m.Attributes["value"]
		return v, ok
	}
	return "", false
}

func (m MarkerInfo) IsStereotype() bool { return stereotypeMarkers[m.QualifiedName] }
func (m MarkerInfo) IsEndpoint() bool   { return endpointMarkers[m.QualifiedName] != "" }
func (m MarkerInfo) IsValidation() bool { return validationMarkers[m.QualifiedName] }
func (m MarkerInfo) IsInjection() bool  { return injectionMarkers[m.QualifiedName] }

// IsRequired reports whether the marker forbids null values.
func (m MarkerInfo) IsRequired() bool {
	return m.IsValidation() && requiredMarkerNames[m.Name]
}

// HTTPMethod returns the request method implied by an endpoint marker:
// GET for @GetMapping, the method attribute for @RequestMapping, and GET
// when @RequestMapping does not name one.
func (m MarkerInfo) HTTPMethod() string {
	method := endpointMarkers[m.QualifiedName]
	if method != "ANY" {
		return method
	}
	if v, ok := m.Attributes["method"]; ok {
		v = strings.Trim(v, "{} ")
		if i := strings.LastIndex(v, "."); i >= 0 {
			v = v[i+1:]
		}
		if v = strings.TrimSpace(strings.Split(v, ",")[0]); v != "" {
			return strings.ToUpper(v)
		}
	}
	return "GET"
}

// Path returns the first path declared by a mapping marker, or "".
func (m MarkerInfo) Path() string {
	v, _ := m.StringAttribute("value")
	return v
}

// StringAttribute returns the first string literal of the named attribute,
// so both @RequestParam("q") and @RequestParam(value = {"q"}) yield "q".
func (m MarkerInfo) StringAttribute(name string) (string, bool) {
	v, ok := m.Attribute(name)
	if !ok {
		return "", false
	}
	return firstStringLiteral(v), true
}

func firstStringLiteral(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "{") {
		return unquote(v)
	}
	start := strings.IndexByte(v, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(v[start+1:], '"')
	if end < 0 {
		return ""
	}
	return v[start+1 : start+1+end]
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

var stereotypeMarkers = map[string]bool{
	"org.springframework.stereotype.Service":                 true,
	"org.springframework.stereotype.Controller":              true,
	"org.springframework.web.bind.annotation.RestController": true,
	"org.springframework.stereotype.Repository":              true,
	"org.springframework.stereotype.Component":               true,
	"org.springframework.context.annotation.Configuration":   true,
}

// endpointMarkers maps request-mapping annotations to the HTTP method they
// imply; "ANY" defers to the annotation's method attribute.
var endpointMarkers = map[string]string{
	"org.springframework.web.bind.annotation.RequestMapping": "ANY",
	"org.springframework.web.bind.annotation.GetMapping":     "GET",
	"org.springframework.web.bind.annotation.PostMapping":    "POST",
	"org.springframework.web.bind.annotation.PutMapping":     "PUT",
	"org.springframework.web.bind.annotation.DeleteMapping":  "DELETE",
	"org.springframework.web.bind.annotation.PatchMapping":   "PATCH",
}

var validationMarkers = map[string]bool{
	"jakarta.validation.Valid":                            true,
	"javax.validation.Valid":                              true,
	"org.springframework.validation.annotation.Validated": true,
	"org.springframework.lang.NonNull":                    true,
	"lombok.NonNull":                                      true,
	"javax.annotation.Nonnull":                            true,
}

var injectionMarkers = map[string]bool{
	"org.springframework.beans.factory.annotation.Autowired": true,
	"javax.inject.Inject":                                    true,
	"jakarta.inject.Inject":                                  true,
	"javax.annotation.Resource":                              true,
	"jakarta.annotation.Resource":                            true,
}

var requiredMarkerNames = map[string]bool{
	"NotNull":  true,
	"NotBlank": true,
	"NotEmpty": true,
	"NonNull":  true,
	"Nonnull":  true,
}

var constraintNames = []string{
	"NotNull", "NotBlank", "NotEmpty", "Size", "Pattern", "Email",
	"Min", "Max", "Positive", "PositiveOrZero", "Negative", "NegativeOrZero",
	"DecimalMin", "DecimalMax", "Digits", "Past", "PastOrPresent",
	"Future", "FutureOrPresent", "AssertTrue", "AssertFalse", "Null",
}

// knownMarkers maps a simple annotation name to its preferred qualified
// name, used when the source does not import the annotation explicitly.
var knownMarkers = map[string]string{}

// defaultMarkerNamespace is the namespace guessed for an annotation that is
// neither imported nor known.
const defaultMarkerNamespace = "org.springframework.stereotype"

func init() {
	for _, name := range constraintNames {
		validationMarkers["jakarta.validation.constraints."+name] = true
		validationMarkers["javax.validation.constraints."+name] = true
	}

	// Insertion order matters: the first qualified name registered for a
	// simple name wins, so jakarta precedes javax.
	var preferred []string
	for _, name := range constraintNames {
		preferred = append(preferred, "jakarta.validation.constraints."+name)
	}
	preferred = append(preferred,
		"org.springframework.stereotype.Service",
		"org.springframework.stereotype.Controller",
		"org.springframework.web.bind.annotation.RestController",
		"org.springframework.stereotype.Repository",
		"org.springframework.stereotype.Component",
		"org.springframework.context.annotation.Configuration",
		"org.springframework.web.bind.annotation.RequestMapping",
		"org.springframework.web.bind.annotation.GetMapping",
		"org.springframework.web.bind.annotation.PostMapping",
		"org.springframework.web.bind.annotation.PutMapping",
		"org.springframework.web.bind.annotation.DeleteMapping",
		"org.springframework.web.bind.annotation.PatchMapping",
		"org.springframework.web.bind.annotation.PathVariable",
		"org.springframework.web.bind.annotation.RequestParam",
		"org.springframework.web.bind.annotation.RequestBody",
		"org.springframework.web.bind.annotation.RequestHeader",
		"org.springframework.beans.factory.annotation.Autowired",
		"org.springframework.beans.factory.annotation.Qualifier",
		"org.springframework.beans.factory.annotation.Value",
		"jakarta.inject.Inject",
		"jakarta.annotation.Resource",
		"jakarta.validation.Valid",
		"org.springframework.validation.annotation.Validated",
		"org.springframework.transaction.annotation.Transactional",
		"org.springframework.data.jpa.repository.Query",
		"org.springframework.context.annotation.Bean",
		"lombok.NonNull",
	)
	for _, qn := range preferred {
		simple := qn[strings.LastIndex(qn, ".")+1:]
		if _, ok := knownMarkers[simple]; !ok {
			knownMarkers[simple] = qn
		}
	}
}

// isKnownMarker reports whether qn is a qualified name the classifier
// recognizes in any of its tables.
func isKnownMarker(qn string) bool {
	return stereotypeMarkers[qn] || endpointMarkers[qn] != "" ||
		validationMarkers[qn] || injectionMarkers[qn] || knownMarkers[simpleName(qn)] == qn
}

func simpleName(qn string) string {
	if i := strings.LastIndex(qn, "."); i >= 0 {
		return qn[i+1:]
	}
	return qn
}
