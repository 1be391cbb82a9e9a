package java

// roleTable is evaluated top to bottom; the first entry matched by any of
// the class's markers decides the role.
var roleTable = []struct {
	markers []string
	role    Role
}{
	{[]string{"org.springframework.stereotype.Service"}, RoleService},
	{[]string{"org.springframework.stereotype.Controller", "org.springframework.web.bind.annotation.RestController"}, RoleController},
	{[]string{"org.springframework.stereotype.Repository"}, RoleRepository},
	{[]string{"org.springframework.stereotype.Component"}, RoleComponent},
	{[]string{"org.springframework.context.annotation.Configuration"}, RoleConfiguration},
}

// ClassifyRole maps a class's markers to a role. When several stereotype
// markers are present the table order decides, not the marker order.
func ClassifyRole(markers []MarkerInfo) Role {
	for _, entry := range roleTable {
		for _, m := range markers {
			for _, qn := range entry.markers {
				if m.QualifiedName == qn {
					return entry.role
				}
			}
		}
	}
	return RoleOther
}
