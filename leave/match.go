package leave

import "github.com/warp/leave-engine/generic"

// MatchRequests selects the requests that belong to an employee.
//
// The identity is the employee record's name and code, with fallback filling
// whichever of the two the record lacks (or standing in for a nil employee).
// An exact comparison is tried first; if it finds nothing, names and codes
// are compared ignoring case and surrounding/repeated whitespace. An empty
// identity matches nothing.
func MatchRequests(emp *Employee, fallback Identity, requests []Request) []Request {
	id := ResolveIdentity(emp, fallback)
	if id.IsEmpty() {
		return nil
	}

	exact := filterRequests(requests, func(r Request) bool {
		return (id.Name != "" && r.EmployeeName == id.Name) ||
			(id.Code != "" && r.EmployeeCode == id.Code)
	})
	if len(exact) > 0 {
		return exact
	}

	name, code := generic.NormalizeText(id.Name), generic.NormalizeText(id.Code)
	return filterRequests(requests, func(r Request) bool {
		return (name != "" && generic.NormalizeText(r.EmployeeName) == name) ||
			(code != "" && generic.NormalizeText(r.EmployeeCode) == code)
	})
}

func filterRequests(requests []Request, keep func(Request) bool) []Request {
	var out []Request
	for _, r := range requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// ResolveIdentity returns the employee's identity with blanks filled from
// fallback.
func ResolveIdentity(emp *Employee, fallback Identity) Identity {
	id := emp.Identity()
	if id.Name == "" {
		id.Name = fallback.Name
	}
	if id.Code == "" {
		id.Code = fallback.Code
	}
	return id
}

// FindEmployee returns the employee whose name or code matches id, trying
// exact equality before normalized comparison. Returns nil when none match.
func FindEmployee(employees []*Employee, id Identity) *Employee {
	if id.IsEmpty() {
		return nil
	}
	for _, e := range employees {
		if e != nil && ((id.Name != "" && e.Name == id.Name) || (id.Code != "" && e.Code == id.Code)) {
			return e
		}
	}
	name, code := generic.NormalizeText(id.Name), generic.NormalizeText(id.Code)
	for _, e := range employees {
		if e == nil {
			continue
		}
		if (name != "" && generic.NormalizeText(e.Name) == name) ||
			(code != "" && generic.NormalizeText(e.Code) == code) {
			return e
		}
	}
	return nil
}
