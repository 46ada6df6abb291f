// Package permissions holds the fixed role/action policy consulted by other
// services through the authorization facade.
package permissions

import "auth-service/internal/domain/models"

type Action string

const (
	CreateTournament Action = "create_tournament"
	ViewResults      Action = "view_results"
)

// anyRole marks a rule that applies regardless of the caller's role.
const anyRole models.Role = "*"

type rule struct {
	role   models.Role
	action Action
}

var table = map[rule]bool{
	{role: models.RoleAdmin, action: CreateTournament}: true,
	{role: anyRole, action: ViewResults}:               true,
}

// Actions lists every action the policy knows about.
func Actions() []Action {
	return []Action{CreateTournament, ViewResults}
}

// ParseAction maps a wire name to an Action. Unknown names report ok=false.
func ParseAction(name string) (Action, bool) {
	for _, a := range Actions() {
		if string(a) == name {
			return a, true
		}
	}
	return "", false
}

// Evaluate reports whether role may perform action. Anything without an
// explicit allow rule is denied.
func Evaluate(role models.Role, action Action) bool {
	if table[rule{role: role, action: action}] {
		return true
	}
	return table[rule{role: anyRole, action: action}]
}

// Allowed is Evaluate for an action given by name.
func Allowed(role models.Role, actionName string) bool {
	action, ok := ParseAction(actionName)
	if !ok {
		return false
	}
	return Evaluate(role, action)
}
