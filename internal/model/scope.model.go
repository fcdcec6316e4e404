package model

type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
)

// Scope is the caller's capability: either admin or a single agent.
// The zero value grants nothing.
type Scope struct {
	role    Role
	agentID int64
}

func AdminScope() Scope {
	return Scope{role: RoleAdmin}
}

func AgentScope(agentID int64) Scope {
	return Scope{role: RoleAgent, agentID: agentID}
}

func (s Scope) Role() Role { return s.role }

func (s Scope) IsAdmin() bool { return s.role == RoleAdmin }

func (s Scope) IsAgent() bool { return s.role == RoleAgent && s.agentID > 0 }

func (s Scope) Valid() bool { return s.IsAdmin() || s.IsAgent() }

func (s Scope) AgentID() (int64, bool) {
	if !s.IsAgent() {
		return 0, false
	}
	return s.agentID, true
}

// PaymentAgentFilter is the agent restriction to apply to payment reads,
// nil for admins.
func (s Scope) PaymentAgentFilter() *int64 {
	if id, ok := s.AgentID(); ok {
		return &id
	}
	return nil
}

// CanSeePayment reports whether p is visible under s.
func (s Scope) CanSeePayment(p *Payment) bool {
	if s.IsAdmin() {
		return true
	}
	id, ok := s.AgentID()
	return ok && p.AgentID != nil && *p.AgentID == id
}
