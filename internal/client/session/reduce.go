package session

// Reduce returns the state that follows s after e. Events that do not apply
// to the current status leave s unchanged. Reduce never modifies memory
// reachable from s.
func Reduce(s State, e Event) State {
	s = s.clone()

	switch ev := e.(type) {
	case AuthStarted:
		if s.Status != StatusAnonymous && s.Status != StatusAuthFailed {
			return s
		}
		return State{
			Status:      StatusAuthenticating,
			Loading:     true,
			LoginMethod: ev.Method,
		}

	case VerificationRequired:
		if s.Status != StatusAuthenticating {
			return s
		}
		p := ev.Pending
		return State{
			Status:      StatusVerificationPending,
			LoginMethod: s.LoginMethod,
			Pending:     &p,
		}

	case VerificationSubmitted, ResendRequested:
		if s.Status != StatusVerificationPending {
			return s
		}
		s.Loading = true
		s.Error = ""
		return s

	case VerificationRejected:
		if s.Status != StatusVerificationPending {
			return s
		}
		s.Loading = false
		s.Error = ev.Message
		if s.Pending != nil {
			s.Pending.RemainingAttempts = ev.Remaining
		}
		return s

	case VerificationRenewed:
		if s.Status != StatusVerificationPending || s.Pending == nil {
			return s
		}
		s.Loading = false
		s.Error = ""
		s.Pending.ExpiresAt = ev.ExpiresAt
		s.Pending.RemainingAttempts = ev.MaxAttempts
		if ev.TempToken != "" {
			s.Pending.TempToken = ev.TempToken
		}
		return s

	case ResendFailed:
		if s.Status != StatusVerificationPending {
			return s
		}
		s.Loading = false
		s.Error = ev.Message
		return s

	case AuthSucceeded:
		if s.Status != StatusAuthenticating && s.Status != StatusVerificationPending {
			return s
		}
		id := ev.Identity
		return State{
			Status:          StatusAuthenticated,
			Identity:        &id,
			IsAuthenticated: true,
			LoginMethod:     ev.Method,
		}

	case AuthFailed:
		if s.Status != StatusAuthenticating && s.Status != StatusVerificationPending {
			return s
		}
		return State{Status: StatusAuthFailed, Error: ev.Message}

	case SessionDiscarded:
		if s.Status != StatusAuthenticating {
			return s
		}
		return State{Status: StatusAnonymous, Error: ev.Message}

	case LoggedOut:
		return Initial()

	case IdentityUpdated:
		if s.Status != StatusAuthenticated || s.Identity == nil {
			return s
		}
		id := s.Identity.Apply(ev.Patch)
		s.Identity = &id
		return s

	case ErrorCleared:
		s.Error = ""
		return s
	}

	return s
}
