package community

import goerrors "github.com/goliatone/go-errors"

// ErrInvalidTransition is returned when a requested status change is not allowed.
var ErrInvalidTransition = goerrors.New("invalid request state transition", goerrors.CategoryValidation).
	WithTextCode("INVALID_STATE_TRANSITION").
	WithCode(goerrors.CodeBadRequest)

// requestTransitions is the mentorship request lifecycle. Pending
// requests can be resolved either way; accepted and declined are
// terminal.
var requestTransitions = map[RequestStatus]map[RequestStatus]struct{}{
	RequestStatusPending: {
		RequestStatusAccepted: {},
		RequestStatusDeclined: {},
	},
}

// CanTransitionRequest reports whether a mentorship request may move
// from one status to another.
func CanTransitionRequest(from, to RequestStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := requestTransitions[from]
	if !ok {
		return false
	}
	_, exists := allowed[to]
	return exists
}

// TransitionRequest validates and applies a status change in place.
func TransitionRequest(request *MentorshipRequest, target RequestStatus) error {
	if request == nil {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"target": target,
			"reason": "request is nil",
		})
	}

	if !target.IsValid() {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"target": target,
			"reason": "unknown target status",
		})
	}

	if !CanTransitionRequest(request.Status, target) {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": request.Status,
			"to":   target,
		})
	}

	request.Status = target
	return nil
}

// applicationTransitions is the startup application lifecycle, same
// shape as mentorship requests.
var applicationTransitions = map[ApplicationStatus]map[ApplicationStatus]struct{}{
	ApplicationStatusPending: {
		ApplicationStatusApproved: {},
		ApplicationStatusRejected: {},
	},
}

// TransitionApplication validates and applies an application status
// change in place.
func TransitionApplication(application *StartupApplication, target ApplicationStatus) error {
	if application == nil {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"target": target,
			"reason": "application is nil",
		})
	}

	if !target.IsValid() {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"target": target,
			"reason": "unknown target status",
		})
	}

	if application.Status == target {
		return nil
	}

	allowed, ok := applicationTransitions[application.Status]
	if !ok {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": application.Status,
			"to":   target,
		})
	}
	if _, exists := allowed[target]; !exists {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": application.Status,
			"to":   target,
		})
	}

	application.Status = target
	return nil
}
